package bot

import (
	"fmt"
	"strings"

	"zoneboard/internal/board"

	"github.com/bwmarrin/discordgo"
)

// Discord rejects embed fields with longer values
const fieldValueLimit = 1024

const footerIcon = "https://cdn-icons-png.flaticon.com/512/1040/1040220.png"

// Build the embed shown in the live message
func Embed(document board.Document) *discordgo.MessageEmbed {

	embed := discordgo.MessageEmbed{
		Title: document.Title,
		Color: document.Color,
		Footer: &discordgo.MessageEmbedFooter{
			Text:    document.Footer,
			IconURL: footerIcon,
		},
	}
	for _, section := range []board.Section{document.Top, document.Recent, document.Zones} {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   section.Name,
			Value:  FieldValue(section),
			Inline: section.Inline,
		})
	}
	return &embed
}

// Join the lines of a section, or use its placeholder if there are none.
// Lines that do not fit are replaced by a line counting them
func FieldValue(section board.Section) string {

	if section.Empty() {
		return section.Placeholder
	}

	value := strings.Join(section.Lines, "\n")
	if len(value) <= fieldValueLimit {
		return value
	}

	kept := make([]string, 0, len(section.Lines))
	size := 0
	for i, line := range section.Lines {
		trailer := fmt.Sprintf("…and %d more", len(section.Lines)-i)
		if size+len(line)+1+len(trailer) > fieldValueLimit {
			return strings.Join(append(kept, trailer), "\n")
		}
		kept = append(kept, line)
		size += len(line) + 1
	}
	return strings.Join(kept, "\n")
}
