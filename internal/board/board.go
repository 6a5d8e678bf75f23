// Package board turns the organizations and captures received from the API
// into the document shown in the live message. Rendering is pure: the same
// input and the same time always produce the same document.
package board

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"zoneboard/internal/nxtapi"

	"github.com/rs/zerolog/log"
)

const (
	title = "🏆 Organization Ranking, Captures and Zone Status 🌍"
	color = 0x3498db

	topName    = "📈 Top Organizations"
	recentName = "⏳ Recent Zone Captures"
	zonesName  = "🗺️ Zone Status"

	noOrganizations = "No organization data available."
	noCaptures      = "No captures recorded."
	noZones         = "No zone data available."

	footerLayout = "2006-01-02 15:04:05"

	topSize    = 10
	recentSize = 3
)

const DefaultTimezone = "Europe/Warsaw"

type Section struct {
	Name        string
	Lines       []string
	Placeholder string
	Inline      bool
}

func (s Section) Empty() bool {
	return len(s.Lines) == 0
}

type Document struct {
	Title     string
	Color     int
	Top       Section
	Recent    Section
	Zones     Section
	Footer    string
	UpdatedAt time.Time
}

type Options struct {
	Location  *time.Location
	Ownership OwnershipMode
}

// Load the location used for the footer. If it is not available,
// fall back to a fixed UTC+1 zone
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Msg(fmt.Sprintf("Could not load timezone %s, using fixed CET", name))
		return time.FixedZone("CET", 60*60)
	}
	return location
}

func Render(organizations []nxtapi.Organization, captures []nxtapi.CaptureEvent, now time.Time, opts Options) Document {

	location := opts.Location
	if location == nil {
		location = time.UTC
	}
	updatedAt := now.In(location)

	return Document{
		Title:     title,
		Color:     color,
		Top:       topSection(organizations),
		Recent:    recentSection(captures),
		Zones:     zonesSection(captures, opts.Ownership),
		Footer:    fmt.Sprintf("Last update: %s", updatedAt.Format(footerLayout)),
		UpdatedAt: updatedAt,
	}
}

func topSection(organizations []nxtapi.Organization) Section {

	section := Section{Name: topName, Placeholder: noOrganizations, Inline: true}

	// Stable, so organizations with the same points keep the order of the API
	sorted := slices.Clone(organizations)
	slices.SortStableFunc(sorted, func(a, b nxtapi.Organization) int {
		return cmp.Compare(b.Points, a.Points)
	})
	if len(sorted) > topSize {
		sorted = sorted[:topSize]
	}

	for i, org := range sorted {
		line := fmt.Sprintf("%s**%s**: `%d pts`", rankMarker(i+1), orNotAvailable(org.Name), org.Points)
		section.Lines = append(section.Lines, line)
	}
	return section
}

func rankMarker(rank int) string {
	switch rank {
	case 1:
		return "🥇 "
	case 2:
		return "🥈 "
	case 3:
		return "🥉 "
	case 4, 5:
		return "🏅 "
	default:
		return fmt.Sprintf("#%d. ", rank)
	}
}

func recentSection(captures []nxtapi.CaptureEvent) Section {

	section := Section{Name: recentName, Placeholder: noCaptures, Inline: true}

	recent := captures
	if len(recent) > recentSize {
		recent = recent[:recentSize]
	}

	for i, capture := range recent {
		status := "❌"
		if capture.Success {
			status = "✅"
		}
		block := fmt.Sprintf("**#%d Capture:**\n```yaml\nTime: %s\nBy: %s\nZone: %s\nStatus: %s\n```",
			i+1, orNotAvailable(capture.At), orNotAvailable(capture.By), orNotAvailable(capture.Zone), status)
		section.Lines = append(section.Lines, block)
	}
	return section
}

func zonesSection(captures []nxtapi.CaptureEvent, mode OwnershipMode) Section {

	section := Section{Name: zonesName, Placeholder: noZones, Inline: false}
	for _, zone := range Ownership(captures, mode) {
		section.Lines = append(section.Lines, fmt.Sprintf("**%s** ➜ `%s`", zone.Zone, zone.Owner))
	}
	return section
}

func orNotAvailable(value string) string {
	if value == "" {
		return nxtapi.NotAvailable
	}
	return value
}
