package bot

import (
	"errors"
	"fmt"

	"zoneboard/internal/board"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// What happened to the live message in a call to Publish
type Outcome int

const (
	OutcomeSent Outcome = iota
	OutcomeEdited
	OutcomeRecreated
	OutcomeForbidden
	OutcomeFailed
)

var outcomeNames = map[Outcome]string{
	OutcomeSent:      "sent",
	OutcomeEdited:    "edited",
	OutcomeRecreated: "recreated",
	OutcomeForbidden: "forbidden",
	OutcomeFailed:    "failed",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// The publisher keeps exactly one live message in a channel.
// It sends it the first time and edits it afterwards. If the message
// disappears, a new one is sent and remembered instead
type Publisher struct {
	messenger Messenger
	channelId string
	messageId string
}

func NewPublisher(messenger Messenger, channelId string) *Publisher {
	return &Publisher{messenger: messenger, channelId: channelId}
}

// Id of the live message, empty if there is none yet
func (p *Publisher) Handle() string {
	return p.messageId
}

func (p *Publisher) Publish(document board.Document) Outcome {

	embed := Embed(document)

	// No message yet, so create it
	if p.messageId == "" {
		return p.send(embed, OutcomeSent)
	}

	err := p.edit(embed)
	switch {
	case err == nil:
		log.Debug().Msg(fmt.Sprintf("Edited message %s", p.messageId))
		return OutcomeEdited
	case errors.Is(err, ErrNotFound):
		log.Warn().Msg(fmt.Sprintf("Message with id %s not found, sending a new one", p.messageId))
		p.messageId = ""
		return p.send(embed, OutcomeRecreated)
	case errors.Is(err, ErrForbidden):
		log.Error().Err(err).Msg("Missing permissions to edit the message, check the permissions of the bot")
		return OutcomeForbidden
	default:
		log.Error().Err(err).Msg(fmt.Sprintf("Unexpected error while editing message %s", p.messageId))
		return OutcomeFailed
	}
}

func (p *Publisher) send(embed *discordgo.MessageEmbed, outcome Outcome) Outcome {
	messageId, err := p.messenger.Send(p.channelId, embed)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			log.Error().Err(err).Msg(fmt.Sprintf("Missing permissions to send messages to channel %s", p.channelId))
			return OutcomeForbidden
		}
		log.Error().Err(err).Msg(fmt.Sprintf("Could not send message to channel %s", p.channelId))
		return OutcomeFailed
	}
	log.Info().Msg(fmt.Sprintf("Sent new message %s to channel %s", messageId, p.channelId))
	p.messageId = messageId
	return outcome
}

func (p *Publisher) edit(embed *discordgo.MessageEmbed) error {
	// Make sure the message is still there before editing it
	if _, err := p.messenger.Message(p.channelId, p.messageId); err != nil {
		return err
	}
	return p.messenger.Edit(p.channelId, p.messageId, embed)
}
