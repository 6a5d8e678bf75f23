package bot

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

var (
	// The message or the channel does not exist anymore
	ErrNotFound = errors.New("not found")
	// The bot lacks the permissions to act on the channel
	ErrForbidden = errors.New("forbidden")
)

// The operations the publisher needs from the chat platform
type Messenger interface {
	Send(channelId string, embed *discordgo.MessageEmbed) (string, error)
	Message(channelId string, messageId string) (*discordgo.Message, error)
	Edit(channelId string, messageId string, embed *discordgo.MessageEmbed) error
}

type discordMessenger struct {
	session *discordgo.Session
}

func NewDiscordMessenger(session *discordgo.Session) Messenger {
	return &discordMessenger{session}
}

func (m *discordMessenger) Send(channelId string, embed *discordgo.MessageEmbed) (string, error) {
	message, err := m.session.ChannelMessageSendEmbed(channelId, embed)
	if err != nil {
		return "", translate(err)
	}
	return message.ID, nil
}

func (m *discordMessenger) Message(channelId string, messageId string) (*discordgo.Message, error) {
	message, err := m.session.ChannelMessage(channelId, messageId)
	if err != nil {
		return nil, translate(err)
	}
	return message, nil
}

func (m *discordMessenger) Edit(channelId string, messageId string, embed *discordgo.MessageEmbed) error {
	if _, err := m.session.ChannelMessageEditEmbed(channelId, messageId, embed); err != nil {
		return translate(err)
	}
	return nil
}

// Map the errors returned by discord to ErrNotFound and ErrForbidden,
// keeping the original error in the chain
func translate(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		case discordgo.ErrCodeMissingAccess, discordgo.ErrCodeMissingPermissions:
			return fmt.Errorf("%w: %w", ErrForbidden, err)
		}
	}
	if restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrForbidden, err)
		}
	}
	return err
}
