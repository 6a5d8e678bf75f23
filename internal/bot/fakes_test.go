package bot

import (
	"context"
	"fmt"

	"zoneboard/internal/nxtapi"

	"github.com/bwmarrin/discordgo"
)

type call struct {
	method    string
	channelId string
	messageId string
	embed     *discordgo.MessageEmbed
}

// In memory channel. Messages can be deleted and errors injected
type fakeMessenger struct {
	calls    []call
	messages map[string]*discordgo.MessageEmbed
	nextId   int

	sendErr    error
	messageErr error
	editErr    error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{messages: map[string]*discordgo.MessageEmbed{}}
}

func (f *fakeMessenger) Send(channelId string, embed *discordgo.MessageEmbed) (string, error) {
	f.calls = append(f.calls, call{method: "send", channelId: channelId, embed: embed})
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.nextId++
	id := fmt.Sprintf("msg-%d", f.nextId)
	f.messages[id] = embed
	return id, nil
}

func (f *fakeMessenger) Message(channelId string, messageId string) (*discordgo.Message, error) {
	f.calls = append(f.calls, call{method: "message", channelId: channelId, messageId: messageId})
	if f.messageErr != nil {
		return nil, f.messageErr
	}
	embed, ok := f.messages[messageId]
	if !ok {
		return nil, fmt.Errorf("%w: unknown message %s", ErrNotFound, messageId)
	}
	return &discordgo.Message{ID: messageId, ChannelID: channelId, Embeds: []*discordgo.MessageEmbed{embed}}, nil
}

func (f *fakeMessenger) Edit(channelId string, messageId string, embed *discordgo.MessageEmbed) error {
	f.calls = append(f.calls, call{method: "edit", channelId: channelId, messageId: messageId, embed: embed})
	if f.editErr != nil {
		return f.editErr
	}
	if _, ok := f.messages[messageId]; !ok {
		return fmt.Errorf("%w: unknown message %s", ErrNotFound, messageId)
	}
	f.messages[messageId] = embed
	return nil
}

// Number of calls that write to the channel
func (f *fakeMessenger) writes(method string) int {
	count := 0
	for _, c := range f.calls {
		if c.method == method {
			count++
		}
	}
	return count
}

type fakeFetcher struct {
	snapshot nxtapi.Snapshot
	calls    int
}

func (f *fakeFetcher) Fetch(ctx context.Context) nxtapi.Snapshot {
	f.calls++
	return f.snapshot
}
