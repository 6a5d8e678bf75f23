package bot

import (
	"context"
	"fmt"
	"sync"

	"zoneboard/internal/board"
	"zoneboard/internal/common"
	"zoneboard/internal/config"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

type Bot struct {
	token     string
	channelId string
	fetcher   Fetcher
	options   board.Options
	runner    *common.Runner
	loop      *Loop
	startOnce sync.Once
}

func New(cfg *config.Config, fetcher Fetcher) (*Bot, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bot := &Bot{
		token:     cfg.DiscordToken,
		channelId: cfg.ChannelId,
		fetcher:   fetcher,
		options: board.Options{
			Location:  board.LoadLocation(cfg.Timezone),
			Ownership: cfg.ZoneOwnership,
		},
	}
	bot.runner = common.NewRunner(cfg.UpdateInterval, func(ctx context.Context) {
		bot.loop.Cycle(ctx)
	})
	return bot, nil
}

// Report if the update loop is running
func (bot *Bot) Ready() bool {
	return bot.runner.Running()
}

// Connect to discord and block until the context is done.
// The update loop starts once the connection is ready
func (bot *Bot) Run(ctx context.Context) error {

	// Create session
	discord, err := discordgo.New("Bot " + bot.token)
	if err != nil {
		return fmt.Errorf("could not create discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentsGuilds

	// Event handler
	discord.AddHandler(func(session *discordgo.Session, ready *discordgo.Ready) {
		bot.onReady(ctx, session, ready)
	})

	// Open session
	if err := discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer discord.Close()
	defer bot.runner.Stop()

	log.Info().Msg("Waiting until shutdown")
	<-ctx.Done()
	log.Info().Msg("Shutting down")
	return nil
}

func (bot *Bot) onReady(ctx context.Context, session *discordgo.Session, ready *discordgo.Ready) {

	if ready.User != nil {
		log.Info().Msg(fmt.Sprintf("Logged in as %s", ready.User.String()))
	}
	log.Info().Msg(fmt.Sprintf("Bot is present in %d servers", len(ready.Guilds)))

	// Ready fires again after every reconnection,
	// but the loop only has to be set up once
	bot.startOnce.Do(func() {
		channel, err := resolveChannel(session, bot.channelId)
		if err != nil {
			log.Error().Err(err).Msg(fmt.Sprintf("Channel with id %s not found, check the id is correct and the bot has access to it. Not starting the update loop", bot.channelId))
			return
		}
		log.Info().Msg(fmt.Sprintf("Publishing to channel %s (%s)", channel.Name, channel.ID))

		publisher := NewPublisher(NewDiscordMessenger(session), channel.ID)
		bot.loop = NewLoop(bot.fetcher, publisher, bot.options)
		bot.runner.Start(ctx)
	})
}

// Look for the channel in the state cache first, then ask discord
func resolveChannel(session *discordgo.Session, channelId string) (*discordgo.Channel, error) {

	if session.State != nil {
		if channel, err := session.State.Channel(channelId); err == nil {
			return channel, nil
		}
	}
	channel, err := session.Channel(channelId)
	if err != nil {
		return nil, fmt.Errorf("could not resolve channel %s: %w", channelId, translate(err))
	}
	return channel, nil
}
