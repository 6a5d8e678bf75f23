package bot

import (
	"context"
	"fmt"
	"time"

	"zoneboard/internal/board"
	"zoneboard/internal/nxtapi"
	"zoneboard/internal/telemetry"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Fetcher interface {
	Fetch(ctx context.Context) nxtapi.Snapshot
}

// One cycle of the loop fetches the data, renders it and publishes it
type Loop struct {
	fetcher   Fetcher
	publisher *Publisher
	options   board.Options
	now       func() time.Time
}

func NewLoop(fetcher Fetcher, publisher *Publisher, options board.Options) *Loop {
	return &Loop{fetcher: fetcher, publisher: publisher, options: options, now: time.Now}
}

func (loop *Loop) Cycle(ctx context.Context) Outcome {

	logger := log.With().Str("cycle", uuid.NewString()).Logger()
	start := time.Now()

	snapshot := loop.fetcher.Fetch(ctx)
	if !snapshot.Organizations.Ok() {
		telemetry.FetchFailed("organizations", snapshot.Organizations.Kind.String())
	}
	if !snapshot.Captures.Ok() {
		telemetry.FetchFailed("captures", snapshot.Captures.Kind.String())
	}
	logger.Debug().Msg(fmt.Sprintf("Fetched %d organizations and %d captures", len(snapshot.Organizations.Value), len(snapshot.Captures.Value)))

	document := board.Render(snapshot.Organizations.Value, snapshot.Captures.Value, loop.now(), loop.options)
	outcome := loop.publisher.Publish(document)

	telemetry.CycleFinished(outcome.String(), loop.publisher.Handle() != "", time.Since(start))
	logger.Info().Msg(fmt.Sprintf("Cycle finished with outcome %s, live message is %q", outcome, loop.publisher.Handle()))
	return outcome
}
