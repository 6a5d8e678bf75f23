package nxtapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"zoneboard/internal/common"

	"github.com/rs/zerolog/log"
)

// Default location of the API
const DEFAULT_BASE_URL = "https://api.nxtrp.pl/api"

// Routes inside the API
const ROUTE_ORGANIZATIONS = "/orgs"
const ROUTE_CAPTURES = "/captures"

type Api struct {
	baseUrl string
	proxy   *common.Proxy
}

func NewApi(baseUrl string, timeout time.Duration, restrictions []common.Restriction) *Api {
	if baseUrl == "" {
		baseUrl = DEFAULT_BASE_URL
	}
	header := map[string]string{"Accept": "application/json"}
	return &Api{baseUrl: strings.TrimRight(baseUrl, "/"), proxy: common.NewProxy(header, timeout, restrictions)}
}

func (api *Api) GetOrganizations(ctx context.Context) ([]Organization, error) {

	data, err := api.request(ctx, ROUTE_ORGANIZATIONS)
	if err != nil {
		return nil, err
	}
	organizations, err := UnmarshalOrganizations(data)
	if err != nil {
		return nil, err
	}
	log.Debug().Msg(fmt.Sprintf("Received %d organizations", len(organizations)))
	return organizations, nil
}

func (api *Api) GetCaptures(ctx context.Context) ([]CaptureEvent, error) {

	data, err := api.request(ctx, ROUTE_CAPTURES)
	if err != nil {
		return nil, err
	}
	captures, err := UnmarshalCaptures(data)
	if err != nil {
		return nil, err
	}
	log.Debug().Msg(fmt.Sprintf("Received %d captures", len(captures)))
	return captures, nil
}

// Fetch both resources at the same time. A failure in one of them
// is logged and leaves that resource empty, without affecting the other
func (api *Api) Fetch(ctx context.Context) Snapshot {

	var snapshot Snapshot
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		organizations, err := api.GetOrganizations(ctx)
		snapshot.Organizations = newResult(organizations, err, "organizations")
	}()
	go func() {
		defer wg.Done()
		captures, err := api.GetCaptures(ctx)
		snapshot.Captures = newResult(captures, err, "captures")
	}()
	wg.Wait()

	return snapshot
}

func newResult[T any](value []T, err error, resource string) Result[[]T] {
	if err != nil {
		kind := classify(err)
		log.Error().Err(err).Str("resource", resource).Str("kind", kind.String()).Msg("Could not fetch resource, using no data")
		return Result[[]T]{Value: []T{}, Kind: kind, Err: err}
	}
	if value == nil {
		value = []T{}
	}
	return Result[[]T]{Value: value}
}

func classify(err error) Kind {
	var statusErr *common.StatusError
	var decodeErr *DecodeError
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, common.ErrRateLimited):
		return KindRateLimited
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.As(err, &decodeErr):
		return KindDecode
	default:
		return KindNetwork
	}
}

func (api *Api) request(ctx context.Context, route string) ([]byte, error) {

	url := api.baseUrl + route
	log.Debug().Msg(fmt.Sprintf("Requesting to url %s", url))
	return api.proxy.Request(ctx, url)
}
