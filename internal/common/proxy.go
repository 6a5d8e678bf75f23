package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	OK                     int = 200
	BAD_REQUEST            int = 400
	UNAUTHORIZED           int = 401
	FORBIDDEN              int = 403
	DATA_NOT_FOUND         int = 404
	METHOD_NOT_ALLOWED     int = 405
	UNSUPPORTED_MEDIA_TYPE int = 415
	RATE_LIMIT_EXCEEDED    int = 429
	INTERNAL_SERVER_ERROR  int = 500
	BAD_GATEWAY            int = 502
	SERVICE_UNAVAILABLE    int = 503
	GATEWAY_TIMEOUT        int = 504
)

var messages = map[int]string{
	OK:                     "OK",
	BAD_REQUEST:            "Bad request",
	UNAUTHORIZED:           "Unauthorized",
	FORBIDDEN:              "Forbidden",
	DATA_NOT_FOUND:         "Data not found",
	METHOD_NOT_ALLOWED:     "Method not allowed",
	UNSUPPORTED_MEDIA_TYPE: "Unsupported media type",
	RATE_LIMIT_EXCEEDED:    "Rate limit exceeded",
	INTERNAL_SERVER_ERROR:  "Internal server error",
	BAD_GATEWAY:            "Bad gateway",
	SERVICE_UNAVAILABLE:    "Service unavailable",
	GATEWAY_TIMEOUT:        "Gateway timeout",
}

// Bodies bigger than this are not read
const maxBodySize = 8 << 20

// Cooldown applied after the server answers with a 429
const rateLimitCooldown = time.Minute

var ErrRateLimited = errors.New("request not allowed by the rate limiter")

// Returned when the server answers with a non 2xx status
type StatusError struct {
	Url        string
	StatusCode int
}

func (e *StatusError) Error() string {
	message, ok := messages[e.StatusCode]
	if !ok {
		message = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed with status %d (%s)", e.Url, e.StatusCode, message)
}

type Proxy struct {
	header      map[string]string
	client      *http.Client
	rateLimiter *RateLimiter
}

func NewProxy(header map[string]string, timeout time.Duration, restrictions []Restriction) *Proxy {
	return &Proxy{header, &http.Client{Timeout: timeout}, NewRateLimiter(restrictions, rateLimitCooldown)}
}

// Make a GET request to the provided url and return the body.
// The request will be performed depending on the status of the rate limiter
func (proxy *Proxy) Request(ctx context.Context, url string) ([]byte, error) {

	// ask for permission to execute the request
	if allowed, _ := proxy.rateLimiter.Allowed(); !allowed {
		return nil, ErrRateLimited
	}

	// Create the request and add the header
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request for url %s: %w", url, err)
	}
	for key, value := range proxy.header {
		request.Header.Set(key, value)
	}

	// Perform the request
	res, err := proxy.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("could not perform request to %s: %w", url, err)
	}
	defer res.Body.Close()

	if message, ok := messages[res.StatusCode]; ok {
		log.Debug().Msg(fmt.Sprintf("%d %s", res.StatusCode, message))
	} else {
		log.Debug().Msg(fmt.Sprintf("Status code of request (%d) is not in the table", res.StatusCode))
	}

	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		// Read the response
		stream, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
		if err != nil {
			return nil, fmt.Errorf("could not extract the response for url %s: %w", url, err)
		}
		return stream, nil
	case res.StatusCode == RATE_LIMIT_EXCEEDED:
		proxy.rateLimiter.ReceivedRateLimit()
		return nil, &StatusError{Url: url, StatusCode: res.StatusCode}
	default:
		return nil, &StatusError{Url: url, StatusCode: res.StatusCode}
	}
}
