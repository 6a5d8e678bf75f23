package nxtapi

import "fmt"

// Value shown for text fields missing from the API response
const NotAvailable = "N/A"

type Organization struct {
	Name   string
	Points int
}

// A capture attempt of a zone by an organization.
// The API returns them newest first
type CaptureEvent struct {
	At      string
	By      string
	Zone    string
	Success bool
}

// The reason a request for a resource failed
type Kind int

const (
	KindNone Kind = iota
	KindNetwork
	KindStatus
	KindDecode
	KindRateLimited
)

var kindNames = map[Kind]string{
	KindNone:        "none",
	KindNetwork:     "network",
	KindStatus:      "status",
	KindDecode:      "decode",
	KindRateLimited: "rate_limited",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Outcome of fetching one resource. When Err is set,
// Value is the empty sequence
type Result[T any] struct {
	Value T
	Kind  Kind
	Err   error
}

func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Everything fetched in a single cycle
type Snapshot struct {
	Organizations Result[[]Organization]
	Captures      Result[[]CaptureEvent]
}
