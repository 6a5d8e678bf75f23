package board

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"zoneboard/internal/nxtapi"
)

// How the current owner of a zone is decided
type OwnershipMode int

const (
	// The first successful capture in feed order wins.
	// The feed is newest first, so this is the most recent one
	OwnershipFeedOrder OwnershipMode = iota
	// The successful capture with the newest timestamp wins.
	// Captures with timestamps that cannot be parsed fall back to feed order
	OwnershipNewestTimestamp
)

func ParseOwnershipMode(mode string) (OwnershipMode, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "feed":
		return OwnershipFeedOrder, nil
	case "timestamp":
		return OwnershipNewestTimestamp, nil
	default:
		return OwnershipFeedOrder, fmt.Errorf("ownership mode %q is not one of feed, timestamp", mode)
	}
}

type ZoneOwner struct {
	Zone  string
	Owner string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	// Unix seconds
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil && seconds > 0 {
		return time.Unix(seconds, 0), true
	}
	return time.Time{}, false
}

// Compute who owns every zone, in the order zones are first seen in the feed.
// A zone appears at most once. Failed captures and captures without a zone are ignored
func Ownership(captures []nxtapi.CaptureEvent, mode OwnershipMode) []ZoneOwner {

	owners := make([]ZoneOwner, 0)
	index := make(map[string]int)
	timestamps := make([]time.Time, 0)
	parsed := make([]bool, 0)

	for _, capture := range captures {
		if !capture.Success || capture.Zone == "" {
			continue
		}
		owner := orNotAvailable(capture.By)
		at, ok := parseTimestamp(capture.At)

		i, seen := index[capture.Zone]
		if !seen {
			index[capture.Zone] = len(owners)
			owners = append(owners, ZoneOwner{Zone: capture.Zone, Owner: owner})
			timestamps = append(timestamps, at)
			parsed = append(parsed, ok)
			continue
		}

		// In feed order the first one seen is final
		if mode != OwnershipNewestTimestamp {
			continue
		}
		if ok && parsed[i] && at.After(timestamps[i]) {
			owners[i].Owner = owner
			timestamps[i] = at
		}
	}

	return owners
}
