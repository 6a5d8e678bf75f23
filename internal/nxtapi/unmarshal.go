package nxtapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

type DecodeError struct {
	Resource string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode %s: %v", e.Resource, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Text field that tolerates numbers and booleans, which are kept
// as they appear in the JSON
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = text(s)
		return nil
	}
	*t = text(strings.TrimSpace(string(data)))
	return nil
}

// Integer field that also accepts floats (truncated) and numeric strings.
// Anything else decodes to 0, and values out of range are clamped
type integer int

func (i *integer) UnmarshalJSON(data []byte) error {
	value := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if value == "null" || value == "" {
		*i = 0
		return nil
	}
	// Beyond float64 range ParseFloat returns ±Inf with ErrRange
	number, err := strconv.ParseFloat(value, 64)
	if (err != nil && !errors.Is(err, strconv.ErrRange)) || math.IsNaN(number) {
		log.Warn().Msg(fmt.Sprintf("Value %s is not a number, using 0", data))
		*i = 0
		return nil
	}
	switch {
	case number >= math.MaxInt:
		*i = math.MaxInt
	case number <= math.MinInt:
		*i = math.MinInt
	default:
		*i = integer(number)
	}
	return nil
}

// Boolean field the API sends as 1/0 most of the time.
// Unknown values decode to false
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	value := strings.ToLower(strings.Trim(strings.TrimSpace(string(data)), `"`))
	switch value {
	case "true":
		*f = true
	case "false", "null", "":
		*f = false
	default:
		number, err := strconv.ParseFloat(value, 64)
		if err != nil {
			log.Warn().Msg(fmt.Sprintf("Value %s is not a flag, using false", data))
			*f = false
			return nil
		}
		*f = number == 1
	}
	return nil
}

func UnmarshalOrganizations(data []byte) ([]Organization, error) {

	var raw []*struct {
		Name   text    `json:"name"`
		Points integer `json:"points"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Resource: "organizations", Err: err}
	}

	organizations := make([]Organization, 0, len(raw))
	for _, org := range raw {
		// null entries carry nothing
		if org == nil {
			continue
		}
		organizations = append(organizations, Organization{Name: string(org.Name), Points: int(org.Points)})
	}
	return organizations, nil
}

func UnmarshalCaptures(data []byte) ([]CaptureEvent, error) {

	var raw []*struct {
		At      text `json:"at"`
		By      text `json:"by"`
		Zone    text `json:"zone"`
		Success flag `json:"success"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Resource: "captures", Err: err}
	}

	captures := make([]CaptureEvent, 0, len(raw))
	for _, capture := range raw {
		if capture == nil {
			continue
		}
		captures = append(captures, CaptureEvent{
			At:      string(capture.At),
			By:      string(capture.By),
			Zone:    string(capture.Zone),
			Success: bool(capture.Success),
		})
	}
	return captures, nil
}
