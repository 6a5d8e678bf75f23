package board

import (
	"reflect"
	"testing"

	"zoneboard/internal/nxtapi"
)

func TestOwnershipFeedOrder(t *testing.T) {
	tests := []struct {
		name     string
		captures []nxtapi.CaptureEvent
		expected []ZoneOwner
	}{
		{
			name:     "empty",
			captures: nil,
			expected: []ZoneOwner{},
		},
		{
			name: "newest success wins",
			captures: []nxtapi.CaptureEvent{
				{Zone: "A", By: "X", Success: true},
				{Zone: "A", By: "Y", Success: true},
			},
			expected: []ZoneOwner{{"A", "X"}},
		},
		{
			name: "failures are ignored",
			captures: []nxtapi.CaptureEvent{
				{Zone: "A", By: "Y", Success: false},
				{Zone: "A", By: "X", Success: true},
			},
			expected: []ZoneOwner{{"A", "X"}},
		},
		{
			name: "only failures",
			captures: []nxtapi.CaptureEvent{
				{Zone: "A", By: "Y", Success: false},
			},
			expected: []ZoneOwner{},
		},
		{
			name: "first seen order and no zone",
			captures: []nxtapi.CaptureEvent{
				{Zone: "C", By: "X", Success: true},
				{Zone: "", By: "X", Success: true},
				{Zone: "A", By: "", Success: true},
				{Zone: "C", By: "Z", Success: true},
			},
			expected: []ZoneOwner{{"C", "X"}, {"A", "N/A"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owners := Ownership(tt.captures, OwnershipFeedOrder)
			if !reflect.DeepEqual(owners, tt.expected) {
				t.Fatalf("got %v, want %v", owners, tt.expected)
			}
		})
	}
}

func TestOwnershipNewestTimestamp(t *testing.T) {
	captures := []nxtapi.CaptureEvent{
		{At: "2025-07-10 10:00:00", Zone: "A", By: "Old", Success: true},
		{At: "2025-07-10 12:00:00", Zone: "A", By: "New", Success: true},
		{At: "2025-07-10T09:00:00Z", Zone: "B", By: "First", Success: true},
		{At: "garbage", Zone: "B", By: "Unparsed", Success: true},
		{At: "2025-07-10 08:00:00", Zone: "B", By: "Older", Success: true},
	}

	owners := Ownership(captures, OwnershipNewestTimestamp)
	expected := []ZoneOwner{{"A", "New"}, {"B", "First"}}
	if !reflect.DeepEqual(owners, expected) {
		t.Fatalf("got %v, want %v", owners, expected)
	}

	// The same feed read in order keeps the first entries
	owners = Ownership(captures, OwnershipFeedOrder)
	expected = []ZoneOwner{{"A", "Old"}, {"B", "First"}}
	if !reflect.DeepEqual(owners, expected) {
		t.Fatalf("got %v, want %v", owners, expected)
	}
}

func TestParseOwnershipMode(t *testing.T) {
	for input, expected := range map[string]OwnershipMode{"": OwnershipFeedOrder, "feed": OwnershipFeedOrder, "Timestamp": OwnershipNewestTimestamp} {
		mode, err := ParseOwnershipMode(input)
		if err != nil || mode != expected {
			t.Errorf("ParseOwnershipMode(%q) = %v, %v", input, mode, err)
		}
	}
	if _, err := ParseOwnershipMode("random"); err == nil {
		t.Errorf("expected an error for an unknown mode")
	}
}
