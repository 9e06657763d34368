package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEventIdentity(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name:  "event id wins",
			event: Event{EventID: "evt-1", TxHash: "0xabc", LogIndex: 3},
			want:  "evt-1",
		},
		{
			name:  "tx hash and log index",
			event: Event{TxHash: "0xabc", LogIndex: 3},
			want:  "0xabc-3",
		},
		{
			name:  "zero log index",
			event: Event{TxHash: "0xdef"},
			want:  "0xdef-0",
		},
		{
			name:  "empty event",
			event: Event{},
			want:  "-0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Identity(); got != tt.want {
				t.Errorf("Identity() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSnapshotJSON(t *testing.T) {
	s := Snapshot{
		Auditors: []Auditor{},
		Events:   EventsPage{Events: []Event{}},
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	got := string(data)
	for _, want := range []string{
		`"auditors":[]`,
		`"events":{"events":[]}`,
		`"subscription":null`,
		`"treasury":null`,
		`"oucStatus":null`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("snapshot JSON %s missing %s", got, want)
		}
	}
	if strings.Contains(got, "failures") {
		t.Errorf("empty failures should be omitted: %s", got)
	}
}

func TestSnapshotDegraded(t *testing.T) {
	var s Snapshot
	if s.Degraded() {
		t.Error("Degraded() = true for snapshot without failures")
	}

	s.Failures = append(s.Failures, SourceFailure{Source: "treasury", Reason: "timeout"})
	if !s.Degraded() {
		t.Error("Degraded() = false for snapshot with failures")
	}
}
