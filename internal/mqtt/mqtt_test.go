package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/led-keypad/internal/mode"
)

func TestTopic(t *testing.T) {
	if Topic != "home/ledpanel/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
}

func TestTopicSystem(t *testing.T) {
	if TopicSystem != "home/ledpanel/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatPayload(t *testing.T) {
	event := mode.Event{
		Timestamp: time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Mode:      mode.Flow,
		Key:       0,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if payload.Panel.Timestamp != "2026-03-15T14:30:00Z" {
		t.Errorf("timestamp: got %q", payload.Panel.Timestamp)
	}
	if payload.Panel.Event != "MODE_FLOW" {
		t.Errorf("event: got %q, want MODE_FLOW", payload.Panel.Event)
	}
	if payload.Panel.Mode != "FLOW" {
		t.Errorf("mode: got %q, want FLOW", payload.Panel.Mode)
	}
	if payload.Panel.Key != 0 {
		t.Errorf("key: got %d, want 0", payload.Panel.Key)
	}
}

func TestFormatPayloadExactJSON(t *testing.T) {
	event := mode.Event{
		Timestamp: time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Mode:      mode.Binary,
		Key:       1,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"ledpanel":{"timestamp":"2026-03-15T14:30:00Z","event":"MODE_BINARY","mode":"BINARY","key":1}}`
	if string(data) != want {
		t.Errorf("payload:\n got %s\nwant %s", data, want)
	}
}

func TestFormatPayloadAllModes(t *testing.T) {
	ts := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	cases := []struct {
		mode      mode.Mode
		key       int
		wantEvent string
	}{
		{mode.Flow, 0, "MODE_FLOW"},
		{mode.Binary, 1, "MODE_BINARY"},
		{mode.Off, 2, "MODE_OFF"},
	}
	for _, c := range cases {
		data, err := FormatPayload(mode.Event{Timestamp: ts, Mode: c.mode, Key: c.key})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.mode, err)
		}
		var payload Payload
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Fatalf("%s: invalid JSON: %v", c.mode, err)
		}
		if payload.Panel.Event != c.wantEvent {
			t.Errorf("%s: event got %q, want %q", c.mode, payload.Panel.Event, c.wantEvent)
		}
		if payload.Panel.Key != c.key {
			t.Errorf("%s: key got %d, want %d", c.mode, payload.Panel.Key, c.key)
		}
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	event := mode.Event{
		Timestamp: time.Date(2026, 3, 15, 15, 30, 0, 0, loc),
		Mode:      mode.Off,
		Key:       2,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Panel.Timestamp != "2026-03-15T14:30:00Z" {
		t.Errorf("timestamp not converted to UTC: got %q", payload.Panel.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"system":{"timestamp":"2026-03-15T14:30:00Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(data) != want {
		t.Errorf("payload:\n got %s\nwant %s", data, want)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Event:     "HEARTBEAT",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"system":{"timestamp":"2026-03-15T14:30:00Z","event":"HEARTBEAT"}}`
	if string(data) != want {
		t.Errorf("payload:\n got %s\nwant %s", data, want)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"mode":"FLOW"}}`)
	event := SystemEvent{
		Timestamp:  time.Now(),
		Event:      "STARTUP",
		RawPayload: raw,
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("raw payload not passed through: got %s", data)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()
	event := mode.Event{
		Timestamp: time.Now(),
		Mode:      mode.Flow,
		Key:       0,
	}

	if err := f.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].Mode != mode.Flow {
		t.Errorf("event mode: got %s, want FLOW", f.Events[0].Mode)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}

	var payload Payload
	if err := json.Unmarshal(f.Payloads[0], &payload); err != nil {
		t.Fatalf("invalid payload JSON: %v", err)
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker unavailable")

	err := f.Publish(mode.Event{Mode: mode.Off})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(f.Events) != 0 {
		t.Errorf("expected no recorded events, got %d", len(f.Events))
	}
}

func TestFakePublisherPublishSystem(t *testing.T) {
	f := NewFakePublisher()
	event := SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
		Retained:  true,
	}

	if err := f.PublishSystem(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.SystemEvents))
	}
	if !f.SystemEvents[0].Retained {
		t.Error("retained flag not preserved")
	}
}

func TestFakePublisherPreservesEventOrder(t *testing.T) {
	f := NewFakePublisher()
	modes := []mode.Mode{mode.Flow, mode.Binary, mode.Off, mode.Flow}
	for i, m := range modes {
		f.Publish(mode.Event{Mode: m, Key: i % 3})
	}

	if len(f.Events) != len(modes) {
		t.Fatalf("expected %d events, got %d", len(modes), len(f.Events))
	}
	for i, m := range modes {
		if f.Events[i].Mode != m {
			t.Errorf("event %d: got %s, want %s", i, f.Events[i].Mode, m)
		}
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(mode.Event{Mode: mode.Flow})
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Close()
	f.Connected = true

	f.Reset()

	if len(f.Events) != 0 || len(f.Payloads) != 0 {
		t.Error("Reset should clear events and payloads")
	}
	if len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("Reset should clear system events and payloads")
	}
	if f.Closed || f.Connected {
		t.Error("Reset should clear Closed and Connected")
	}
}
