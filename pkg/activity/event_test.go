package activity

import (
	"reflect"
	"testing"
	"time"
)

func TestBuildEventsWithoutPatches(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := Build{ID: "b1", Model: "todo", Slice: "todo.default", Origin: "base"}.Events(at)

	if len(events) != 1 {
		t.Fatalf("expected a single created event, got %d", len(events))
	}
	got := events[0]
	if got.Verb != VerbCreated || got.BuildID != "b1" || got.Model != "todo" || got.Slice != "todo.default" || got.Origin != "base" {
		t.Fatalf("unexpected created event %+v", got)
	}
	if !got.OccurredAt.Equal(at) || got.Patches != nil {
		t.Fatalf("unexpected created event %+v", got)
	}
}

func TestBuildEventsWithPatches(t *testing.T) {
	patches := []PatchOp{{Op: "replace", Path: "/title"}, {Op: "add", Path: "/tags/-"}}
	events := Build{ID: "b2", Slice: "store.default", Patches: patches}.Events(time.Now())

	if len(events) != 2 || events[0].Verb != VerbCreated || events[1].Verb != VerbPatched {
		t.Fatalf("expected created then patched, got %+v", events)
	}
	if events[0].Patches != nil {
		t.Fatalf("created event should not list patches")
	}
	if !reflect.DeepEqual(patches, events[1].Patches) {
		t.Fatalf("unexpected patches %+v", events[1].Patches)
	}
	events[1].Patches[0].Path = "/changed"
	if patches[0].Path != "/title" {
		t.Fatalf("event patches alias the build")
	}
}

func TestEventObjectIDFallbacks(t *testing.T) {
	cases := []struct {
		event Event
		want  string
	}{
		{Event{BuildID: "b", Slice: "todo.default"}, "b"},
		{Event{Slice: "todo.default"}, "todo.default"},
		{Event{}, "fixture"},
	}
	for _, tc := range cases {
		if got := tc.event.ObjectID(); got != tc.want {
			t.Fatalf("ObjectID() = %q, want %q", got, tc.want)
		}
	}
}

func TestEventData(t *testing.T) {
	event := Event{
		BuildID:  "b",
		Model:    "todo",
		Slice:    "todo.default",
		Patches:  []PatchOp{{Op: "remove", Path: "/done"}},
		Metadata: map[string]any{"model": "shadowed", "suite": "smoke"},
	}
	want := map[string]any{
		"build_id": "b",
		"model":    "todo",
		"slice":    "todo.default",
		"suite":    "smoke",
		"patches":  []string{"remove /done"},
	}
	if got := event.Data(); !reflect.DeepEqual(want, got) {
		t.Fatalf("data mismatch:\nwant: %#v\n got: %#v", want, got)
	}
	if event.Metadata["model"] != "shadowed" {
		t.Fatalf("Data must not write into metadata")
	}
	if got := (Event{}).Data(); got != nil {
		t.Fatalf("expected nil data for empty event, got %v", got)
	}
}

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"k": "v"}
	patches := []PatchOp{{Op: "replace", Path: "/title"}}
	event := Event{
		Verb:     " fixture.created ",
		BuildID:  " 42 ",
		Model:    " todo ",
		Slice:    " todo.default ",
		Origin:   " base ",
		ActorID:  " actor ",
		TenantID: " tenant ",
		Channel:  " fixtures ",
		Patches:  patches,
		Metadata: meta,
	}

	got := NormalizeEvent(event)

	if got.Verb != VerbCreated || got.BuildID != "42" || got.Model != "todo" || got.Slice != "todo.default" || got.Origin != "base" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.TenantID != "tenant" || got.Channel != "fixtures" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["k"] = "changed"
	got.Patches[0].Path = "/changed"
	if meta["k"] != "v" || patches[0].Path != "/title" {
		t.Fatalf("normalized event aliases its input")
	}
	if !got.Valid() || (Event{Verb: VerbCreated}).Valid() {
		t.Fatalf("unexpected Valid results")
	}
}
