package activity

import (
	"strings"
	"time"
)

// Verb names what happened to a fixture.
type Verb string

const (
	// VerbCreated is emitted once per successful build.
	VerbCreated Verb = "fixture.created"
	// VerbPatched follows VerbCreated when patches were applied to the build.
	VerbPatched Verb = "fixture.patched"
)

// ObjectType is the object type reported to activity sinks.
const ObjectType = "fixture"

// PatchOp summarises one applied patch.
type PatchOp struct {
	Op   string
	Path string
}

func (p PatchOp) String() string {
	return p.Op + " " + p.Path
}

// Build describes one fixture construction.
type Build struct {
	ID      string
	Model   string
	Slice   string
	Origin  string
	Patches []PatchOp
}

// Event is a single fixture activity notification.
type Event struct {
	Verb       Verb
	BuildID    string
	Model      string
	Slice      string
	Origin     string
	Patches    []PatchOp
	ActorID    string
	TenantID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Events expands build into the notifications it produces: always a
// created event, followed by a patched event when patches were applied.
func (b Build) Events(at time.Time) []Event {
	created := Event{
		Verb:       VerbCreated,
		BuildID:    b.ID,
		Model:      b.Model,
		Slice:      b.Slice,
		Origin:     b.Origin,
		OccurredAt: at,
	}
	if len(b.Patches) == 0 {
		return []Event{created}
	}
	patched := created
	patched.Verb = VerbPatched
	patched.Patches = append([]PatchOp(nil), b.Patches...)
	return []Event{created, patched}
}

// ObjectID identifies the fixture in sinks: the build id, else the slice
// identifier, else the object type.
func (e Event) ObjectID() string {
	switch {
	case e.BuildID != "":
		return e.BuildID
	case e.Slice != "":
		return e.Slice
	default:
		return ObjectType
	}
}

// Valid reports whether the event carries enough to be delivered.
func (e Event) Valid() bool {
	return e.Verb != "" && (e.BuildID != "" || e.Slice != "")
}

// Data flattens the fixture fields and free-form metadata into one map.
// Fixture fields win over metadata keys of the same name.
func (e Event) Data() map[string]any {
	data := make(map[string]any, len(e.Metadata)+5)
	for key, value := range e.Metadata {
		data[key] = value
	}
	set := func(key, value string) {
		if value != "" {
			data[key] = value
		}
	}
	set("build_id", e.BuildID)
	set("model", e.Model)
	set("slice", e.Slice)
	set("origin", e.Origin)
	if len(e.Patches) > 0 {
		patches := make([]string, len(e.Patches))
		for i, patch := range e.Patches {
			patches[i] = patch.String()
		}
		data["patches"] = patches
	}
	if len(data) == 0 {
		return nil
	}
	return data
}

// NormalizeEvent trims identifiers, detaches slices and maps from the
// caller and stamps a missing timestamp.
func NormalizeEvent(event Event) Event {
	out := event
	out.Verb = Verb(strings.TrimSpace(string(event.Verb)))
	out.BuildID = strings.TrimSpace(event.BuildID)
	out.Model = strings.TrimSpace(event.Model)
	out.Slice = strings.TrimSpace(event.Slice)
	out.Origin = strings.TrimSpace(event.Origin)
	out.ActorID = strings.TrimSpace(event.ActorID)
	out.TenantID = strings.TrimSpace(event.TenantID)
	out.Channel = strings.TrimSpace(event.Channel)
	out.Patches = nil
	if len(event.Patches) > 0 {
		out.Patches = append([]PatchOp(nil), event.Patches...)
	}
	out.Metadata = nil
	if len(event.Metadata) > 0 {
		out.Metadata = make(map[string]any, len(event.Metadata))
		for key, value := range event.Metadata {
			out.Metadata[key] = value
		}
	}
	if out.OccurredAt.IsZero() {
		out.OccurredAt = time.Now()
	}
	return out
}
