package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHooksNotifyDropsInvalidEvents(t *testing.T) {
	recorder := &Recorder{}
	hooks := Hooks{recorder}
	if err := hooks.Notify(context.Background(), Event{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := hooks.Notify(context.Background(), Event{Slice: "todo.default"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(recorder.Events()) != 0 {
		t.Fatalf("expected no events recorded, got %d", len(recorder.Events()))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	recorder := &Recorder{}
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			ctxSeen = ctx != nil
			return nil
		}),
		recorder,
		HookFunc(func(context.Context, Event) error { return boom1 }),
		nil,
		HookFunc(func(context.Context, Event) error { return boom2 }),
	}

	err := hooks.Notify(nil, Event{Verb: VerbCreated, Slice: "todo.default"})
	if err == nil || !errors.Is(err, boom1) || !errors.Is(err, boom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if len(recorder.Events()) != 1 {
		t.Fatalf("expected event to be recorded once, got %d", len(recorder.Events()))
	}
}

func TestHooksCompact(t *testing.T) {
	if got := (Hooks{nil, nil}).Compact(); got != nil {
		t.Fatalf("expected nil hooks, got %v", got)
	}
	if got := (Hooks{nil, &Recorder{}}).Compact(); len(got) != 1 {
		t.Fatalf("expected one hook, got %d", len(got))
	}
}

func TestEmitterDisabledAndEnabled(t *testing.T) {
	recorder := &Recorder{}
	event := Event{Verb: VerbCreated, BuildID: "1"}

	disabled := NewEmitter(Hooks{recorder}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := disabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if NewEmitter(Hooks{nil}, Config{Enabled: true}).Enabled() {
		t.Fatalf("expected emitter without hooks to be inactive")
	}

	enabled := NewEmitter(Hooks{recorder}, Config{Enabled: true, ActorID: "actor", TenantID: "tenant"})
	if err := enabled.Emit(context.Background(), event); err != nil {
		t.Fatalf("emit: %v", err)
	}
	events := recorder.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event recorded, got %d", len(events))
	}
	if events[0].Channel != DefaultChannel || events[0].ActorID != "actor" || events[0].TenantID != "tenant" {
		t.Fatalf("expected config defaults applied, got %+v", events[0])
	}
}

func TestEmitterPreservesExplicitFields(t *testing.T) {
	recorder := &Recorder{}
	emitter := NewEmitter(Hooks{recorder}, Config{Enabled: true, Channel: "default", ActorID: "config"})
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       VerbCreated,
		BuildID:    "1",
		Channel:    "custom",
		ActorID:    "caller",
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	got := recorder.Events()[0]
	if got.Channel != "custom" || got.ActorID != "caller" || !got.OccurredAt.Equal(at) {
		t.Fatalf("expected explicit fields preserved, got %+v", got)
	}
}

func TestEmitterEmitBuild(t *testing.T) {
	boom := errors.New("boom")
	recorder := &Recorder{Err: boom}
	emitter := NewEmitter(Hooks{recorder}, Config{Enabled: true})
	at := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	emitter.now = func() time.Time { return at }

	err := emitter.EmitBuild(context.Background(), Build{
		ID:      "b1",
		Model:   "store",
		Slice:   "store.default",
		Patches: []PatchOp{{Op: "add", Path: "/todos/-"}},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected hook error to surface, got %v", err)
	}
	verbs := recorder.Verbs()
	if len(verbs) != 2 || verbs[0] != VerbCreated || verbs[1] != VerbPatched {
		t.Fatalf("expected both events despite hook errors, got %v", verbs)
	}
	for _, event := range recorder.Events() {
		if !event.OccurredAt.Equal(at) || event.Channel != DefaultChannel {
			t.Fatalf("unexpected event %+v", event)
		}
	}
}
