package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-fixture/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook records fixture activity in a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
}

// Notify converts event into an ActivityRecord. The acting user is recorded
// as both actor and user since fixture builds have no separate subject.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	event = activity.NormalizeEvent(event)
	if !event.Valid() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, Record(event))
}

// Record maps a normalized event onto the go-users record shape. Fixture
// fields travel in Data.
func Record(event activity.Event) usertypes.ActivityRecord {
	actor := parseUUID(event.ActorID)
	return usertypes.ActivityRecord{
		ActorID:    actor,
		UserID:     actor,
		TenantID:   parseUUID(event.TenantID),
		Verb:       string(event.Verb),
		ObjectType: activity.ObjectType,
		ObjectID:   event.ObjectID(),
		Channel:    event.Channel,
		Data:       event.Data(),
		OccurredAt: event.OccurredAt,
	}
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
