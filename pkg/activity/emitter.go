package activity

import (
	"context"
	"strings"
	"time"

	multierror "github.com/hashicorp/go-multierror"
)

// DefaultChannel is used when Config leaves Channel empty.
const DefaultChannel = "fixtures"

// Config sets the defaults stamped on emitted events.
type Config struct {
	Enabled  bool
	Channel  string
	ActorID  string
	TenantID string
}

// Emitter stamps configured defaults on fixture events and hands them to
// hooks.
type Emitter struct {
	hooks Hooks
	cfg   Config
	now   func() time.Time
}

// NewEmitter builds an emitter. It stays inactive without hooks even when
// cfg.Enabled is set.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	cfg.Channel = strings.TrimSpace(cfg.Channel)
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	return &Emitter{hooks: hooks.Compact(), cfg: cfg, now: time.Now}
}

// Enabled reports whether emitting does anything.
func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled && len(e.hooks) > 0
}

// Emit delivers event, filling channel, actor and tenant from the config
// when the event leaves them empty.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.cfg.Channel
	}
	if strings.TrimSpace(event.ActorID) == "" {
		event.ActorID = e.cfg.ActorID
	}
	if strings.TrimSpace(event.TenantID) == "" {
		event.TenantID = e.cfg.TenantID
	}
	return e.hooks.Notify(ctx, event)
}

// EmitBuild delivers the events of build in order.
func (e *Emitter) EmitBuild(ctx context.Context, build Build) error {
	if !e.Enabled() {
		return nil
	}
	var errs *multierror.Error
	for _, event := range build.Events(e.now()) {
		if err := e.Emit(ctx, event); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}
