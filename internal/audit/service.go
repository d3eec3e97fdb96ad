package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	auditDatamodel "github.com/frahmantamala/user-backoffice/internal/core/datamodel/audit"
	"github.com/frahmantamala/user-backoffice/internal/core/events"
)

type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
	}
}

// Record appends one audit row. The payload is stored as free-form JSON.
func (r *Recorder) Record(actorID int64, action string, payload map[string]interface{}) error {
	description, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	now := time.Now()
	row := &auditDatamodel.Log{
		UserID:      actorID,
		Action:      action,
		Description: string(description),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.repo.Append(row); err != nil {
		return fmt.Errorf("append audit row: %w", err)
	}

	r.logger.Info("audit row appended", "actor_id", actorID, "action", action)
	return nil
}

// RegisterSubscribers binds the recorder to the domain events that carry an
// audit obligation. All but the password-reset event are actor-gated: no
// actor on the request means no row.
func (r *Recorder) RegisterSubscribers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, e events.Event) error {
		ev, ok := e.(*events.UserCreatedEvent)
		if !ok || ev.ActorID == 0 {
			return nil
		}
		return r.Record(ev.ActorID, ActionCreateUser, map[string]interface{}{
			"user":  ev.ActorUsername,
			"email": ev.Email,
		})
	})

	bus.Subscribe(events.EventTypeUserUpdated, func(ctx context.Context, e events.Event) error {
		ev, ok := e.(*events.UserUpdatedEvent)
		if !ok || ev.ActorID == 0 {
			return nil
		}
		return r.Record(ev.ActorID, ActionUpdateUser, map[string]interface{}{
			"user":     ev.ActorUsername,
			"username": ev.Username,
		})
	})

	bus.Subscribe(events.EventTypeUserDeleted, func(ctx context.Context, e events.Event) error {
		ev, ok := e.(*events.UserDeletedEvent)
		if !ok || ev.ActorID == 0 {
			return nil
		}
		return r.Record(ev.ActorID, ActionDeleteUser, map[string]interface{}{
			"user":    ev.ActorUsername,
			"deleted": ev.Username,
		})
	})

	bus.Subscribe(events.EventTypeResetMailRequested, func(ctx context.Context, e events.Event) error {
		ev, ok := e.(*events.ResetMailRequestedEvent)
		if !ok || ev.ActorID == 0 {
			return nil
		}
		return r.Record(ev.ActorID, ActionSendResetPassword, map[string]interface{}{
			"user":   ev.ActorUsername,
			"target": ev.Username,
		})
	})

	// Not actor-gated: the token subject is the actor.
	bus.Subscribe(events.EventTypePasswordReset, func(ctx context.Context, e events.Event) error {
		ev, ok := e.(*events.PasswordResetEvent)
		if !ok {
			return nil
		}
		return r.Record(ev.UserID, ActionResetPassword, map[string]interface{}{
			"email": ev.Email,
		})
	})
}
