package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserRegistered         = "user.registered"
	EventTypeUserLoggedIn           = "user.logged_in"
	EventTypeTokenRevoked           = "token.revoked"
	EventTypePasswordResetRequested = "password.reset_requested"
	EventTypePasswordReset          = "password.reset"
)

// AuditEventTypes lists every event the auth service emits.
var AuditEventTypes = []string{
	EventTypeUserRegistered,
	EventTypeUserLoggedIn,
	EventTypeTokenRevoked,
	EventTypePasswordResetRequested,
	EventTypePasswordReset,
}

type UserEvent struct {
	BaseEvent
	UserID int64 `json:"user_id"`
}

func NewUserEvent(eventType string, userID int64, data map[string]interface{}) *UserEvent {
	payload := map[string]interface{}{"user_id": userID}
	for k, v := range data {
		payload[k] = v
	}
	return &UserEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now().UTC(),
			Data:      payload,
		},
		UserID: userID,
	}
}

// AuditLogHandler writes auth events to the structured log.
func AuditLogHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		logger.InfoContext(ctx, "audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}
}

// SubscribeAudit wires AuditLogHandler to every auth event type.
func SubscribeAudit(bus *EventBus, logger *slog.Logger) {
	h := AuditLogHandler(logger)
	for _, t := range AuditEventTypes {
		bus.Subscribe(t, h)
	}
}
