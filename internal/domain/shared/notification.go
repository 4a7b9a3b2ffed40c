package shared

import (
	"context"

	"github.com/google/uuid"
)

// Notification is the payload handed to the outbound notification channel
// after a lifecycle transition commits.
type Notification struct {
	EventType string
	EntityID  uuid.UUID
	Recipient uuid.UUID
}

// NotificationDispatcher delivers notifications to users. Dispatch happens
// post-commit and is fire-and-forget: a failure is logged by the caller and
// never rolls back the transition that produced it.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notification Notification) error
}
