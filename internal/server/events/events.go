// Package events defines the fire-and-forget event sink the account core
// produces into. Delivery (fanout to gateway sessions, queues, etc.) lives
// outside this repository; the core only dispatches.
package events

import (
	"context"

	"github.com/google/uuid"
	"github.com/parleychat/authcore/internal/logging"
)

// UserInternalDisconnect tells a user's active gateway sessions that their
// credentials rotated and previously issued tokens no longer verify.
const UserInternalDisconnect = "USER_INTERNAL_DISCONNECT"

// Event is a notification produced by the account core. UserID targets a
// single user's active sessions; zero means no specific target.
type Event struct {
	ID     string
	Name   string
	Data   map[string]any
	UserID int64
}

// New builds an event with a fresh id.
func New(name string, data map[string]any, userID int64) Event {
	return Event{ID: uuid.NewString(), Name: name, Data: data, UserID: userID}
}

// Dispatcher delivers events best-effort. Implementations must not block
// the calling request for longer than a local hand-off.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event)
}

// LogDispatcher writes events to the structured log. It stands in for a
// real broker in development and tests.
type LogDispatcher struct {
	log logging.Logger
}

func NewLogDispatcher(log logging.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, ev Event) {
	d.log.Info(ctx, "event dispatched",
		"event_id", ev.ID, "event", ev.Name, "user_id", ev.UserID)
}
