package realtime

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/goalflow-backend/internal/platform/logger"
)

// Publisher hands a message to a fan-out transport shared by every instance.
type Publisher interface {
	Publish(ctx context.Context, msg SSEMessage) error
}

// Notifier is what services use to tell a user's open streams that their
// data changed.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event SSEEvent, data any)
}

type hubNotifier struct {
	hub *SSEHub
	pub Publisher
	log *logger.Logger
}

// NewNotifier broadcasts through pub when it is non-nil (the forwarder then
// feeds the local hub), straight into hub otherwise.
func NewNotifier(hub *SSEHub, pub Publisher, log *logger.Logger) Notifier {
	return &hubNotifier{hub: hub, pub: pub, log: log.With("component", "Notifier")}
}

func (n *hubNotifier) Notify(ctx context.Context, userID uuid.UUID, event SSEEvent, data any) {
	if userID == uuid.Nil {
		return
	}
	msg := SSEMessage{Channel: UserChannel(userID), Event: event, Data: data}
	if n.pub != nil {
		err := n.pub.Publish(ctx, msg)
		if err == nil {
			return
		}
		n.log.Warn("publish failed; delivering locally", "event", event, "error", err)
	}
	if n.hub != nil {
		n.hub.Broadcast(msg)
	}
}

// Nop drops every notification.
func Nop() Notifier { return nopNotifier{} }

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, uuid.UUID, SSEEvent, any) {}

// Counted calls count for every event before handing it to n.
func Counted(n Notifier, count func(event SSEEvent)) Notifier {
	if count == nil {
		return n
	}
	return countedNotifier{next: n, count: count}
}

type countedNotifier struct {
	next  Notifier
	count func(SSEEvent)
}

func (c countedNotifier) Notify(ctx context.Context, userID uuid.UUID, event SSEEvent, data any) {
	c.count(event)
	c.next.Notify(ctx, userID, event, data)
}
