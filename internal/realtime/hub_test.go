package realtime

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/goalflow-backend/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubDeliversInOrderAndSurvivesReconnect(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	userID := uuid.New()
	channel := UserChannel(userID)

	clientA := hub.NewSSEClient(userID)
	hub.AddChannel(clientA, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventRecordCreated, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventWeeklyGoalChanged, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventRecordCreated {
		t.Fatalf("first event: want=%s got=%s", SSEEventRecordCreated, got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventWeeklyGoalChanged {
		t.Fatalf("second event: want=%s got=%s", SSEEventWeeklyGoalChanged, got.Event)
	}

	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("clientA outbound should be closed after disconnect")
	}
	if n := hub.Subscribers(channel); n != 0 {
		t.Fatalf("subscribers after close: want=0 got=%d", n)
	}

	clientB := hub.NewSSEClient(userID)
	hub.AddChannel(clientB, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventRecordDeleted})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventRecordDeleted {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventRecordDeleted, got.Event)
	}
}

func TestSSEHubBroadcastDoesNotBlockOnSlowClient(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	channel := UserChannel(uuid.New())
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, channel)

	done := make(chan struct{})
	go func() {
		for i := 0; i < outboundBuffer*3; i++ {
			hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventPlanChanged})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Broadcast blocked on a full client buffer")
	}
	if got := len(client.Outbound); got != outboundBuffer {
		t.Fatalf("buffered: want=%d got=%d", outboundBuffer, got)
	}
}

func TestSSEHubIgnoresOtherChannels(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	mine := hub.NewSSEClient(uuid.New())
	hub.AddChannel(mine, UserChannel(mine.UserID))

	hub.Broadcast(SSEMessage{Channel: UserChannel(uuid.New()), Event: SSEEventRecordCreated})
	hub.RemoveChannel(mine, UserChannel(mine.UserID))
	hub.Broadcast(SSEMessage{Channel: UserChannel(mine.UserID), Event: SSEEventRecordCreated})

	if got := len(mine.Outbound); got != 0 {
		t.Fatalf("want no messages, got=%d", got)
	}
}

func TestSSEHubServeHTTPWritesEventStream(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, UserChannel(userID))

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/api/sse/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	served := make(chan struct{})
	go func() {
		hub.ServeHTTP(rec, req, client)
		close(served)
	}()

	hub.Broadcast(SSEMessage{Channel: UserChannel(userID), Event: SSEEventGoalTreeChanged})
	deadline := time.After(time.Second)
	for len(client.Outbound) > 0 {
		select {
		case <-deadline:
			t.Fatalf("message never consumed")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-served

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: got=%q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: message\n") || !strings.Contains(body, `"event":"GoalTreeChanged"`) {
		t.Fatalf("unexpected body: %q", body)
	}
}

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(ctx context.Context, msg SSEMessage) error {
	p.calls++
	return errors.New("redis down")
}

func TestNotifierFallsBackToLocalHub(t *testing.T) {
	log := mustTestLogger(t)
	hub := NewSSEHub(log)
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, UserChannel(userID))

	pub := &failingPublisher{}
	n := NewNotifier(hub, pub, log)
	n.Notify(context.Background(), userID, SSEEventRecordUpdated, map[string]any{"id": "x"})

	if pub.calls != 1 {
		t.Fatalf("publish calls: want=1 got=%d", pub.calls)
	}
	if got := recvMessage(t, client.Outbound, time.Second); got.Event != SSEEventRecordUpdated {
		t.Fatalf("want local delivery, got=%s", got.Event)
	}

	Nop().Notify(context.Background(), userID, SSEEventRecordUpdated, nil)
	if got := len(client.Outbound); got != 0 {
		t.Fatalf("Nop delivered %d messages", got)
	}
}
