package bus

import (
	"testing"

	"github.com/yungbote/goalflow-backend/internal/platform/logger"
	"github.com/yungbote/goalflow-backend/internal/realtime"
)

func TestDecode(t *testing.T) {
	msg, err := decode(`{"channel":"user:1","event":"RecordCreated","data":{"id":"r1"}}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Channel != "user:1" || msg.Event != realtime.SSEEventRecordCreated {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if _, err := decode(`{"event":"RecordCreated"}`); err == nil {
		t.Fatalf("want error for message without channel")
	}
	if _, err := decode(`not json`); err == nil {
		t.Fatalf("want error for bad payload")
	}
}

func TestNewRedisBusRequiresAddress(t *testing.T) {
	if _, err := NewRedisBus(RedisOptions{}, logger.Nop()); err == nil {
		t.Fatalf("want error without address")
	}
	if _, err := NewRedisBus(RedisOptions{Addr: "localhost:6379"}, nil); err == nil {
		t.Fatalf("want error without logger")
	}
}
