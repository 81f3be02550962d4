package logger

import (
	"strings"
	"testing"
)

func TestScrubberRedactsCredentialsAndFreeText(t *testing.T) {
	s := &scrubber{enabled: true}
	out := s.kvs([]interface{}{
		"authorization", "Bearer abc",
		"memo", "ran 5k with a sore knee",
		"path", "/api/records",
	})
	if len(out) != 6 {
		t.Fatalf("len: want=6 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" || out[3] != "[REDACTED]" {
		t.Fatalf("expected redaction, got %v", out)
	}
	if out[5] != "/api/records" {
		t.Fatalf("path should pass through, got %v", out[5])
	}
}

func TestScrubberHashesUserIDs(t *testing.T) {
	s := &scrubber{enabled: true, salt: "pepper"}
	out := s.kvs([]interface{}{"user_id", "6b1c2c4e-5a4f-4c1b-9a44-1d2d5f0b7a10"})
	got, _ := out[1].(string)
	if !strings.HasPrefix(got, "hash:") || len(got) != len("hash:")+12 {
		t.Fatalf("unexpected hash %q", got)
	}
	again := s.kvs([]interface{}{"user_id", "6b1c2c4e-5a4f-4c1b-9a44-1d2d5f0b7a10"})
	if again[1] != got {
		t.Fatalf("hash should be stable: %v vs %v", again[1], got)
	}
}

func TestScrubberDisabledPassesThrough(t *testing.T) {
	s := &scrubber{enabled: false}
	out := s.kvs([]interface{}{"token", "abc"})
	if out[1] != "abc" {
		t.Fatalf("want passthrough, got %v", out[1])
	}
}

func TestScrubberRedactsJWTLookingValues(t *testing.T) {
	s := &scrubber{enabled: true}
	jwtish := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	out := s.kvs([]interface{}{"detail", jwtish})
	if out[1] != "[REDACTED]" {
		t.Fatalf("want redacted jwt, got %v", out[1])
	}
}

func TestOddKeyValueCountKeepsTrailingKey(t *testing.T) {
	s := &scrubber{enabled: true}
	out := s.kvs([]interface{}{"path", "/x", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected %v", out)
	}
}
