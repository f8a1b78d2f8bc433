package sink

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"customer-relay/internal/model"
)

func TestNewRedisSink_Keys(t *testing.T) {
	tests := []struct {
		prefix       string
		wantLast     string
		wantObserved string
	}{
		{prefix: "", wantLast: DefaultRedisLastKey, wantObserved: DefaultRedisObservedKey},
		{prefix: "relay", wantLast: "relay:last", wantObserved: "relay:observed"},
	}

	for _, tt := range tests {
		s := NewRedisSink(nil, tt.prefix)

		if s.lastKey != tt.wantLast || s.observedKey != tt.wantObserved {
			t.Errorf("prefix %q: keys = %q/%q, want %q/%q", tt.prefix, s.lastKey, s.observedKey, tt.wantLast, tt.wantObserved)
		}
	}
}

func TestRedisSink_WriteUnreachable(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	s := NewRedisSink(rdb, "test")

	if err := s.Write(context.Background(), model.NewMessage(model.SourcePoller, model.NewCustomer(1, "Ada"))); err == nil {
		t.Fatal("Write() error = nil, want connection error")
	}
}
