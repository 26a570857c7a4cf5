package notify

import (
	"context"
	"errors"
	"testing"
)

type fakeSender struct {
	sent   []int64
	failOn map[int64]bool
}

func (f *fakeSender) Send(_ context.Context, chatID int64, _ string) error {
	if f.failOn[chatID] {
		return errors.New("blocked by user")
	}
	f.sent = append(f.sent, chatID)
	return nil
}

func TestBroadcastIsolatesFailures(t *testing.T) {
	b := NewBroadcaster(1000)
	sender := &fakeSender{failOn: map[int64]bool{2: true}}
	b.SetSender(sender)

	res, err := b.Broadcast(context.Background(), []int64{1, 2, 3}, "urgent")
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	if res.Sent != 2 || res.Failed != 1 {
		t.Fatalf("sent=%d failed=%d, want 2/1", res.Sent, res.Failed)
	}
	if len(sender.sent) != 2 || sender.sent[0] != 1 || sender.sent[1] != 3 {
		t.Fatalf("delivered to %v, want [1 3]", sender.sent)
	}
	if res.BatchID == "" {
		t.Fatal("batch id must be set")
	}
}

func TestBroadcastWithoutSender(t *testing.T) {
	b := NewBroadcaster(1000)
	if _, err := b.Broadcast(context.Background(), []int64{1}, "x"); err == nil {
		t.Fatal("expected error with no sender configured")
	}
}

func TestBroadcastUniqueBatchIDs(t *testing.T) {
	b := NewBroadcaster(1000)
	b.SetSender(&fakeSender{})

	a, _ := b.Broadcast(context.Background(), nil, "x")
	c, _ := b.Broadcast(context.Background(), nil, "y")
	if a.BatchID == c.BatchID {
		t.Fatal("batches must have distinct ids")
	}
}
