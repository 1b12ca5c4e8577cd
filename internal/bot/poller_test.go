package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"wojakbot/internal/telegram"
)

type scriptedUpdater struct {
	batches [][]telegram.Update
	offsets []int64
	cancel  context.CancelFunc
}

func (s *scriptedUpdater) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error) {
	s.offsets = append(s.offsets, offset)
	if len(s.batches) == 0 {
		s.cancel()
		return nil, ctx.Err()
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func TestPollAdvancesOffsetAndHandlesSequentially(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updater := &scriptedUpdater{
		cancel: cancel,
		batches: [][]telegram.Update{
			{textUpdate(1, "alice", "/start"), photoUpdate(1, "alice")},
			{photoUpdate(1, "alice")},
		},
	}
	// patch in update ids
	updater.batches[0][0].UpdateID = 100
	updater.batches[0][1].UpdateID = 101
	updater.batches[1][0].UpdateID = 102

	err := f.app.Poll(ctx, updater)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	if len(updater.offsets) != 3 {
		t.Fatalf("polls = %d, want 3", len(updater.offsets))
	}
	if updater.offsets[1] != 102 || updater.offsets[2] != 103 {
		t.Fatalf("offsets = %v, want [0 102 103]", updater.offsets)
	}
	if len(f.tg.uploads) != 2 {
		t.Fatalf("uploads = %d, want 2", len(f.tg.uploads))
	}
}
