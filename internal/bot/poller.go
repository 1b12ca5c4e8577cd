package bot

import (
	"context"
	"time"

	"wojakbot/internal/telegram"
)

// Updater is the inbound side of the transport.
type Updater interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
}

const pollRetryDelay = 3 * time.Second

// Poll long-polls for updates and handles them sequentially until the
// context is cancelled. One update is processed end to end before the next
// starts, which is what keeps per-user ledger operations race-free.
func (a *App) Poll(ctx context.Context, updater Updater) error {
	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		updates, err := updater.GetUpdates(ctx, offset, a.Config.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.Logger.Error().Err(err).Msg("get updates failed")
			select {
			case <-time.After(pollRetryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			a.HandleUpdate(ctx, upd)
		}
	}
}
