// Package bot wires the messaging transport to the entitlement engine, the
// style-transfer provider and the watermark compositor.
package bot

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"wojakbot/internal/domain"
	"wojakbot/internal/entitlement"
	"wojakbot/internal/infra"
	"wojakbot/internal/telegram"
)

// Greeting sticker and message effects sent with bot replies.
const (
	wojakSticker = "CAACAgIAAxkBAAEVzNpnesg9UT9hy0XlROZ4BF1siuRjGgACKmcAAs4dwEtnY9gKuu9g9jYE"
	fireEffect   = "5046509860389126442"
	starsEffect  = "5104841245755180586"
)

// Transport is the outbound surface of the messaging collaborator.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendSticker(ctx context.Context, chatID int64, sticker, effectID string) error
	SendPhotoURL(ctx context.Context, chatID int64, url, caption, effectID string) error
	SendPhotoUpload(ctx context.Context, chatID int64, filename string, data []byte, caption, effectID string) error
	SendInvoice(ctx context.Context, chatID int64, title, description, payload string, amount int64, effectID string) error
	AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool) error
	GetFile(ctx context.Context, fileID string) (*telegram.File, error)
	FileURL(filePath string) string
}

// Transformer runs the remote style transfer and fetches its output.
type Transformer interface {
	Transform(ctx context.Context, imageURL string) (string, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Compositor watermarks a generated image.
type Compositor interface {
	Composite(src []byte) ([]byte, error)
}

// App holds every collaborator a request handler needs. It replaces ambient
// globals: each handler receives the same explicit context object.
type App struct {
	Config     *infra.Config
	Logger     zerolog.Logger
	Ledger     domain.Ledger
	Engine     *entitlement.Engine
	Style      Transformer
	Compositor Compositor
	TG         Transport

	// A confirmed payment authorizes exactly one subsequent generation.
	// That authorization is workflow state, not ledger state, so it lives
	// here until the user resends their photo.
	mu          sync.Mutex
	paidPending map[int64]int
}

func NewApp(cfg *infra.Config, logger zerolog.Logger, ledger domain.Ledger, engine *entitlement.Engine, style Transformer, compositor Compositor, tg Transport) *App {
	return &App{
		Config:      cfg,
		Logger:      logger,
		Ledger:      ledger,
		Engine:      engine,
		Style:       style,
		Compositor:  compositor,
		TG:          tg,
		paidPending: make(map[int64]int),
	}
}

func (a *App) grantPaid(userID int64) {
	a.mu.Lock()
	a.paidPending[userID]++
	a.mu.Unlock()
}

func (a *App) consumePaid(userID int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.paidPending[userID] <= 0 {
		return false
	}
	a.paidPending[userID]--
	return true
}
