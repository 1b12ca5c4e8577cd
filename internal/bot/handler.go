package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"wojakbot/internal/domain"
	"wojakbot/internal/entitlement"
	"wojakbot/internal/i18n"
	"wojakbot/internal/telegram"
)

// HandleUpdate routes one inbound update. Updates are processed one at a
// time end to end; all collaborator failures are caught here and converted
// to a localized user-facing message.
func (a *App) HandleUpdate(ctx context.Context, upd telegram.Update) {
	if upd.PreCheckoutQuery != nil {
		if err := a.TG.AnswerPreCheckoutQuery(ctx, upd.PreCheckoutQuery.ID, true); err != nil {
			a.Logger.Error().Err(err).Msg("answer pre-checkout failed")
		}
		return
	}
	msg := upd.Message
	if msg == nil || msg.From == nil {
		return
	}
	texts := i18n.ForLanguage(msg.From.LanguageCode)

	switch {
	case msg.SuccessfulPayment != nil:
		a.handlePayment(ctx, msg, texts)
	case strings.HasPrefix(msg.Text, "/start"):
		a.handleStart(ctx, msg, texts)
	case strings.HasPrefix(msg.Text, "/stats"):
		a.handleStats(ctx, msg)
	case strings.HasPrefix(msg.Text, "/give_credits"):
		a.handleGiveCredits(ctx, msg)
	case len(msg.Photo) > 0:
		a.handlePhoto(ctx, msg, texts)
	default:
		a.reply(ctx, msg, texts.ErrorNoPhoto)
	}
}

func (a *App) handleStart(ctx context.Context, msg *telegram.Message, texts i18n.Texts) {
	if err := a.Ledger.UpsertUser(ctx, msg.From.ID, profileOf(msg.From)); err != nil {
		a.Logger.Error().Err(err).Int64("user_id", msg.From.ID).Msg("upsert user failed")
		a.reply(ctx, msg, texts.ErrorProcessing)
		return
	}
	if err := a.TG.SendSticker(ctx, msg.Chat.ID, wojakSticker, fireEffect); err != nil {
		a.Logger.Warn().Err(err).Msg("send sticker failed")
	}
	a.reply(ctx, msg, texts.Start)
}

func (a *App) handleStats(ctx context.Context, msg *telegram.Message) {
	// Authorization is decided here, by allow-list; the engine and ledger
	// stay free of identity policy.
	if !a.Config.IsAdmin(msg.From.Username) {
		return
	}
	stats, err := a.Ledger.AggregateStats(ctx)
	if err != nil {
		a.Logger.Error().Err(err).Msg("aggregate stats failed")
		a.reply(ctx, msg, "❌ Error loading stats.")
		return
	}
	report := fmt.Sprintf(`📊 Bot Statistics:

👥 Total Users: %d
🆓 Users with Free Generations Left: %d
💰 Total Payments: %d
⭐ Total Stars Earned: %d
🖼️ Total Generations: %d`,
		stats.TotalUsers, stats.UsersWithQuotaLeft, stats.TotalPayments, stats.TotalAmount, stats.TotalGenerations)
	a.reply(ctx, msg, report)
}

func (a *App) handleGiveCredits(ctx context.Context, msg *telegram.Message) {
	if !a.Config.IsAdmin(msg.From.Username) {
		return
	}
	parts := strings.Fields(msg.Text)
	if len(parts) != 2 {
		a.reply(ctx, msg, "Usage: /give_credits <user_id>")
		return
	}
	targetID, err := parseUserID(parts[1])
	if err != nil {
		a.reply(ctx, msg, "❌ Invalid user ID. Please provide a numeric user ID.")
		return
	}
	if err := a.Engine.AdministrativeReset(ctx, targetID); err != nil {
		a.Logger.Error().Err(err).Int64("target_id", targetID).Msg("administrative reset failed")
		a.reply(ctx, msg, "❌ Error giving credits.")
		return
	}
	a.reply(ctx, msg, fmt.Sprintf("✅ Gave 3 free generations to user %d", targetID))
}

func parseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: user id must be numeric", domain.ErrInvalidInput)
	}
	return id, nil
}

func (a *App) handlePayment(ctx context.Context, msg *telegram.Message, texts i18n.Texts) {
	payment := msg.SuccessfulPayment
	err := a.Engine.ConfirmPayment(ctx, msg.From.ID, payment.TelegramPaymentChargeID, payment.TotalAmount)
	if err != nil {
		a.Logger.Error().Err(err).Int64("user_id", msg.From.ID).Msg("confirm payment failed")
		a.reply(ctx, msg, texts.ErrorPayment)
		return
	}
	a.grantPaid(msg.From.ID)
	a.reply(ctx, msg, texts.PaymentSuccess)
	a.reply(ctx, msg, texts.SendPhotoAgain)
}

func (a *App) handlePhoto(ctx context.Context, msg *telegram.Message, texts i18n.Texts) {
	userID := msg.From.ID
	if err := a.Ledger.UpsertUser(ctx, userID, profileOf(msg.From)); err != nil {
		a.Logger.Error().Err(err).Int64("user_id", userID).Msg("upsert user failed")
		a.reply(ctx, msg, texts.ErrorProcessing)
		return
	}

	// A pending paid generation skips the quota decision entirely.
	if a.consumePaid(userID) {
		a.reply(ctx, msg, texts.Processing)
		a.processPhoto(ctx, msg, texts)
		return
	}

	decision, err := a.Engine.CheckAndConsume(ctx, userID)
	if err != nil {
		a.Logger.Error().Err(err).Int64("user_id", userID).Msg("entitlement decision failed")
		a.reply(ctx, msg, texts.ErrorProcessing)
		return
	}
	if decision.Outcome == entitlement.PaymentRequired {
		a.reply(ctx, msg, texts.NeedPayment)
		payload := fmt.Sprintf("wojak_transform_%d_%s", userID, uuid.NewString())
		err := a.TG.SendInvoice(ctx, msg.Chat.ID, texts.PaymentTitle, texts.PaymentDescription, payload, a.Engine.Price(), starsEffect)
		if err != nil {
			a.Logger.Error().Err(err).Int64("user_id", userID).Msg("send invoice failed")
			a.reply(ctx, msg, texts.ErrorPayment)
		}
		return
	}

	a.reply(ctx, msg, texts.FreeRemaining(decision.Remaining))
	a.reply(ctx, msg, texts.Processing)
	// The free slot is committed at this point; a crash from here on loses a
	// delivery, never an uncounted generation.
	a.processPhoto(ctx, msg, texts)
}

func (a *App) processPhoto(ctx context.Context, msg *telegram.Message, texts i18n.Texts) {
	photo := msg.Photo[len(msg.Photo)-1] // best resolution last
	file, err := a.TG.GetFile(ctx, photo.FileID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("get file failed")
		a.reply(ctx, msg, texts.ErrorProcessing)
		return
	}

	resultURL, err := a.Style.Transform(ctx, a.TG.FileURL(file.FilePath))
	if err != nil {
		a.Logger.Error().Err(err).Msg("style transform failed")
		a.reply(ctx, msg, texts.ErrorProcessing)
		return
	}

	data, err := a.Style.Fetch(ctx, resultURL)
	if err == nil {
		if watermarked, werr := a.Compositor.Composite(data); werr == nil {
			if err := a.TG.SendPhotoUpload(ctx, msg.Chat.ID, "wojak_with_watermark.jpg", watermarked, texts.ResultCaption, fireEffect); err != nil {
				a.Logger.Error().Err(err).Msg("send photo failed")
				a.reply(ctx, msg, texts.ErrorProcessing)
			}
			return
		} else {
			a.Logger.Warn().Err(werr).Msg("watermark failed, delivering original")
		}
	} else {
		a.Logger.Warn().Err(err).Msg("fetch result failed, delivering by url")
	}

	// Degraded path: deliver the un-watermarked result rather than failing
	// the whole request.
	if err := a.TG.SendPhotoURL(ctx, msg.Chat.ID, resultURL, texts.ResultCaption, fireEffect); err != nil {
		a.Logger.Error().Err(err).Msg("send photo url failed")
		a.reply(ctx, msg, texts.ErrorProcessing)
	}
}

func (a *App) reply(ctx context.Context, msg *telegram.Message, text string) {
	if err := a.TG.SendMessage(ctx, msg.Chat.ID, text); err != nil {
		a.Logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("send message failed")
	}
}

func profileOf(u *telegram.User) domain.Profile {
	return domain.Profile{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
