// Package i18n holds the localized user-facing message catalog.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// Texts is the message set for one locale.
type Texts struct {
	Start              string
	Processing         string
	FreeUsed           string
	LastFree           string
	NeedPayment        string
	PaymentTitle       string
	PaymentDescription string
	PaymentSuccess     string
	SendPhotoAgain     string
	ResultCaption      string
	ErrorProcessing    string
	ErrorNoPhoto       string
	ErrorPayment       string
}

// FreeRemaining formats the remaining-quota notice shown before a free
// generation runs.
func (t Texts) FreeRemaining(remaining int) string {
	if remaining <= 0 {
		return t.LastFree
	}
	return fmt.Sprintf("%s %d", t.FreeUsed, remaining)
}

var ru = Texts{
	Start: `🎭 Добро пожаловать в Войяк Бот!

Отправьте мне своё фото, и я превращу вас в Войяка!

🆓 Первые 3 преобразования - БЕСПЛАТНО
⭐ Следующие преобразования - 45 Telegram Stars

Просто отправьте фото!`,
	Processing:         "🔄 Обрабатываю ваше фото... Это может занять минуту.",
	FreeUsed:           "🎉 Это одно из ваших бесплатных преобразований! Осталось:",
	LastFree:           "🎉 Это ваша последняя бесплатная генерация!",
	NeedPayment:        "⭐ Ваши бесплатные преобразования закончились.\n\nСтоимость: 45 Telegram Stars\nНажмите кнопку ниже для оплаты:",
	PaymentTitle:       "Преобразование в Войяка",
	PaymentDescription: "Превращение вашего фото в стиле Войяк",
	PaymentSuccess:     "✅ Оплата прошла успешно! Обрабатываю ваше фото...",
	SendPhotoAgain:     "📷 Теперь отправьте фото для преобразования!",
	ResultCaption:      "🎭 Ваш Войяк готов!",
	ErrorProcessing:    "❌ Ошибка при обработке фото. Попробуйте ещё раз.",
	ErrorNoPhoto:       "📷 Пожалуйста, отправьте фото!",
	ErrorPayment:       "❌ Ошибка оплаты. Попробуйте ещё раз.",
}

var en = Texts{
	Start: `🎭 Welcome to Wojak Bot!

Send me your photo, and I'll turn you into a Wojak!

🆓 First 3 transformations - FREE
⭐ Next transformations - 45 Telegram Stars

Just send a photo!`,
	Processing:         "🔄 Processing your photo... This may take a minute.",
	FreeUsed:           "🎉 This is one of your free transformations! Remaining:",
	LastFree:           "🎉 This is your last free transformation!",
	NeedPayment:        "⭐ Your free transformations are finished.\n\nCost: 45 Telegram Stars\nClick the button below to pay:",
	PaymentTitle:       "Wojak Transformation",
	PaymentDescription: "Transform your photo into Wojak style",
	PaymentSuccess:     "✅ Payment successful! Processing your photo...",
	SendPhotoAgain:     "📷 Now send a photo to transform!",
	ResultCaption:      "🎭 Your Wojak is ready!",
	ErrorProcessing:    "❌ Error processing photo. Please try again.",
	ErrorNoPhoto:       "📷 Please send a photo!",
	ErrorPayment:       "❌ Payment error. Please try again.",
}

var (
	supported = []language.Tag{language.Russian, language.English}
	matcher   = language.NewMatcher(supported)
	catalog   = map[language.Tag]Texts{
		language.Russian: ru,
		language.English: en,
	}
)

// ForLanguage resolves the catalog for a BCP 47 language code as reported by
// the messaging transport. Unknown or empty codes fall back to Russian, the
// bot's primary audience.
func ForLanguage(code string) Texts {
	if code == "" {
		return ru
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ru
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return ru
	}
	return catalog[supported[idx]]
}
