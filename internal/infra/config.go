package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Free-tier and pricing constants. The price is expressed in the payment
// provider's currency unit (Telegram Stars).
const (
	FreeQuota = 3
	PriceXTR  = 45
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	BotToken         string
	FalKey           string
	FalBaseURL       string
	FalModel         string
	TelegramBaseURL  string
	AdminUsernames   []string
	AdminStatsToken  string
	WatermarkText    string
	FontPaths        []string
	PollTimeout      time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		BotToken:        os.Getenv("BOT_TOKEN"),
		FalKey:          os.Getenv("FAL_KEY"),
		FalBaseURL:      getEnv("FAL_BASE_URL", "https://fal.run"),
		FalModel:        getEnv("FAL_MODEL", "fal-ai/image-editing/wojak-style"),
		TelegramBaseURL: getEnv("TELEGRAM_BASE_URL", "https://api.telegram.org"),
		AdminUsernames:  splitList(getEnv("ADMIN_USERNAMES", "ennucore,aleksei_conf")),
		AdminStatsToken: os.Getenv("ADMIN_STATS_TOKEN"),
		WatermarkText:   getEnv("WATERMARK_TEXT", "@wojakobot"),
		FontPaths: splitList(getEnv("WATERMARK_FONTS", strings.Join([]string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
			"/System/Library/Fonts/Supplemental/Arial.ttf",
		}, ","))),
		PollTimeout:      time.Second * time.Duration(getEnvInt("POLL_TIMEOUT_SECONDS", 30)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	return cfg, nil
}

// IsAdmin reports whether the username is on the administrative allow-list.
func (c *Config) IsAdmin(username string) bool {
	if username == "" {
		return false
	}
	for _, admin := range c.AdminUsernames {
		if strings.EqualFold(admin, username) {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
