package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names for the required secrets.
const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
)

// Secrets holds the credentials that must never appear in the config file.
type Secrets struct {
	PracticumToken string
	TelegramToken  string
	ChatID         int64
}

// LoadSecrets reads the three required secrets from the environment,
// loading a .env file first if one is present in the working directory.
// It reports every missing variable at once so the operator can fix the
// environment in a single pass.
func LoadSecrets() (Secrets, error) {
	// Missing .env is fine; the environment may be set by systemd or a shell.
	_ = godotenv.Load()

	var missing []string
	get := func(name string) string {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			missing = append(missing, name)
		}
		return v
	}

	s := Secrets{
		PracticumToken: get(EnvPracticumToken),
		TelegramToken:  get(EnvTelegramToken),
	}
	rawChat := get(EnvTelegramChatID)
	if len(missing) > 0 {
		return Secrets{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	chatID, err := strconv.ParseInt(rawChat, 10, 64)
	if err != nil {
		return Secrets{}, fmt.Errorf("%s: not a valid chat id: %w", EnvTelegramChatID, err)
	}
	s.ChatID = chatID
	return s, nil
}
