package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// BotParams holds the behaviour of the automatic player.
type BotParams struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Name        string `json:"name" yaml:"name"`
	DelayMinMS  int    `json:"delay_min_ms" yaml:"delay_min_ms"`
	DelayMaxMS  int    `json:"delay_max_ms" yaml:"delay_max_ms"`
	StartsHands bool   `json:"starts_hands" yaml:"starts_hands"` // press "start" whenever the next hand can begin
}

// WSParams tunes the WebSocket connection.
type WSParams struct {
	WriteWaitMS        int `json:"write_wait_ms" yaml:"write_wait_ms"`
	PongWaitMS         int `json:"pong_wait_ms" yaml:"pong_wait_ms"`
	HandshakeTimeoutMS int `json:"handshake_timeout_ms" yaml:"handshake_timeout_ms"`
	MaxMessageSize     int `json:"max_message_size" yaml:"max_message_size"`
	SendBuffer         int `json:"send_buffer" yaml:"send_buffer"`
}

// Config holds all client settings.
type Config struct {
	ServerURL  string `json:"server_url" yaml:"server_url"`
	PlayerName string `json:"player_name" yaml:"player_name"`
	GameName   string `json:"game_name" yaml:"game_name"`
	CreateGame bool   `json:"create_game" yaml:"create_game"`
	Observe    bool   `json:"observe" yaml:"observe"`

	// AuthToken is forwarded as a bearer token on the handshake. When
	// AuthJWKSURL is set the token is verified against it first.
	AuthToken   string `json:"auth_token" yaml:"auth_token"`
	AuthJWKSURL string `json:"auth_jwks_url" yaml:"auth_jwks_url"`

	LogLevel    string `json:"log_level" yaml:"log_level"`
	LogMessages bool   `json:"log_messages" yaml:"log_messages"`

	WS  WSParams  `json:"ws" yaml:"ws"`
	Bot BotParams `json:"bot" yaml:"bot"`
}

// Defaults returns a Config with every default value.
func Defaults() *Config {
	return &Config{
		ServerURL: "ws://localhost:8080/osteria",
		LogLevel:  "info",
		WS: WSParams{
			WriteWaitMS:        10000,
			PongWaitMS:         60000,
			HandshakeTimeoutMS: 10000,
			MaxMessageSize:     1 << 20,
			SendBuffer:         64,
		},
		Bot: BotParams{Name: "Bot", DelayMinMS: 500, DelayMaxMS: 1500},
	}
}

// Load reads configuration from an optional config.json or config.yaml in
// the working directory, then applies environment variable overrides. Fields
// not set in either source retain their default values.
func Load() *Config {
	cfg := Defaults()
	loadFile(cfg, "config.json", "config.yaml")
	applyEnv(cfg)
	return cfg
}

func loadFile(cfg *Config, jsonPath, yamlPath string) {
	if data, err := os.ReadFile(jsonPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			slog.Warn("failed to parse config file", "tag", "config", "file", jsonPath, "err", err)
		}
		return
	}
	if data, err := os.ReadFile(yamlPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			slog.Warn("failed to parse config file", "tag", "config", "file", yamlPath, "err", err)
		}
	}
}

func applyEnv(cfg *Config) {
	overrideString(&cfg.ServerURL, "SCOPONE_SERVER_URL")
	overrideString(&cfg.PlayerName, "SCOPONE_PLAYER_NAME")
	overrideString(&cfg.GameName, "SCOPONE_GAME_NAME")
	overrideBool(&cfg.CreateGame, "SCOPONE_CREATE_GAME")
	overrideBool(&cfg.Observe, "SCOPONE_OBSERVE")
	overrideString(&cfg.AuthToken, "SCOPONE_AUTH_TOKEN")
	overrideString(&cfg.AuthJWKSURL, "SCOPONE_AUTH_JWKS_URL")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")
	overrideBool(&cfg.LogMessages, "LOG_MESSAGES")
	overrideInt(&cfg.WS.WriteWaitMS, "WS_WRITE_WAIT_MS")
	overrideInt(&cfg.WS.PongWaitMS, "WS_PONG_WAIT_MS")
	overrideInt(&cfg.WS.HandshakeTimeoutMS, "WS_HANDSHAKE_TIMEOUT_MS")
	overrideInt(&cfg.WS.MaxMessageSize, "WS_MAX_MESSAGE_SIZE")
	overrideInt(&cfg.WS.SendBuffer, "WS_SEND_BUFFER")
	overrideBool(&cfg.Bot.Enabled, "BOT_ENABLED")
	overrideString(&cfg.Bot.Name, "BOT_NAME")
	overrideInt(&cfg.Bot.DelayMinMS, "BOT_DELAY_MIN_MS")
	overrideInt(&cfg.Bot.DelayMaxMS, "BOT_DELAY_MAX_MS")
	overrideBool(&cfg.Bot.StartsHands, "BOT_STARTS_HANDS")
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			slog.Warn("invalid value", "tag", "config", "env", envKey, "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func overrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*field = b
		} else {
			slog.Warn("invalid value", "tag", "config", "env", envKey, "value", val)
		}
	}
}
