package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/mlevasseur/bonus-watcher/internal/shared/errors"
)

type Config struct {
	TelegramBotToken string `koanf:"telegram_bot_token"`
	TelegramAPIURL   string `koanf:"telegram_api_url"`
	DiscordToken     string `koanf:"discord_token"`
	DiscordChannelID string `koanf:"discord_channel_id"`
	PingRoleID       string `koanf:"ping_role_id"`
	// Channels is the source allow-list: handles (with or without @) and
	// -100... numeric ids, comma separated. Empty means watch everything.
	Channels      string        `koanf:"channels"`
	StoragePath   string        `koanf:"storage_path"`
	SeenDBPath    string        `koanf:"seen_db_path"`
	HTTPPort      string        `koanf:"http_port"`
	OCRServiceURL string        `koanf:"ocr_service_url"`
	RankMin       string        `koanf:"rank_min"`
	ButtonLabel   string        `koanf:"button_label"`
	BonusImageURL string        `koanf:"bonus_image_url"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values.
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Defaults
	if !k.Exists("telegram_api_url") {
		k.Set("telegram_api_url", "https://api.telegram.org")
	}
	if !k.Exists("storage_path") {
		k.Set("storage_path", "./data")
	}
	if !k.Exists("seen_db_path") {
		k.Set("seen_db_path", "./seen.db")
	}
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("rank_min") {
		k.Set("rank_min", "Bronze")
	}
	if !k.Exists("cache_ttl") {
		k.Set("cache_ttl", "5m")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	if cfg.TelegramBotToken == "" {
		return nil, errors.ErrMissingTelegramToken
	}
	if cfg.DiscordToken == "" {
		return nil, errors.ErrMissingDiscordToken
	}
	if cfg.DiscordChannelID == "" {
		return nil, errors.ErrMissingDiscordChannel
	}

	return &cfg, nil
}

var (
	numericChannelID = regexp.MustCompile(`^-100\d+$`)
	tmeLinkPrefix    = regexp.MustCompile(`(?i)^https?://t\.me/`)
)

// ParseChannels splits the allow-list into lowercase handles and numeric
// ids. Handles may carry an @ prefix or a t.me/ link prefix; both are
// stripped.
func ParseChannels(s string) (handles map[string]struct{}, ids map[string]struct{}) {
	handles = make(map[string]struct{})
	ids = make(map[string]struct{})

	parts := lo.FilterMap(strings.Split(s, ","), func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	})

	for _, part := range parts {
		if numericChannelID.MatchString(part) {
			ids[part] = struct{}{}
			continue
		}
		h := strings.TrimPrefix(part, "@")
		h = tmeLinkPrefix.ReplaceAllString(h, "")
		handles[strings.ToLower(h)] = struct{}{}
	}
	return handles, ids
}
