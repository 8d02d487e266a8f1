package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MaxUploadSizeMB int64         `mapstructure:"MAX_UPLOAD_MB"`
	StoreDriver     string        `mapstructure:"STORE_DRIVER"`
	DataFile        string        `mapstructure:"DATA_FILE"`
	SQLitePath      string        `mapstructure:"SQLITE_PATH"`
	UploadDir       string        `mapstructure:"UPLOAD_DIR"`
	AIBaseURL       string        `mapstructure:"AI_BASE_URL"`
	AIModel         string        `mapstructure:"AI_MODEL"`
	AIAPIKey        string        `mapstructure:"AI_API_KEY"`
	AIMaxTokens     int           `mapstructure:"AI_MAX_TOKENS"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("MAX_UPLOAD_MB", 20)
	v.SetDefault("STORE_DRIVER", "json")
	v.SetDefault("DATA_FILE", "data/callsight.json")
	v.SetDefault("SQLITE_PATH", "data/callsight.db")
	v.SetDefault("UPLOAD_DIR", "data/uploads")
	v.SetDefault("AI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("AI_MODEL", "gpt-4o-mini")
	v.SetDefault("AI_MAX_TOKENS", 0)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
