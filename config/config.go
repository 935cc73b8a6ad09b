package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	StoreSupabase = "supabase"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type MuxConfig struct {
	TokenID       string `validate:"required"`
	TokenSecret   string `validate:"required"`
	WebhookSecret string
	BaseURL       string `validate:"omitempty,url"`
	StreamURL     string `validate:"omitempty,url"`
	CORSOrigin    string
}

type OpenAIConfig struct {
	APIKey  string `validate:"required"`
	Model   string `validate:"required"`
	BaseURL string `validate:"omitempty,url"`
}

type MomentConfig struct {
	MinClipDuration float64 `validate:"gt=0"`
	MaxClipDuration float64 `validate:"gtfield=MinClipDuration"`
	MaxMoments      int     `validate:"min=1,max=20"`
}

type StoreConfig struct {
	Driver             string `validate:"oneof=supabase postgres memory"`
	DatabaseURL        string `validate:"required_if=Driver postgres"`
	SupabaseURL        string `validate:"required_if=Driver supabase"`
	SupabaseServiceKey string `validate:"required_if=Driver supabase"`
}

type RedisConfig struct {
	Addr      string `validate:"omitempty,hostname_port"`
	Password  string
	DedupeTTL time.Duration `validate:"gt=0"`
}

// Config is read from the environment once at startup.
type Config struct {
	Port           int    `validate:"min=1,max=65535"`
	LogLevel       string `validate:"oneof=trace debug info warn warning error fatal panic"`
	GRPCHealthAddr string `validate:"omitempty,hostname_port"`
	CORSOrigins    string `validate:"required"`

	Mux     MuxConfig
	OpenAI  OpenAIConfig
	Moments MomentConfig
	Store   StoreConfig
	Redis   RedisConfig
}

// credentialFields are only required by commands that call remote services.
var credentialFields = []string{"Mux.TokenID", "Mux.TokenSecret", "OpenAI.APIKey"}

var validate = validator.New()

// Load reads .env when present, then the environment. Remote credentials
// are checked separately by RequireCredentials.
func Load() (*Config, error) {
	_ = godotenv.Load() // best-effort: load .env if present

	var errs []string
	env := envReader{errs: &errs}

	cfg := &Config{
		Port:           env.getInt("PORT", 5000),
		LogLevel:       strings.ToLower(env.getString("LOG_LEVEL", "info")),
		GRPCHealthAddr: env.getString("GRPC_HEALTH_ADDR", ""),
		CORSOrigins:    env.getString("CORS_ORIGINS", "*"),
		Mux: MuxConfig{
			TokenID:       env.getString("MUX_TOKEN_ID", ""),
			TokenSecret:   env.getString("MUX_TOKEN_SECRET", ""),
			WebhookSecret: env.getString("MUX_WEBHOOK_SECRET", ""),
			BaseURL:       env.getString("MUX_BASE_URL", ""),
			StreamURL:     env.getString("MUX_STREAM_URL", ""),
			CORSOrigin:    env.getString("MUX_CORS_ORIGIN", "*"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  env.getString("OPENAI_API_KEY", ""),
			Model:   env.getString("OPENAI_MODEL", "gpt-4-turbo-preview"),
			BaseURL: env.getString("OPENAI_BASE_URL", ""),
		},
		Moments: MomentConfig{
			MinClipDuration: env.getFloat("MIN_CLIP_DURATION", 5),
			MaxClipDuration: env.getFloat("MAX_CLIP_DURATION", 180),
			MaxMoments:      env.getInt("MAX_MOMENTS", 5),
		},
		Store: StoreConfig{
			Driver:             strings.ToLower(env.getString("STORE_DRIVER", "")),
			DatabaseURL:        env.getString("DATABASE_URL", ""),
			SupabaseURL:        env.getString("SUPABASE_URL", ""),
			SupabaseServiceKey: env.getString("SUPABASE_SERVICE_KEY", ""),
		},
		Redis: RedisConfig{
			Addr:      env.getString("REDIS_ADDR", ""),
			Password:  env.getString("REDIS_PASSWORD", ""),
			DedupeTTL: env.getDuration("WEBHOOK_DEDUPE_TTL", 24*time.Hour),
		},
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = inferDriver(cfg.Store)
	}

	if err := validate.StructExcept(cfg, credentialFields...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %s", describe(err))
	}
	return cfg, nil
}

// RequireCredentials reports missing hosting platform or model API keys.
func (c *Config) RequireCredentials() error {
	if err := validate.StructPartial(c, credentialFields...); err != nil {
		return fmt.Errorf("missing credentials: %s", describe(err))
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

func inferDriver(s StoreConfig) string {
	switch {
	case s.DatabaseURL != "":
		return StorePostgres
	case s.SupabaseURL != "":
		return StoreSupabase
	default:
		return StoreMemory
	}
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += " (" + fe.Param() + ")"
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}

// envReader collects parse errors instead of failing on the first one.
type envReader struct {
	errs *[]string
}

func (e envReader) getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (e envReader) getInt(key string, def int) int {
	v := e.getString(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Sprintf("%s: %q is not an integer", key, v))
		return def
	}
	return n
}

func (e envReader) getFloat(key string, def float64) float64 {
	v := e.getString(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Sprintf("%s: %q is not a number", key, v))
		return def
	}
	return f
}

func (e envReader) getDuration(key string, def time.Duration) time.Duration {
	v := e.getString(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Sprintf("%s: %q is not a duration", key, v))
		return def
	}
	return d
}
