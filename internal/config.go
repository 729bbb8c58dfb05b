package internal

import (
	"doc-chat/domain"
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

type Config struct {
	BackendURL       string        `env:"DOCCHAT_BACKEND_URL,default=http://localhost:8000"`
	LogLevel         string        `env:"LOG_LEVEL,default=INFO"`
	LogFile          string        `env:"LOG_FILE,default=docchat.log"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT,default=120s"`
	QueryTemperature *float64      `env:"QUERY_TEMPERATURE"`
	MaxFileSizeMb    int           `env:"MAX_FILE_SIZE_MB,default=50"`
	StrictMime       bool          `env:"STRICT_MIME,default=false"`
	HistoryDir       string        `env:"HISTORY_DIR"`
	LimitMessages    *int          `env:"LIMIT_MESSAGES"`
	RedactTerms      string        `env:"REDACT_TERMS"`
	CharReplacement  string        `env:"REDACT_CHARACTER,default=*"`
	DebugAddr        string        `env:"DEBUG_ADDR"`
	MockBackendAddr  string        `env:"MOCK_BACKEND_ADDR,default=:8000"`
}

// LoadConfig reads an optional .env file then the process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.MaxFileSizeMb <= 0 || c.MaxFileSizeMb > domain.MaxFileSize/domain.MB {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be between 1 and %d, got %d",
			domain.MaxFileSize/domain.MB, c.MaxFileSizeMb)
	}
	if c.QueryTemperature != nil && (*c.QueryTemperature < 0 || *c.QueryTemperature > 2) {
		return fmt.Errorf("QUERY_TEMPERATURE must be between 0 and 2, got %v", *c.QueryTemperature)
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return err
	}
	return nil
}

func (c Config) MaxFileSize() int64 {
	return int64(c.MaxFileSizeMb) * domain.MB
}

func (c Config) HistoryEnabled() bool {
	return strings.TrimSpace(c.HistoryDir) != ""
}

// Terms splits REDACT_TERMS on commas, dropping blanks.
func (c Config) Terms() []string {
	terms := lo.Map(strings.Split(c.RedactTerms, ","), func(t string, _ int) string {
		return strings.TrimSpace(t)
	})
	return lo.Compact(terms)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"REDACT_CHARACTER must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
