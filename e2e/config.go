package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// DOCCHAT_E2E_BACKEND_URL points at a running backend; the suite is skipped when empty
	BackendURL string `envconfig:"DOCCHAT_E2E_BACKEND_URL"`
	// E2E_DEBUG_JSON dumps full HTTP request/response bodies
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool          `envconfig:"E2E_COLOURS" default:"true"`
	Timeout time.Duration `envconfig:"E2E_TIMEOUT" default:"120s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
