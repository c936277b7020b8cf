package claudecode

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Practical ceiling for per-request timeouts; project settings may raise the
// default but not past this.
const maxTimeout = 600 * time.Second

// Config is the outbound collaborator configuration, forwarded to the CLI
// client. All fields have working defaults.
type Config struct {
	// CLIPath is the executable invoked for every request and for the
	// availability probe.
	CLIPath string `env:"CLAUDE_CLI_PATH" envDefault:"claude"`

	// Timeout bounds one CLI invocation.
	Timeout time.Duration `env:"CLAUDE_CLI_TIMEOUT" envDefault:"120s"`

	// SkipPermissions passes --dangerously-skip-permissions to the CLI.
	SkipPermissions bool `env:"CLAUDE_CLI_SKIP_PERMISSIONS" envDefault:"false"`

	// MaxConcurrentProcesses caps simultaneously spawned CLI processes.
	// This is pass-through configuration for the tool's own limits, not
	// scheduling logic of the adapter.
	MaxConcurrentProcesses int `env:"CLAUDE_CLI_MAX_PROCS" envDefault:"4"`
}

// DefaultConfig returns the default collaborator configuration.
func DefaultConfig() Config {
	return Config{
		CLIPath:                "claude",
		Timeout:                120 * time.Second,
		SkipPermissions:        false,
		MaxConcurrentProcesses: 4,
	}
}

// LoadConfig reads configuration from the environment, honoring a .env file
// in the working directory when present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse claude cli config from environment: %w", err)
	}
	return cfg.normalized(), nil
}

// normalized clamps out-of-range values back to workable ones.
func (c Config) normalized() Config {
	if c.CLIPath == "" {
		c.CLIPath = "claude"
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	if c.Timeout > maxTimeout {
		c.Timeout = maxTimeout
	}
	if c.MaxConcurrentProcesses <= 0 {
		c.MaxConcurrentProcesses = 4
	}
	return c
}
