package globalization

import (
	"os"

	"github.com/signature-opensource/CK-Globalization-sub001/pkg/config"
	"github.com/signature-opensource/CK-Globalization-sub001/pkg/logger"
)

// Config carries the environment-driven hub settings.
type Config struct {
	// DefaultCulture is the code-default culture name, the language the
	// source code is written in.
	DefaultCulture string `env:"GLOBALIZATION_DEFAULT_CULTURE" envDefault:"en"`

	// Diagnostics sets the initial state of the issue agent's gate.
	Diagnostics bool `env:"GLOBALIZATION_DIAGNOSTICS" envDefault:"true"`

	// IssueBuffer is the per-subscriber issue channel buffer size.
	IssueBuffer int `env:"GLOBALIZATION_ISSUE_BUFFER" envDefault:"64"`

	// LogLevel is the minimum level of issue and debug logging: debug,
	// info, warn or error.
	LogLevel string `env:"GLOBALIZATION_LOG_LEVEL" envDefault:"info"`

	// LogFormat is the log encoding: json or text.
	LogFormat string `env:"GLOBALIZATION_LOG_FORMAT" envDefault:"json"`
}

// Options converts the configuration into hub options, including a stderr
// logger built from the log settings.
func (c Config) Options() []Option {
	return []Option{
		WithDefaultCulture(c.DefaultCulture),
		WithDiagnostics(c.Diagnostics),
		WithIssueBuffer(c.IssueBuffer),
		WithLogger(logger.New(
			logger.WithLevel(logger.ParseLevel(c.LogLevel)),
			logger.WithFormat(logger.ParseFormat(c.LogFormat)),
			logger.WithOutput(os.Stderr),
		)),
	}
}

// NewHubFromEnv creates a hub configured from environment variables, with a
// .env file honored when present. Explicit options override the environment.
func NewHubFromEnv(opts ...Option) (*Hub, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return NewHub(append(cfg.Options(), opts...)...)
}
