// Package settings resolves client configuration from explicit values,
// environment variables, and an optional config file, in that order.
package settings

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fedamerd/msgraph-go/internal/constants"
)

// Settings holds the resolvable client configuration. Credential fields
// left empty by one source fall through to the next.
type Settings struct {
	Tenant            string        `mapstructure:"tenant"              yaml:"tenant"`
	ClientID          string        `mapstructure:"client_id"           yaml:"client_id"`
	ClientSecret      string        `mapstructure:"client_secret"       yaml:"client_secret"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"        yaml:"http_timeout"`
	RetryMax          int           `mapstructure:"retry_max"           yaml:"retry_max"`
	TokenSafetyMargin time.Duration `mapstructure:"token_safety_margin" yaml:"token_safety_margin"`
}

// Validate checks that the client credential fields are all present.
func (s *Settings) Validate() error {
	if s.Tenant == "" {
		return constants.ErrNoTenantID
	}

	if s.ClientID == "" {
		return constants.ErrNoClientID
	}

	if s.ClientSecret == "" {
		return constants.ErrNoClientSecret
	}

	return nil
}

func newViper() *viper.Viper {
	v := viper.New()

	_ = v.BindEnv("tenant", constants.EnvTenantID)
	_ = v.BindEnv("client_id", constants.EnvClientID)
	_ = v.BindEnv("client_secret", constants.EnvClientSecret)
	_ = v.BindEnv("http_timeout", constants.EnvTimeout)
	_ = v.BindEnv("retry_max", constants.EnvMaxRetries)
	_ = v.BindEnv("token_safety_margin", constants.EnvTokenSafetyMargin)

	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("retry_max", constants.DefaultRetryMax)
	v.SetDefault("token_safety_margin", constants.DefaultTokenSafetyMargin)

	return v
}

// Load resolves settings. Explicit values win over environment
// variables, which win over the config file in ~/.msgraph/config.yml,
// which wins over built-in defaults. A missing config file is fine; an
// unreadable or malformed one is an error.
func Load(explicit *Settings) (*Settings, error) {
	v := newViper()

	home, err := os.UserHomeDir()
	if err == nil {
		v.AddConfigPath(filepath.Join(home, ".msgraph"))
		v.SetConfigType("yml")
		v.SetConfigName("config")

		err = v.ReadInConfig()
		if err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	applyExplicit(v, explicit)

	settings := &Settings{}

	err = v.Unmarshal(settings)
	if err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	return settings, nil
}

// LoadFromFile resolves settings like Load but reads the given config
// file instead of searching ~/.msgraph.
func LoadFromFile(path string, explicit *Settings) (*Settings, error) {
	v := newViper()
	v.SetConfigFile(path)

	err := v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyExplicit(v, explicit)

	settings := &Settings{}

	err = v.Unmarshal(settings)
	if err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	return settings, nil
}

func applyExplicit(v *viper.Viper, explicit *Settings) {
	if explicit == nil {
		return
	}

	if explicit.Tenant != "" {
		v.Set("tenant", explicit.Tenant)
	}

	if explicit.ClientID != "" {
		v.Set("client_id", explicit.ClientID)
	}

	if explicit.ClientSecret != "" {
		v.Set("client_secret", explicit.ClientSecret)
	}

	if explicit.HTTPTimeout > 0 {
		v.Set("http_timeout", explicit.HTTPTimeout)
	}

	if explicit.RetryMax > 0 {
		v.Set("retry_max", explicit.RetryMax)
	}

	if explicit.TokenSafetyMargin > 0 {
		v.Set("token_safety_margin", explicit.TokenSafetyMargin)
	}
}

// Prompt fills any missing credential fields by asking on the terminal.
// The secret is read without echo.
func Prompt(settings *Settings) error {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return constants.ErrPromptUnavailable
	}

	reader := bufio.NewReader(os.Stdin)

	if settings.Tenant == "" {
		fmt.Fprint(os.Stderr, "Tenant: ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading tenant: %w", err)
		}

		settings.Tenant = strings.TrimSpace(line)
	}

	if settings.ClientID == "" {
		fmt.Fprint(os.Stderr, "Client ID: ")

		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading client ID: %w", err)
		}

		settings.ClientID = strings.TrimSpace(line)
	}

	if settings.ClientSecret == "" {
		fmt.Fprint(os.Stderr, "Client secret: ")

		secretBytes, err := term.ReadPassword(int(syscall.Stdin))

		fmt.Fprintln(os.Stderr)

		if err != nil {
			return fmt.Errorf("reading client secret: %w", err)
		}

		settings.ClientSecret = string(secretBytes)
	}

	return nil
}
