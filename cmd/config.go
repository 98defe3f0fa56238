package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattsolo1/grove-chat/pkg/chat"
	"github.com/mattsolo1/grove-chat/pkg/transport"
	"github.com/mattsolo1/grove-core/config"
)

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"

// ChatConfig defines the structure for the 'chat' section in grove.yml.
type ChatConfig struct {
	Endpoint       string `yaml:"endpoint" json:"endpoint" jsonschema:"description=Chat backend URL that receives PUT requests"`
	RequestTimeout string `yaml:"request_timeout" json:"request_timeout" jsonschema:"description=HTTP timeout per turn (Go duration; 0 waits indefinitely)"`
	Greeting       string `yaml:"greeting" json:"greeting" jsonschema:"description=Assistant message seeded into every new conversation"`
	UserName       string `yaml:"user_name" json:"user_name" jsonschema:"description=Label shown for your messages"`
	AssistantName  string `yaml:"assistant_name" json:"assistant_name" jsonschema:"description=Label shown for assistant messages"`
	NoColor        bool   `yaml:"no_color" json:"no_color" jsonschema:"description=Disable colored output"`
	LogLevel       string `yaml:"log_level" json:"log_level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	LogFile        string `yaml:"log_file,omitempty" json:"log_file,omitempty" jsonschema:"description=Write logs here while the TUI is running"`
}

// Environment variables read on top of grove.yml.
const (
	envEndpoint = "GROVE_CHAT_ENDPOINT"
	envTimeout  = "GROVE_CHAT_TIMEOUT"
	envGreeting = "GROVE_CHAT_GREETING"
	envLogLevel = "GROVE_CHAT_LOG_LEVEL"
	envLogFile  = "GROVE_CHAT_LOG_FILE"
	envNoColor  = "NO_COLOR"
)

func defaultChatConfig() *ChatConfig {
	return &ChatConfig{
		Endpoint:       transport.DefaultEndpoint,
		RequestTimeout: "60s",
		Greeting:       chat.DefaultGreeting,
		UserName:       "Demo",
		AssistantName:  "Assistant",
		LogLevel:       "warn",
	}
}

// loadChatConfig resolves the configuration for dir: defaults, then the 'chat'
// extension of grove.yml, then .env, then the process environment.
func loadChatConfig(dir string) (*ChatConfig, error) {
	cfg := defaultChatConfig()

	// It's okay if the core config doesn't exist, we'll just keep the defaults.
	coreCfg, err := config.LoadFrom(dir)
	if err == nil && coreCfg != nil {
		var fileCfg ChatConfig
		if err := coreCfg.UnmarshalExtension("chat", &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse 'chat' configuration from grove.yml: %w", err)
		}
		cfg.merge(&fileCfg)
	}

	lookup, err := envLookup(filepath.Join(dir, ".env"))
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(lookup)

	return cfg, nil
}

// envLookup returns a lookup that prefers the process environment and falls
// back to the values of a .env file. A missing file is not an error.
func envLookup(path string) (func(string) string, error) {
	dotenv, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		dotenv = map[string]string{}
	}

	return func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return dotenv[key]
	}, nil
}

// merge copies the non-zero fields of other into c.
func (c *ChatConfig) merge(other *ChatConfig) {
	if other.Endpoint != "" {
		c.Endpoint = other.Endpoint
	}
	if other.RequestTimeout != "" {
		c.RequestTimeout = other.RequestTimeout
	}
	if other.Greeting != "" {
		c.Greeting = other.Greeting
	}
	if other.UserName != "" {
		c.UserName = other.UserName
	}
	if other.AssistantName != "" {
		c.AssistantName = other.AssistantName
	}
	if other.NoColor {
		c.NoColor = true
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFile != "" {
		c.LogFile = other.LogFile
	}
}

func (c *ChatConfig) applyEnv(getenv func(string) string) {
	c.merge(&ChatConfig{
		Endpoint:       getenv(envEndpoint),
		RequestTimeout: getenv(envTimeout),
		Greeting:       getenv(envGreeting),
		LogLevel:       getenv(envLogLevel),
		LogFile:        getenv(envLogFile),
		NoColor:        getenv(envNoColor) != "",
	})
}

// Timeout parses RequestTimeout. An empty value means no timeout.
func (c *ChatConfig) Timeout() (time.Duration, error) {
	if strings.TrimSpace(c.RequestTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid request_timeout %q: %w", c.RequestTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid request_timeout %q: must not be negative", c.RequestTimeout)
	}
	return d, nil
}

// Validate checks the fields that would otherwise fail on the first turn.
func (c *ChatConfig) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: must be an absolute http(s) URL", c.Endpoint)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
