package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mattsolo1/grove-chat/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLookup(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("GROVE_CHAT_ENDPOINT=http://from-dotenv/chat\nGROVE_CHAT_GREETING=Hi from dotenv\n"), 0644))

	t.Setenv(envGreeting, "Hi from env")

	lookup, err := envLookup(envFile)
	require.NoError(t, err)
	assert.Equal(t, "http://from-dotenv/chat", lookup(envEndpoint))
	assert.Equal(t, "Hi from env", lookup(envGreeting), "process env wins over .env")
	assert.Equal(t, "", lookup("GROVE_CHAT_UNSET_FOR_TEST"))
}

func TestEnvLookupMissingFile(t *testing.T) {
	lookup, err := envLookup(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.NotNil(t, lookup)
}

func TestApplyEnv(t *testing.T) {
	cfg := defaultChatConfig()
	env := map[string]string{
		envEndpoint: "http://localhost:5000/chat",
		envTimeout:  "5s",
		envNoColor:  "1",
	}
	cfg.applyEnv(func(key string) string { return env[key] })

	assert.Equal(t, "http://localhost:5000/chat", cfg.Endpoint)
	assert.Equal(t, "5s", cfg.RequestTimeout)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "Assistant", cfg.AssistantName, "unset keys keep defaults")
}

func TestMergeKeepsDefaults(t *testing.T) {
	cfg := defaultChatConfig()
	cfg.merge(&ChatConfig{Greeting: "Welcome back"})

	assert.Equal(t, "Welcome back", cfg.Greeting)
	assert.Equal(t, transport.DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, "60s", cfg.RequestTimeout)
}

func TestChatConfigTimeout(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{value: "", want: 0},
		{value: "0s", want: 0},
		{value: "90s", want: 90 * time.Second},
		{value: "soon", wantErr: true},
		{value: "-1s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := &ChatConfig{RequestTimeout: tt.value}
			got, err := cfg.Timeout()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChatConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ChatConfig)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *ChatConfig) {}},
		{name: "relative endpoint", mutate: func(c *ChatConfig) { c.Endpoint = "/chat" }, wantErr: "absolute http(s) URL"},
		{name: "unsupported scheme", mutate: func(c *ChatConfig) { c.Endpoint = "ftp://example.com/chat" }, wantErr: "absolute http(s) URL"},
		{name: "bad timeout", mutate: func(c *ChatConfig) { c.RequestTimeout = "later" }, wantErr: "invalid request_timeout"},
		{name: "bad log level", mutate: func(c *ChatConfig) { c.LogLevel = "loud" }, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultChatConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestChatConfigSchema(t *testing.T) {
	schema := ChatConfigSchema()
	assert.Equal(t, "Grove Chat Configuration", schema.Title)
	assert.Nil(t, schema.Required)

	_, ok := schema.Properties.Get("endpoint")
	assert.True(t, ok)
	_, ok = schema.Properties.Get("request_timeout")
	assert.True(t, ok)
}
