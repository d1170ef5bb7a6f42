package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestDefaults(t *testing.T) {
	cfg, err := Load([]string{"--env", noEnvFile(t)})
	require.NoError(t, err)

	want := Default()
	// the environment may carry credentials
	want.OpenAIKey, want.GeminiKey, want.OllamaURL, want.OpenAIURL = cfg.OpenAIKey, cfg.GeminiKey, cfg.OllamaURL, cfg.OpenAIURL
	assert.Equal(t, want, cfg)
	assert.Equal(t, "gpt-4.1-mini", cfg.ModelOrDefault())
	assert.Equal(t, 175, cfg.Rate)
	assert.Equal(t, "~/Desktop", cfg.WorkDir)
}

func TestLayering(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "deskvox.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
backend: ollama
model: qwen2.5
input: console
rate: 150
resolve_timeout: 30s
exit_phrases: [bye, goodbye]
`), 0o644))

	t.Setenv("DESKVOX_MODEL", "llama3.2")
	t.Setenv("DESKVOX_OUTPUT", "text")

	cfg, err := Load([]string{"--env", noEnvFile(t), "-c", file, "--rate", "200", "--output", "voice"})
	require.NoError(t, err)

	assert.Equal(t, BackendOllama, cfg.Backend, "yaml over default")
	assert.Equal(t, "llama3.2", cfg.Model, "env over yaml")
	assert.Equal(t, 200, cfg.Rate, "flag over yaml")
	assert.Equal(t, OutputVoice, cfg.Output, "flag over env")
	assert.Equal(t, InputConsole, cfg.Input)
	assert.Equal(t, 30*time.Second, cfg.ResolveAfter)
	assert.Equal(t, []string{"bye", "goodbye"}, cfg.ExitPhrases)
}

func TestUnchangedFlagsDoNotOverride(t *testing.T) {
	t.Setenv("DESKVOX_INPUT", "socket")

	cfg, err := Load([]string{"--env", noEnvFile(t), "--log", "debug"})
	require.NoError(t, err)
	assert.Equal(t, InputSocket, cfg.Input)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DESKVOX_TEST_VOICE_ONLY=1\nDESKVOX_VOICE=de\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("DESKVOX_TEST_VOICE_ONLY")
		os.Unsetenv("DESKVOX_VOICE")
	})

	cfg, err := Load([]string{"--env", path})
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.Voice)
}

func TestBadYAML(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("rate: [not a number"), 0o644))

	_, err := Load([]string{"--env", noEnvFile(t), "--config", file})
	assert.Error(t, err)
}

func TestUnknownFlag(t *testing.T) {
	_, err := Load([]string{"--nope"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	ok := Default()
	ok.OpenAIKey = "sk-test"
	require.NoError(t, ok.Validate())

	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"backend", func(c *Config) { c.Backend = "claude" }},
		{"input", func(c *Config) { c.Input = "keyboard" }},
		{"output", func(c *Config) { c.Output = "braille" }},
		{"openai key", func(c *Config) { c.OpenAIKey = "" }},
		{"gemini key", func(c *Config) { c.Backend = BackendGemini }},
		{"replay files", func(c *Config) { c.Input = InputReplay }},
		{"rate", func(c *Config) { c.Rate = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ok
			tt.mut(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}

	local := Default()
	local.Backend = BackendOllama
	assert.NoError(t, local.Validate(), "ollama needs no key")
}

func TestResolveWorkDir(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)

	cfg := Default()
	cfg.WorkDir = dir
	assert.Equal(t, dir, ResolveWorkDir(cfg))

	cfg.WorkDir = filepath.Join(dir, "absent")
	assert.Equal(t, cwd, ResolveWorkDir(cfg))

	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg.WorkDir = file
	assert.Equal(t, cwd, ResolveWorkDir(cfg))

	home := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(home, "Desktop"), 0o755))
	t.Setenv("HOME", home)
	cfg.WorkDir = "~/Desktop"
	assert.Equal(t, filepath.Join(home, "Desktop"), ResolveWorkDir(cfg))
}
