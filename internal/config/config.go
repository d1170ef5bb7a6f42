// Package config layers defaults, a YAML file, the environment and
// command-line flags, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	BackendOpenAI = "openai"
	BackendChat   = "chat"
	BackendOllama = "ollama"
	BackendGemini = "gemini"

	InputMic     = "mic"
	InputConsole = "console"
	InputSocket  = "socket"
	InputReplay  = "replay"

	OutputVoice = "voice"
	OutputText  = "text"
)

var (
	Backends = []string{BackendOpenAI, BackendChat, BackendOllama, BackendGemini}
	Inputs   = []string{InputMic, InputConsole, InputSocket, InputReplay}
	Outputs  = []string{OutputVoice, OutputText}

	ErrInvalid = errors.New("invalid configuration")
)

var defaultModels = map[string]string{
	BackendOpenAI: "gpt-4.1-mini",
	BackendChat:   "gpt-4.1-mini",
	BackendOllama: "llama3.1",
	BackendGemini: "gemini-2.0-flash",
}

type Config struct {
	LogLevel string `yaml:"log_level" env:"DESKVOX_LOG"`

	Backend      string        `yaml:"backend" env:"DESKVOX_BACKEND"`
	Model        string        `yaml:"model" env:"DESKVOX_MODEL"`
	OpenAIKey    string        `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIURL    string        `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
	GeminiKey    string        `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	OllamaURL    string        `yaml:"ollama_url" env:"OLLAMA_HOST"`
	Proxy        string        `yaml:"proxy" env:"DESKVOX_PROXY"`
	ResolveAfter time.Duration `yaml:"resolve_timeout" env:"DESKVOX_RESOLVE_TIMEOUT"`

	Input       string   `yaml:"input" env:"DESKVOX_INPUT"`
	Output      string   `yaml:"output" env:"DESKVOX_OUTPUT"`
	ReplayFiles []string `yaml:"replay_files" env:"DESKVOX_REPLAY" envSeparator:","`
	WorkDir     string   `yaml:"work_dir" env:"DESKVOX_WORKDIR"`
	ExitPhrases []string `yaml:"exit_phrases" env:"DESKVOX_EXIT_PHRASES" envSeparator:","`

	WhisperModel string `yaml:"whisper_model" env:"DESKVOX_WHISPER_MODEL"`
	Language     string `yaml:"language" env:"DESKVOX_LANGUAGE"`
	BeepFile     string `yaml:"beep_file" env:"DESKVOX_BEEP"`
	Voice        string `yaml:"voice" env:"DESKVOX_VOICE"`
	Rate         int    `yaml:"rate" env:"DESKVOX_RATE"`
	Duck         bool   `yaml:"duck" env:"DESKVOX_DUCK"`
	PushToTalk   bool   `yaml:"push_to_talk" env:"DESKVOX_PUSH_TO_TALK"`
	SocketPath   string `yaml:"socket" env:"DESKVOX_SOCKET"`
}

func Default() Config {
	return Config{
		LogLevel:     "info",
		Backend:      BackendOpenAI,
		ResolveAfter: 60 * time.Second,
		Input:        InputMic,
		Output:       OutputVoice,
		WorkDir:      "~/Desktop",
		ExitPhrases:  []string{"exit", "quit", "stop"},
		WhisperModel: "models/ggml-base.en.bin",
		Language:     "en",
		Voice:        "en",
		Rate:         175,
		Duck:         true,
		SocketPath:   "/tmp/deskvox.sock",
	}
}

// ModelOrDefault returns the configured model or the backend's default.
func (c Config) ModelOrDefault() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModels[c.Backend]
}

// Load parses args (without the program name) and layers every source
// over Default. Only flags given explicitly override the other layers.
func Load(args []string) (Config, error) {
	def := Default()
	fl := def

	fs := cli.NewFlagSet("deskvox", cli.ContinueOnError)
	cfgFile := fs.StringP("config", "c", "", "YAML config file")
	envFile := fs.StringP("env", "e", ".env", "Env file path")

	fs.StringVarP(&fl.LogLevel, "log", "l", def.LogLevel, "Log level")
	fs.StringVarP(&fl.Backend, "backend", "b", def.Backend, "Resolver backend: "+strings.Join(Backends, "|"))
	fs.StringVarP(&fl.Model, "model", "m", def.Model, "Resolver model, backend default when empty")
	fs.StringVar(&fl.OllamaURL, "ollama", def.OllamaURL, "Ollama base URL")
	fs.StringVarP(&fl.Proxy, "proxy", "p", def.Proxy, "Socks Proxy Address")
	fs.DurationVar(&fl.ResolveAfter, "resolve-timeout", def.ResolveAfter, "Timeout of one resolver call")
	fs.StringVarP(&fl.Input, "input", "i", def.Input, "Input: "+strings.Join(Inputs, "|"))
	fs.StringVarP(&fl.Output, "output", "o", def.Output, "Output: "+strings.Join(Outputs, "|"))
	fs.StringSliceVar(&fl.ReplayFiles, "replay", def.ReplayFiles, "Audio files for replay input")
	fs.StringVarP(&fl.WorkDir, "workdir", "w", def.WorkDir, "Base directory for relative paths")
	fs.StringSliceVar(&fl.ExitPhrases, "exit-phrases", def.ExitPhrases, "Phrases that end the session")
	fs.StringVar(&fl.WhisperModel, "whisper", def.WhisperModel, "Whisper model path")
	fs.StringVar(&fl.Language, "lang", def.Language, "Transcription language")
	fs.StringVar(&fl.BeepFile, "beep", def.BeepFile, "Listening cue mp3")
	fs.StringVar(&fl.Voice, "voice", def.Voice, "espeak voice")
	fs.IntVar(&fl.Rate, "rate", def.Rate, "Speech rate, words per minute")
	fs.BoolVar(&fl.Duck, "duck", def.Duck, "Lower other audio while listening")
	fs.BoolVar(&fl.PushToTalk, "push-to-talk", def.PushToTalk, "Wait for a trigger before each recording")
	fs.StringVarP(&fl.SocketPath, "socket", "s", def.SocketPath, "Control socket path")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := def

	if *cfgFile != "" {
		if err := readYAML(*cfgFile, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.Visit(func(f *cli.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply(&cfg, &fl)
		}
	})

	return cfg, nil
}

var overrides = map[string]func(dst, src *Config){
	"log":             func(d, s *Config) { d.LogLevel = s.LogLevel },
	"backend":         func(d, s *Config) { d.Backend = s.Backend },
	"model":           func(d, s *Config) { d.Model = s.Model },
	"ollama":          func(d, s *Config) { d.OllamaURL = s.OllamaURL },
	"proxy":           func(d, s *Config) { d.Proxy = s.Proxy },
	"resolve-timeout": func(d, s *Config) { d.ResolveAfter = s.ResolveAfter },
	"input":           func(d, s *Config) { d.Input = s.Input },
	"output":          func(d, s *Config) { d.Output = s.Output },
	"replay":          func(d, s *Config) { d.ReplayFiles = s.ReplayFiles },
	"workdir":         func(d, s *Config) { d.WorkDir = s.WorkDir },
	"exit-phrases":    func(d, s *Config) { d.ExitPhrases = s.ExitPhrases },
	"whisper":         func(d, s *Config) { d.WhisperModel = s.WhisperModel },
	"lang":            func(d, s *Config) { d.Language = s.Language },
	"beep":            func(d, s *Config) { d.BeepFile = s.BeepFile },
	"voice":           func(d, s *Config) { d.Voice = s.Voice },
	"rate":            func(d, s *Config) { d.Rate = s.Rate },
	"duck":            func(d, s *Config) { d.Duck = s.Duck },
	"push-to-talk":    func(d, s *Config) { d.PushToTalk = s.PushToTalk },
	"socket":          func(d, s *Config) { d.SocketPath = s.SocketPath },
}

func readYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error

	if !slices.Contains(Backends, c.Backend) {
		errs = append(errs, fmt.Errorf("%w: backend %q", ErrInvalid, c.Backend))
	}
	if !slices.Contains(Inputs, c.Input) {
		errs = append(errs, fmt.Errorf("%w: input %q", ErrInvalid, c.Input))
	}
	if !slices.Contains(Outputs, c.Output) {
		errs = append(errs, fmt.Errorf("%w: output %q", ErrInvalid, c.Output))
	}

	switch c.Backend {
	case BackendOpenAI, BackendChat:
		if c.OpenAIKey == "" {
			errs = append(errs, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrInvalid))
		}
	case BackendGemini:
		if c.GeminiKey == "" {
			errs = append(errs, fmt.Errorf("%w: GEMINI_API_KEY not set", ErrInvalid))
		}
	}

	if c.Input == InputReplay && len(c.ReplayFiles) == 0 {
		errs = append(errs, fmt.Errorf("%w: replay input needs files", ErrInvalid))
	}
	if c.Rate <= 0 {
		errs = append(errs, fmt.Errorf("%w: rate %d", ErrInvalid, c.Rate))
	}
	if c.ResolveAfter < 0 {
		errs = append(errs, fmt.Errorf("%w: negative resolve timeout", ErrInvalid))
	}

	return errors.Join(errs...)
}

// ResolveWorkDir expands the configured work dir. A missing or unusable
// directory is not fatal: the process working directory is used instead.
func ResolveWorkDir(cfg Config) string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	dir, err := expandHome(cfg.WorkDir)
	if err != nil || dir == "" {
		log.Warn("Failed to resolve work dir, using current", "dir", cfg.WorkDir, "err", err)
		return cwd
	}

	st, err := os.Stat(dir)
	if err != nil {
		log.Warn("Failed to use work dir, using current", "dir", dir, "err", err)
		return cwd
	}
	if !st.IsDir() {
		log.Warn("Work dir is not a directory, using current", "dir", dir)
		return cwd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
