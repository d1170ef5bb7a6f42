package main

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/spf13/pflag"

	"deskvox/internal/action"
	"deskvox/internal/config"
	"deskvox/internal/dispatch"
	"deskvox/internal/intent"
	"deskvox/internal/intent/gemini"
	"deskvox/internal/intent/ollama"
	"deskvox/internal/intent/openai"
	"deskvox/internal/logging"
	"deskvox/internal/proxy"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, cli.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logging.Setup(cfg.LogLevel, os.Stderr)
	log.Info("Booting up")

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Failed to run assistant", "err", err)
		os.Exit(1)
	}
	log.Info("Shut down")
}

func run(ctx context.Context, cfg config.Config) error {
	workDir := config.ResolveWorkDir(cfg)
	log.Info("Working directory", "dir", workDir)

	catalog := action.Builtin()
	executor := action.NewExecutor(catalog, action.Env{BaseDir: workDir, Desktop: action.SystemDesktop{}})

	resolver, err := newResolver(ctx, cfg)
	if err != nil {
		return fmt.Errorf("resolver: %w", err)
	}
	log.Debug("Loaded resolver", "backend", cfg.Backend, "model", cfg.ModelOrDefault())

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	listener, closeIn, err := newListener(cfg)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}
	closers = append(closers, closeIn)

	speaker := newSpeaker(cfg)

	loop, err := dispatch.New(dispatch.Config{
		Listener:       listener,
		Speaker:        speaker,
		Resolver:       resolver,
		Executor:       executor,
		Catalog:        catalog,
		ExitPhrases:    cfg.ExitPhrases,
		ResolveTimeout: cfg.ResolveAfter,
	})
	if err != nil {
		return err
	}

	log.Info("Boot up - successful", "input", cfg.Input, "output", cfg.Output)
	return loop.Run(ctx)
}

func newResolver(ctx context.Context, cfg config.Config) (intent.Resolver, error) {
	httpClient, err := proxy.NewClient(cfg.Proxy, 0)
	if err != nil {
		return nil, fmt.Errorf("proxy: %w", err)
	}

	model := cfg.ModelOrDefault()

	switch cfg.Backend {
	case config.BackendOpenAI, config.BackendChat:
		client := openai.NewClient(cfg.OpenAIKey, cfg.OpenAIURL, httpClient)
		if cfg.Backend == config.BackendChat {
			return openai.NewChatJSON(client, model), nil
		}
		return openai.New(client, model), nil
	case config.BackendOllama:
		return ollama.New(cfg.OllamaURL, model, httpClient)
	case config.BackendGemini:
		return gemini.New(ctx, cfg.GeminiKey, model, httpClient)
	default:
		return nil, fmt.Errorf("%w: backend %q", config.ErrInvalid, cfg.Backend)
	}
}
