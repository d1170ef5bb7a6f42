package main

import (
	"context"
	"fmt"
	log "log/slog"
	"os"
	"time"

	"deskvox/internal/audio"
	"deskvox/internal/audio/vad"
	"deskvox/internal/config"
	"deskvox/internal/dispatch"
	"deskvox/internal/ipc"
	"deskvox/internal/mixer"
	"deskvox/internal/notify"
	"deskvox/internal/speech"
	"deskvox/internal/tts"
	"deskvox/internal/tts/espeak"
	"deskvox/pkg/audioconv"
	"deskvox/pkg/stt"
)

func newListener(cfg config.Config) (dispatch.Listener, func(), error) {
	switch cfg.Input {
	case config.InputConsole:
		return &speech.Console{Reader: os.Stdin, Prompt: "You: ", Echo: os.Stdout}, func() {}, nil

	case config.InputSocket:
		bridge, closeSock, err := openSocket(cfg.SocketPath)
		if err != nil {
			return nil, nil, err
		}
		return bridge, closeSock, nil

	case config.InputReplay:
		whisper, err := newWhisper(cfg)
		if err != nil {
			return nil, nil, err
		}
		return &speech.Replay{
			Files: cfg.ReplayFiles,
			Decode: func(ctx context.Context, path string) ([]float32, error) {
				return audioconv.ConvertFileToPCM16k(ctx, path, audioconv.Options{})
			},
			Transcriber: whisper,
		}, func() { whisper.Close() }, nil

	case config.InputMic:
		return newMicrophone(cfg)

	default:
		return nil, nil, fmt.Errorf("%w: input %q", config.ErrInvalid, cfg.Input)
	}
}

func newMicrophone(cfg config.Config) (dispatch.Listener, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	rec := audio.NewRecorder(vad.DefaultConfig())
	if err := rec.Init(); err != nil {
		return nil, nil, fmt.Errorf("init audio: %w", err)
	}
	closers = append(closers, rec.Close)
	log.Debug("Loaded recorder")

	whisper, err := newWhisper(cfg)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	closers = append(closers, func() { whisper.Close() })

	mic := &speech.Microphone{
		Recorder:    rec,
		Transcriber: whisper,
		OnListen:    listeningCue(cfg.BeepFile),
	}

	if cfg.Duck {
		mic.Ducker = mixer.NewDucker(mixer.CLI{}, mixer.Options{
			SelfNames: []string{"deskvox", "espeak-ng", "eSpeak"},
			Factor:    0.3,
			Min:       5,
			Duration:  150 * time.Millisecond,
		})
	}

	if cfg.PushToTalk {
		bridge, closeSock, err := openSocket(cfg.SocketPath)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, closeSock)
		mic.Gate = bridge
		log.Info("Push to talk enabled", "socket", cfg.SocketPath)
	}

	return mic, closeAll, nil
}

func newWhisper(cfg config.Config) (*stt.Transcriber, error) {
	whisper, err := stt.NewTranscriber(cfg.WhisperModel, stt.Options{Language: cfg.Language})
	if err != nil {
		return nil, fmt.Errorf("init whisper: %w", err)
	}
	log.Debug("Loaded whisper", "model", cfg.WhisperModel)
	return whisper, nil
}

func openSocket(path string) (*ipc.Bridge, func(), error) {
	bridge := ipc.NewBridge()
	srv, err := ipc.StartServer(path, bridge.Handle)
	if err != nil {
		return nil, nil, fmt.Errorf("ipc server: %w", err)
	}
	return bridge, func() {
		bridge.Close()
		if err := srv.Close(); err != nil {
			log.Warn("Failed to close ipc server", "err", err)
		}
	}, nil
}

func listeningCue(beepFile string) func() {
	return func() {
		log.Info("Listening...")
		if beepFile == "" {
			return
		}
		if err := notify.Beep(beepFile); err != nil {
			log.Warn("Failed to play cue", "err", err)
		}
		if err := notify.Desktop(context.Background(), "deskvox", "Listening..."); err != nil {
			log.Debug("Failed to notify", "err", err)
		}
	}
}

func newSpeaker(cfg config.Config) dispatch.Speaker {
	console := tts.NewConsole(os.Stdout)
	if cfg.Output == config.OutputText {
		return console
	}
	return tts.Multi{console, espeak.New(cfg.Voice, cfg.Rate)}
}
