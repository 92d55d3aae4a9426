package main

import (
	"VoiceAssistant/internal/ai"
	"VoiceAssistant/internal/command"
	"VoiceAssistant/internal/config"
	"VoiceAssistant/internal/console"
	"VoiceAssistant/internal/dialogue"
	"VoiceAssistant/internal/service/input"
	"VoiceAssistant/internal/service/output"
	"VoiceAssistant/internal/service/tts"
	"VoiceAssistant/internal/service/voice"
	"VoiceAssistant/internal/session"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	fmt.Println("🚀 Starting AI Assistant...")

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		return 2
	}

	// Логи только предупреждения и выше, чтобы не мешать разговору; в дебаге всё.
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if cfg.DebugMode {
		zcfg.Level.SetLevel(zap.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		// Sync на терминале часто возвращает EINVAL, это не ошибка.
		_ = logger.Sync()
	}()

	sugar.Debugw("Starting app",
		"provider", cfg.LLMProvider,
		"model", cfg.Model(),
		"voice", cfg.VoiceEnabled,
		"tts", cfg.TTSService,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	con := console.New(os.Stdin, os.Stdout)

	if cfg.RequiresAPIKey() && cfg.APIKey() == "" {
		if !askAPIKey(ctx, con, cfg) {
			return 1
		}
	}

	client, err := ai.New(cfg, sugar)
	if err != nil {
		sugar.Errorw("Failed to create model client", "error", err)
		con.Println("❌ Failed to start assistant:", err)
		con.Println("\nTroubleshooting:")
		con.Println("• Check your internet connection")
		con.Println("• Verify your API key is correct")
		con.Println("• Check LLM_PROVIDER and LLM_MODEL in .env")
		return 1
	}
	con.Printf("✅ Model client ready (%s %s)\n", cfg.LLMProvider, cfg.Model())

	var (
		voiceSrc input.Source
		synth    tts.Synthesizer
	)
	if cfg.VoiceEnabled {
		v, err := voice.Setup(ctx, cfg, sugar)
		if err != nil {
			sugar.Warnw("Voice disabled", "error", err)
			con.Println("⚠️ Voice initialization failed:", err)
		} else {
			defer func() {
				if err := v.Close(); err != nil {
					sugar.Warnw("Failed to release audio", "error", err)
				}
			}()
			con.Println("✅ Voice components initialized")
			voiceSrc = input.NewVoiceSource(v.Listener, con, v.Cue, sugar)
			synth = v.Synth
		}
	}

	manager := dialogue.NewManager(client, cfg.SystemPrompt, cfg.MaxHistoryRecords, cfg.ContextExchanges, sugar)
	loop := session.New(session.Deps{
		Input:     input.New(con, con, voiceSrc),
		Output:    output.NewSpeaker(con, synth, sugar),
		Commands:  command.NewInterpreter(manager),
		Dialogue:  manager,
		Display:   con,
		VoiceMode: voiceSrc != nil,
	}, sugar)
	loop.Run(ctx)
	return 0
}

var keyURLs = map[string]string{
	config.ProviderGemini: "https://ai.google.dev/",
	config.ProviderOpenAI: "https://platform.openai.com/api-keys",
}

// askAPIKey объясняет, где взять ключ, и даёт ввести его вручную.
func askAPIKey(ctx context.Context, con *console.Console, cfg *config.Config) bool {
	envName := cfg.APIKeyEnv()
	con.Println("\n❌ API key not found!")
	con.Println("Please:")
	con.Println("1. Get your API key from:", keyURLs[cfg.LLMProvider])
	con.Println("2. Create a .env file in this folder")
	con.Printf("3. Add: %s=your_api_key_here\n", envName)

	key, err := con.ReadLine(ctx, "\nOr enter your API key now: ")
	if err == nil {
		cfg.SetAPIKey(key)
	}
	if cfg.APIKey() == "" {
		con.Println("❌ API key required. Exiting.")
		return false
	}
	return true
}
