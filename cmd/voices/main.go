package main

import (
	"VoiceAssistant/internal/config"
	"VoiceAssistant/internal/service/tts/google"
	"VoiceAssistant/internal/service/tts/player"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"
)

// Небольшая утилита: печатает голоса Google TTS для языка из конфигурации
// и голос, который ассистент выберет автоматически.
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeoutCause(context.Background(), 15*time.Second, errors.New("google tts voices request timeout"))
	defer cancel()

	client, err := google.New(ctx, cfg.GoogleTTS, player.New(), sugar)
	if err != nil {
		fmt.Println("не удалось создать клиента Google TTS:", err)
		os.Exit(1)
	}
	defer client.Close()

	voices, err := client.Voices(ctx, cfg.GoogleTTS.Language)
	if err != nil {
		fmt.Println("не удалось получить список голосов:", err)
		os.Exit(1)
	}

	for _, v := range voices {
		fmt.Printf("%-28s %-8s %6d Hz  %s\n",
			v.GetName(),
			v.GetSsmlGender().String(),
			v.GetNaturalSampleRateHertz(),
			strings.Join(v.GetLanguageCodes(), ","),
		)
	}
	fmt.Printf("\n%d voices for %q; auto-selected: %s\n",
		len(voices), cfg.GoogleTTS.Language, orDefault(google.PickVoice(voices, ttspb.SsmlVoiceGender_FEMALE)))
}

func orDefault(s string) string {
	if s == "" {
		return "(service default)"
	}
	return s
}
