package google

import (
	"VoiceAssistant/internal/config"
	"VoiceAssistant/internal/service/tts/player"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"
)

// Client реализует синтез речи через Google Cloud Text-to-Speech и воспроизводит результат.
type Client struct {
	tts    *gctts.Client
	cfg    config.GoogleTTSConfig
	voice  string
	player player.Player
	logger *zap.SugaredLogger
}

// New создаёт клиента SDK один раз на всю сессию.
// Если голос не задан, берётся первый женский голос для языка.
func New(ctx context.Context, cfg config.GoogleTTSConfig, p player.Player, logger *zap.SugaredLogger) (*Client, error) {
	ttsClient, err := gctts.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("google tts: %w", err)
	}
	c := &Client{tts: ttsClient, cfg: cfg, voice: strings.TrimSpace(cfg.Voice), player: p, logger: logger}
	if c.voice == "" {
		voices, err := c.Voices(ctx, cfg.Language)
		if err != nil {
			logger.Warnw("Failed to list Google TTS voices, using service default", "error", err)
		} else if v := PickVoice(voices, ttspb.SsmlVoiceGender_FEMALE); v != "" {
			c.voice = v
			logger.Debugw("Google TTS voice selected", "voice", v)
		}
	}
	return c, nil
}

// Voices список голосов для языка; пустой язык — все голоса.
func (c *Client) Voices(ctx context.Context, language string) ([]*ttspb.Voice, error) {
	resp, err := c.tts.ListVoices(ctx, &ttspb.ListVoicesRequest{LanguageCode: language})
	if err != nil {
		return nil, err
	}
	return resp.GetVoices(), nil
}

// PickVoice первый голос нужного пола.
func PickVoice(voices []*ttspb.Voice, gender ttspb.SsmlVoiceGender) string {
	for _, v := range voices {
		if v.GetSsmlGender() == gender {
			return v.GetName()
		}
	}
	return ""
}

// Voice выбранный голос; пусто — голос по умолчанию сервиса.
func (c *Client) Voice() string { return c.voice }

// Synthesize выполняет запрос к Google TTS и воспроизводит MP3.
func (c *Client) Synthesize(ctx context.Context, text string) error {
	started := time.Now()
	resp, err := c.tts.SynthesizeSpeech(ctx, BuildRequest(c.cfg, c.voice, text))
	if err != nil {
		return err
	}
	c.logger.Debugw("Google TTS synthesize completed", "took", time.Since(started).String())

	return c.player.Play(ctx, "mp3", io.NopCloser(bytes.NewReader(resp.GetAudioContent())))
}

// BuildRequest собирает запрос синтеза (text|ssml, только MP3).
func BuildRequest(cfg config.GoogleTTSConfig, voice, text string) *ttspb.SynthesizeSpeechRequest {
	var input *ttspb.SynthesisInput
	if strings.EqualFold(strings.TrimSpace(cfg.InputType), "ssml") {
		input = &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Ssml{Ssml: text}}
	} else {
		input = &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Text{Text: text}}
	}

	audio := &ttspb.AudioConfig{
		AudioEncoding: ttspb.AudioEncoding_MP3,
		SpeakingRate:  cfg.SpeakingRate,
		Pitch:         cfg.Pitch,
		VolumeGainDb:  cfg.VolumeGainDb,
	}
	if ep := strings.TrimSpace(cfg.EffectsProfileID); ep != "" {
		audio.EffectsProfileId = []string{ep}
	}

	return &ttspb.SynthesizeSpeechRequest{
		Input:       input,
		Voice:       &ttspb.VoiceSelectionParams{LanguageCode: cfg.Language, Name: voice},
		AudioConfig: audio,
	}
}

func (c *Client) Close() error { return c.tts.Close() }
