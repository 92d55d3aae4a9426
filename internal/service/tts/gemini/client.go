package gemini

import (
	"VoiceAssistant/internal/config"
	"VoiceAssistant/internal/service/tts/player"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
)

// По умолчанию используем Cloud TTS v1beta1 text:synthesize, совместимый с Gemini-TTS.
const defaultEndpoint = "https://texttospeech.googleapis.com/v1beta1/text:synthesize"

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Client реализует синтез речи через Cloud Text-to-Speech: Gemini-TTS и воспроизводит результат.
type Client struct {
	http   *http.Client
	cfg    config.GeminiTTSConfig
	player player.Player
	logger *zap.SugaredLogger
}

// New получает OAuth2 HTTP-клиент через ADC. API Key не используется.
func New(ctx context.Context, cfg config.GeminiTTSConfig, p player.Player, logger *zap.SugaredLogger) (*Client, error) {
	httpClient, err := google.DefaultClient(ctx, cloudPlatformScope)
	if err != nil {
		return nil, errors.New("gemini tts: ADC credentials not found. Set GOOGLE_APPLICATION_CREDENTIALS to a service account JSON or run in GCE/GKE with default credentials")
	}
	return NewWithHTTPClient(cfg, httpClient, p, logger), nil
}

// NewWithHTTPClient клиент с готовым HTTP-клиентом (авторизация на его стороне).
func NewWithHTTPClient(cfg config.GeminiTTSConfig, httpClient *http.Client, p player.Player, logger *zap.SugaredLogger) *Client {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = defaultEndpoint
	}
	return &Client{http: httpClient, cfg: cfg, player: p, logger: logger}
}

type requestPayload struct {
	Input struct {
		Prompt string `json:"prompt,omitempty"`
		Text   string `json:"text,omitempty"`
		Ssml   string `json:"ssml,omitempty"`
	} `json:"input"`
	Voice struct {
		ModelName    string `json:"modelName,omitempty"`
		LanguageCode string `json:"languageCode,omitempty"`
		VoiceName    string `json:"name,omitempty"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding,omitempty"`
		SpeakingRate  float64 `json:"speakingRate,omitempty"`
		Pitch         float64 `json:"pitch,omitempty"`
		VolumeGainDb  float64 `json:"volumeGainDb,omitempty"`
	} `json:"audioConfig"`
}

type jsonAudioResponse struct {
	AudioContent string `json:"audioContent"`
}

func (c *Client) payload(text string) requestPayload {
	var rp requestPayload
	if strings.EqualFold(strings.TrimSpace(c.cfg.InputType), "ssml") {
		rp.Input.Ssml = text
	} else {
		// text, prompt и неизвестные типы отправляем как text, иначе сервис отвечает 400.
		rp.Input.Text = text
	}
	if p := strings.TrimSpace(c.cfg.Prompt); p != "" {
		rp.Input.Prompt = p
	}
	rp.Voice.ModelName = strings.TrimSpace(c.cfg.ModelName)
	rp.Voice.LanguageCode = strings.TrimSpace(c.cfg.Language)
	rp.Voice.VoiceName = strings.TrimSpace(c.cfg.VoiceName)
	rp.AudioConfig.AudioEncoding = "MP3"
	rp.AudioConfig.SpeakingRate = c.cfg.SpeakingRate
	rp.AudioConfig.Pitch = c.cfg.Pitch
	rp.AudioConfig.VolumeGainDb = c.cfg.VolumeGainDb
	return rp
}

// Synthesize выполняет запрос к Gemini-TTS и воспроизводит MP3 из audioContent.
func (c *Client) Synthesize(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("gemini tts: empty input text")
	}

	body, err := json.Marshal(c.payload(text))
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debugw("Gemini TTS request completed", "status", resp.StatusCode, "took", time.Since(started).String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return fmt.Errorf("gemini tts error: status=%d, body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var jr jsonAudioResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 5<<20)).Decode(&jr); err != nil {
		return fmt.Errorf("gemini tts: decode json response: %w", err)
	}
	if strings.TrimSpace(jr.AudioContent) == "" {
		return errors.New("gemini tts: empty audioContent in response")
	}
	data, err := base64.StdEncoding.DecodeString(jr.AudioContent)
	if err != nil {
		return fmt.Errorf("gemini tts: base64 decode: %w", err)
	}
	return c.player.Play(ctx, "mp3", io.NopCloser(bytes.NewReader(data)))
}
