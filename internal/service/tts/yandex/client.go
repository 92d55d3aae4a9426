package yandex

import (
	"VoiceAssistant/internal/config"
	"VoiceAssistant/internal/service/tts/player"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultEndpoint = "https://tts.api.cloud.yandex.net/speech/v1/tts:synthesize"

// Client реализует синтез речи через Yandex SpeechKit и воспроизводит результат.
type Client struct {
	http   *http.Client
	cfg    config.YandexTTSConfig
	player player.Player
}

// New проверяет ключ сразу; httpClient nil — http.DefaultClient.
func New(cfg config.YandexTTSConfig, p player.Player, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("yandex tts: empty API key (set YC_TTS_API_KEY in .env/ENV)")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, cfg: cfg, player: p}, nil
}

// Synthesize выполняет запрос к Yandex TTS и проигрывает ответ потоком.
func (c *Client) Synthesize(ctx context.Context, text string) error {
	format := strings.ToLower(c.cfg.Format)

	form := url.Values{}
	form.Set("text", text)
	form.Set("voice", c.cfg.Voice)
	form.Set("format", format)
	form.Set("speed", c.cfg.Speed)
	form.Set("emotion", strings.ToLower(c.cfg.Emotion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Api-Key "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return fmt.Errorf("yandex tts error: status=%d, body=%s", resp.StatusCode, bytes.TrimSpace(b))
	}

	// Плеер закрывает тело сам.
	return c.player.Play(ctx, format, resp.Body)
}
