package yandex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultEndpoint = "wss://stt.api.cloud.yandex.net/speech/v1/stt:streaming"

// Config настройки клиента Yandex STT Streaming (WebSocket).
type Config struct {
	Endpoint   string
	APIKey     string
	Language   string // например, "en-US"
	SampleRate int    // например, 16000

	// Необязательный стартовый JSON; пусто — отправляем минимальную конфигурацию.
	StartJSON string
	// Необязательный JSON-сигнал конца аудио. После него всегда уходит CloseMessage.
	EndJSON string
}

// Result единица результата распознавания.
type Result struct {
	Text      string
	Final     bool
	Timestamp time.Time
}

// Client одна потоковая сессия распознавания.
type Client struct {
	cfg     Config
	conn    *websocket.Conn
	mu      sync.Mutex
	started bool

	// Закрывается, когда сервер завершил поток.
	results chan Result

	ctx    context.Context
	cancel context.CancelFunc
}

// New создаёт клиент без установления соединения.
func New(cfg Config) (*Client, error) {
	cfg, err := normalize(cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{cfg: cfg, results: make(chan Result, 32), ctx: ctx, cancel: cancel}, nil
}

func normalize(cfg Config) (Config, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.APIKey == "" {
		return cfg, errors.New("yandex stt: empty API key (expected YC_STT_API_KEY)")
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	return cfg, nil
}

// Start открывает WebSocket и запускает горутину приёма сообщений.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return errors.New("yandex stt: already started")
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 15 * time.Second,
	}

	u, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("yandex stt: invalid endpoint: %w", err)
	}
	q := u.Query()
	q.Set("lang", c.cfg.Language)
	q.Set("sampleRateHertz", fmt.Sprint(c.cfg.SampleRate))
	if q.Get("topic") == "" {
		q.Set("topic", "general")
	}
	if q.Get("format") == "" {
		q.Set("format", "lpcm")
	}
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", "Api-Key "+c.cfg.APIKey)

	conn, resp, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("yandex stt: connect %s: %s (HTTP %d): %w", u.Redacted(), http.StatusText(resp.StatusCode), resp.StatusCode, err)
		}
		return fmt.Errorf("yandex stt: connect %s: %w", u.Redacted(), err)
	}
	c.conn = conn

	start := []byte(c.cfg.StartJSON)
	if len(start) == 0 {
		start, _ = json.Marshal(map[string]any{
			"lang":            c.cfg.Language,
			"format":          "lpcm",
			"sampleRateHertz": c.cfg.SampleRate,
			"topic":           "general",
		})
	}
	if err := conn.WriteMessage(websocket.TextMessage, start); err != nil {
		_ = conn.Close()
		return fmt.Errorf("yandex stt: send start message: %w", err)
	}

	go c.readLoop()

	c.started = true
	return nil
}

// readLoop читает сообщения от сервера и публикует в канал results.
func (c *Client) readLoop() {
	defer close(c.results)
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		res, ok := parseServerMessage(data)
		if !ok {
			continue
		}
		select {
		case c.results <- res:
		case <-c.ctx.Done():
			return
		}
	}
}

// parseServerMessage пытается вытащить текст и признак финальности из произвольного JSON.
func parseServerMessage(data []byte) (Result, bool) {
	// {"result":"text","final":true}
	var s1 struct {
		Result string `json:"result"`
		Final  bool   `json:"final"`
	}
	if json.Unmarshal(data, &s1) == nil && (s1.Result != "" || s1.Final) {
		return Result{Text: s1.Result, Final: s1.Final, Timestamp: time.Now()}, true
	}

	// {"alternatives":[{"text":"..."}],"final":true}
	var s2 struct {
		Alternatives []struct {
			Text string `json:"text"`
		} `json:"alternatives"`
		Final bool `json:"final"`
	}
	if json.Unmarshal(data, &s2) == nil && len(s2.Alternatives) > 0 {
		return Result{Text: s2.Alternatives[0].Text, Final: s2.Final, Timestamp: time.Now()}, true
	}

	// {"partial":"..."}
	var s3 struct {
		Partial string `json:"partial"`
	}
	if json.Unmarshal(data, &s3) == nil && s3.Partial != "" {
		return Result{Text: s3.Partial, Timestamp: time.Now()}, true
	}

	// {"text":"...","is_final":true}
	var s4 struct {
		Text    string `json:"text"`
		IsFinal bool   `json:"is_final"`
		Final   bool   `json:"final"`
	}
	if json.Unmarshal(data, &s4) == nil && (s4.Text != "" || s4.IsFinal || s4.Final) {
		return Result{Text: s4.Text, Final: s4.IsFinal || s4.Final, Timestamp: time.Now()}, true
	}

	return Result{}, false
}

// WritePCM16 отправляет сэмплы PCM16 (mono, little-endian) бинарным фреймом.
func (c *Client) WritePCM16(samples []int16) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started || c.conn == nil {
		return errors.New("yandex stt: not connected (Start was not called)")
	}
	b := make([]byte, 0, 2*len(samples))
	for _, s := range samples {
		b = append(b, byte(s), byte(s>>8))
	}
	return c.conn.WriteMessage(websocket.BinaryMessage, b)
}

// Finish сообщает серверу о конце аудио, но продолжает принимать результаты.
func (c *Client) Finish() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started || c.conn == nil {
		return nil
	}
	if ej := c.cfg.EndJSON; ej != "" {
		if err := c.conn.WriteMessage(websocket.TextMessage, []byte(ej)); err != nil {
			return err
		}
	}
	return c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "eof"))
}

// Results канал распознанных гипотез.
func (c *Client) Results() <-chan Result { return c.results }

// Close закрывает соединение.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return nil
	}
	c.cancel()
	c.started = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
