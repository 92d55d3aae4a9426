package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Провайдеры языковой модели.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderCompat = "compat"
	ProviderStub   = "stub"
)

// Сервисы синтеза речи.
const (
	TTSGoogle = "google"
	TTSYandex = "yandex"
	TTSGemini = "gemini"
)

const defaultSystemPrompt = `You are a helpful, friendly AI assistant.
Provide clear, concise responses. Be conversational and engaging.
Keep responses reasonably short unless asked for detailed information.`

type Config struct {
	DebugMode bool `env:"DEBUG_MODE"` // Режим дебага: уровень логов debug

	// Языковая модель
	LLMProvider   string `env:"LLM_PROVIDER"`    // gemini|openai|compat|stub
	LLMModel      string `env:"LLM_MODEL"`       // Пусто — модель по умолчанию для провайдера
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`  // Ключ Gemini API
	GeminiBaseURL string `env:"GEMINI_BASE_URL"` // OpenAI-совместимый endpoint Gemini
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`  // Ключ OpenAI
	CompatBaseURL string `env:"COMPAT_BASE_URL"` // Любой OpenAI-совместимый сервер (например, локальный)
	CompatAPIKey  string `env:"COMPAT_API_KEY"`

	// Диалог
	SystemPrompt      string `env:"SYSTEM_PROMPT"`       // Фиксированные инструкции ассистента
	MaxHistoryRecords int    `env:"MAX_HISTORY_RECORDS"` // Ёмкость истории обменов
	ContextExchanges  int    `env:"CONTEXT_EXCHANGES"`   // Сколько последних обменов уходит в промпт

	// Голос
	VoiceEnabled        bool          `env:"VOICE_ENABLED"`
	ListenTimeout       time.Duration `env:"LISTEN_TIMEOUT"`       // Сколько ждём начала речи
	PhraseTimeLimit     time.Duration `env:"PHRASE_TIME_LIMIT"`    // Максимальная длина фразы
	PauseThreshold      time.Duration `env:"PAUSE_THRESHOLD"`      // Тишина, завершающая фразу
	EnergyThreshold     float64       `env:"ENERGY_THRESHOLD"`     // Минимальный порог энергии речи (RMS)
	CalibrationDuration time.Duration `env:"CALIBRATION_DURATION"` // Калибровка по фоновому шуму
	SampleRate          int           `env:"SAMPLE_RATE"`
	STTWavPath          string        `env:"STT_WAV_PATH"`      // Если задан — вместо микрофона читаем WAV
	ListenSoundPath     string        `env:"LISTEN_SOUND_PATH"` // Звук перед началом записи, пусто — без звука
	YandexSTT           YandexSTTConfig

	TTSService string `env:"TTS_SERVICE"` // google|yandex|gemini
	TTSVolume  int    `env:"TTS_VOLUME"`  // 0-100; 100 — без изменения громкости
	GoogleTTS  GoogleTTSConfig
	YandexTTS  YandexTTSConfig
	GeminiTTS  GeminiTTSConfig
}

// YandexSTTConfig настройки потокового распознавания Yandex SpeechKit.
type YandexSTTConfig struct {
	APIKey           string        `env:"YC_STT_API_KEY"`
	Endpoint         string        `env:"YC_STT_ENDPOINT"`
	Language         string        `env:"YC_STT_LANGUAGE"`
	EndJSON          string        `env:"YC_STT_END_JSON"` // Опциональный JSON-сигнал конца аудио
	RecognizeTimeout time.Duration `env:"YC_STT_RECOGNIZE_TIMEOUT"`
}

// YandexTTSConfig конфигурация для синтеза речи через Yandex SpeechKit.
type YandexTTSConfig struct {
	APIKey   string `env:"YC_TTS_API_KEY"`
	Endpoint string `env:"YC_TTS_ENDPOINT"`
	Voice    string `env:"YC_TTS_VOICE"`
	Format   string `env:"YC_TTS_FORMAT"` // mp3|wav
	Speed    string `env:"YC_TTS_SPEED"`
	Emotion  string `env:"YC_TTS_EMOTION"`
}

// GoogleTTSConfig конфигурация для синтеза речи через Google Cloud Text-to-Speech.
type GoogleTTSConfig struct {
	CredentialsPath string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Language        string `env:"GOOGLE_TTS_LANGUAGE"`
	// Пусто — при старте выбирается первый женский голос для языка.
	Voice            string  `env:"GOOGLE_TTS_VOICE"`
	SpeakingRate     float64 `env:"GOOGLE_TTS_SPEAKING_RATE"`
	Pitch            float64 `env:"GOOGLE_TTS_PITCH"`
	VolumeGainDb     float64 `env:"GOOGLE_TTS_VOLUME_DB"`
	EffectsProfileID string  `env:"GOOGLE_TTS_EFFECTS_PROFILE_ID"`
	InputType        string  `env:"GOOGLE_TTS_INPUT_TYPE"` // text|ssml
}

// GeminiTTSConfig конфигурация Cloud Text-to-Speech с моделями Gemini-TTS.
type GeminiTTSConfig struct {
	Endpoint     string  `env:"GEMINI_TTS_ENDPOINT"`
	ModelName    string  `env:"GEMINI_TTS_MODEL"`
	VoiceName    string  `env:"GEMINI_TTS_VOICE"`
	Language     string  `env:"GEMINI_TTS_LANGUAGE"`
	Prompt       string  `env:"GEMINI_TTS_PROMPT"` // Стилевая подсказка для модели
	InputType    string  `env:"GEMINI_TTS_INPUT_TYPE"`
	SpeakingRate float64 `env:"GEMINI_TTS_SPEAKING_RATE"`
	Pitch        float64 `env:"GEMINI_TTS_PITCH"`
	VolumeGainDb float64 `env:"GEMINI_TTS_VOLUME_DB"`
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		LLMProvider:         ProviderGemini,
		GeminiBaseURL:       "https://generativelanguage.googleapis.com/v1beta/openai/",
		CompatBaseURL:       "http://localhost:11434/v1",
		SystemPrompt:        defaultSystemPrompt,
		MaxHistoryRecords:   10,
		ContextExchanges:    3,
		VoiceEnabled:        true,
		ListenTimeout:       5 * time.Second,
		PhraseTimeLimit:     10 * time.Second,
		PauseThreshold:      800 * time.Millisecond,
		EnergyThreshold:     300,
		CalibrationDuration: 500 * time.Millisecond,
		SampleRate:          16000,
		YandexSTT: YandexSTTConfig{
			Endpoint:         "wss://stt.api.cloud.yandex.net/speech/v1/stt:streaming",
			Language:         "en-US",
			RecognizeTimeout: 10 * time.Second,
		},
		TTSService: TTSGoogle,
		TTSVolume:  90,
		GoogleTTS: GoogleTTSConfig{
			Language:     "en-US",
			SpeakingRate: 1.0,
		},
		YandexTTS: YandexTTSConfig{
			Endpoint: "https://tts.api.cloud.yandex.net/speech/v1/tts:synthesize",
			Voice:    "john",
			Format:   "mp3",
			Speed:    "1.0",
			Emotion:  "neutral",
		},
		GeminiTTS: GeminiTTSConfig{
			Endpoint:     "https://texttospeech.googleapis.com/v1beta1/text:synthesize",
			ModelName:    "gemini-2.5-flash-preview-tts",
			VoiceName:    "Kore",
			Language:     "en-US",
			SpeakingRate: 1.0,
		},
	}
}

// NewConfig загружает конфигурацию приложения из .env, окружения и os.Args.
func NewConfig() (*Config, error) {
	return Parse(os.Args[1:])
}

// Parse стартует с дефолтов, затем перекрывает .env/окружением и флагами из args.
func Parse(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	fs := flag.NewFlagSet("assistant", flag.ContinueOnError)
	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "enable debug logging")
	fs.StringVar(&cfg.LLMProvider, "llm-provider", cfg.LLMProvider, "model provider: gemini|openai|compat|stub")
	fs.StringVar(&cfg.LLMModel, "llm-model", cfg.LLMModel, "model identifier (empty = provider default)")
	fs.StringVar(&cfg.CompatBaseURL, "compat-base-url", cfg.CompatBaseURL, "base URL of an OpenAI-compatible server")
	fs.StringVar(&cfg.SystemPrompt, "system-prompt", cfg.SystemPrompt, "fixed assistant instructions")
	fs.IntVar(&cfg.MaxHistoryRecords, "max-history-records", cfg.MaxHistoryRecords, "conversation history capacity")
	fs.IntVar(&cfg.ContextExchanges, "context-exchanges", cfg.ContextExchanges, "recent exchanges sent with each prompt")
	fs.BoolVar(&cfg.VoiceEnabled, "voice", cfg.VoiceEnabled, "enable voice input/output")
	fs.DurationVar(&cfg.ListenTimeout, "listen-timeout", cfg.ListenTimeout, "how long to wait for speech to start")
	fs.DurationVar(&cfg.PhraseTimeLimit, "phrase-time-limit", cfg.PhraseTimeLimit, "maximum phrase duration")
	fs.DurationVar(&cfg.PauseThreshold, "pause-threshold", cfg.PauseThreshold, "silence that ends a phrase")
	fs.Float64Var(&cfg.EnergyThreshold, "energy-threshold", cfg.EnergyThreshold, "minimum speech energy (RMS)")
	fs.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "capture sample rate, Hz")
	fs.StringVar(&cfg.STTWavPath, "stt-wav", cfg.STTWavPath, "read voice input from a 16-bit mono WAV file instead of the microphone")
	fs.StringVar(&cfg.ListenSoundPath, "listen-sound-path", cfg.ListenSoundPath, "sound (mp3|wav) played before listening")
	fs.StringVar(&cfg.YandexSTT.Language, "stt-language", cfg.YandexSTT.Language, "recognition language, e.g. en-US")
	fs.StringVar(&cfg.TTSService, "tts-service", cfg.TTSService, "speech synthesis service: google|yandex|gemini")
	fs.IntVar(&cfg.TTSVolume, "tts-volume", cfg.TTSVolume, "playback volume 0-100")
	fs.StringVar(&cfg.GoogleTTS.CredentialsPath, "google-tts-credentials", cfg.GoogleTTS.CredentialsPath, "path to service-account.json")
	fs.StringVar(&cfg.GoogleTTS.Language, "google-tts-language", cfg.GoogleTTS.Language, "synthesis language, e.g. en-US")
	fs.StringVar(&cfg.GoogleTTS.Voice, "google-tts-voice", cfg.GoogleTTS.Voice, "voice name (empty = first female voice)")
	fs.Float64Var(&cfg.GoogleTTS.SpeakingRate, "google-tts-speaking-rate", cfg.GoogleTTS.SpeakingRate, "speaking rate (1.0 = normal)")
	fs.StringVar(&cfg.YandexTTS.Voice, "yc-tts-voice", cfg.YandexTTS.Voice, "Yandex voice")
	fs.StringVar(&cfg.GeminiTTS.VoiceName, "gemini-tts-voice", cfg.GeminiTTS.VoiceName, "Gemini-TTS voice")
	fs.StringVar(&cfg.GeminiTTS.Prompt, "gemini-tts-prompt", cfg.GeminiTTS.Prompt, "style prompt for Gemini-TTS")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.TTSService = strings.ToLower(strings.TrimSpace(cfg.TTSService))

	// Google SDK читает путь к ключу только из окружения.
	if cp := strings.TrimSpace(cfg.GoogleTTS.CredentialsPath); cp != "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", cp)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность значений.
func (c *Config) Validate() error {
	var errs []error
	switch c.LLMProvider {
	case ProviderGemini, ProviderOpenAI, ProviderStub:
	case ProviderCompat:
		if strings.TrimSpace(c.LLMModel) == "" {
			errs = append(errs, errors.New("compat provider requires an explicit model (LLM_MODEL)"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown llm provider %q", c.LLMProvider))
	}
	if c.MaxHistoryRecords <= 0 {
		errs = append(errs, fmt.Errorf("max history records must be positive, got %d", c.MaxHistoryRecords))
	}
	if c.ContextExchanges < 0 || c.ContextExchanges > c.MaxHistoryRecords {
		errs = append(errs, fmt.Errorf("context exchanges must be within [0, %d], got %d", c.MaxHistoryRecords, c.ContextExchanges))
	}
	if c.ListenTimeout <= 0 || c.PhraseTimeLimit <= 0 {
		errs = append(errs, errors.New("listen timeout and phrase time limit must be positive"))
	}
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate must be positive, got %d", c.SampleRate))
	}
	if c.TTSVolume < 0 || c.TTSVolume > 100 {
		errs = append(errs, fmt.Errorf("tts volume must be within 0..100, got %d", c.TTSVolume))
	}
	switch c.TTSService {
	case TTSGoogle, TTSYandex, TTSGemini:
	default:
		errs = append(errs, fmt.Errorf("unknown tts service %q", c.TTSService))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Model возвращает идентификатор модели с учётом дефолтов провайдера.
func (c *Config) Model() string {
	if m := strings.TrimSpace(c.LLMModel); m != "" {
		return m
	}
	switch c.LLMProvider {
	case ProviderGemini:
		return "gemini-2.5-flash"
	case ProviderOpenAI:
		return "gpt-4o"
	}
	return ""
}

// APIKey возвращает обязательный ключ выбранного провайдера.
func (c *Config) APIKey() string {
	switch c.LLMProvider {
	case ProviderGemini:
		return strings.TrimSpace(c.GeminiAPIKey)
	case ProviderOpenAI:
		return strings.TrimSpace(c.OpenAIAPIKey)
	case ProviderCompat:
		return strings.TrimSpace(c.CompatAPIKey)
	}
	return ""
}

// SetAPIKey сохраняет ключ, введённый вручную.
func (c *Config) SetAPIKey(key string) {
	key = strings.TrimSpace(key)
	switch c.LLMProvider {
	case ProviderGemini:
		c.GeminiAPIKey = key
	case ProviderOpenAI:
		c.OpenAIAPIKey = key
	case ProviderCompat:
		c.CompatAPIKey = key
	}
}

// RequiresAPIKey сообщает, нужен ли провайдеру ключ. Локальные compat-серверы обычно работают без него.
func (c *Config) RequiresAPIKey() bool {
	return c.LLMProvider == ProviderGemini || c.LLMProvider == ProviderOpenAI
}

// APIKeyEnv имя переменной окружения с ключом провайдера.
func (c *Config) APIKeyEnv() string {
	switch c.LLMProvider {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderCompat:
		return "COMPAT_API_KEY"
	}
	return ""
}
