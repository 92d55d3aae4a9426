package tts

import "context"

// Synthesizer озвучивает текст и блокируется до конца воспроизведения.
// Настройки провайдера передаются при создании клиента.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) error
}
