package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse — модель ответила, но без пригодного текста.
var ErrEmptyResponse = errors.New("empty response")

// Client интерфейс для взаимодействия с моделью. Все реализации должны быть взаимозаменяемыми.
// Повторов не делаем: одна неудачная попытка сразу возвращается вызывающему.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RemoteError единственный тип ошибки, который возвращают реализации Client.
type RemoteError struct {
	Provider string
	Err      error
}

func (e *RemoteError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *RemoteError) Unwrap() error { return e.Err }

func remoteErr(provider string, err error) error {
	return &RemoteError{Provider: provider, Err: err}
}
