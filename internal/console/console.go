// Package console — текстовый терминал: построчный ввод и вывод статуса.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrClosed поток ввода закрыт (EOF или ошибка чтения).
var ErrClosed = errors.New("console: input closed")


// Console читает строки в отдельной горутине, чтобы ожидание ввода можно было прервать контекстом.
type Console struct {
	in  io.Reader
	out io.Writer

	mu   sync.Mutex
	once sync.Once
	// lines закрывается по EOF или ошибке чтения; после этого горутина чтения завершена.
	lines   chan string
	stopped chan struct{}
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: in, out: out, lines: make(chan string), stopped: make(chan struct{})}
}

func (c *Console) start() {
	go func() {
		defer close(c.stopped)
		defer close(c.lines)
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			c.lines <- sc.Text()
		}
	}()
}

// ReadLine печатает prompt и ждёт строку. Возвращает ErrClosed, если ввод закончился,
// или причину отмены ctx.
func (c *Console) ReadLine(ctx context.Context, prompt string) (string, error) {
	if prompt != "" {
		c.Print(prompt)
	}
	c.once.Do(c.start)
	select {
	case <-ctx.Done():
		return "", context.Cause(ctx)
	case l, ok := <-c.lines:
		if !ok {
			return "", ErrClosed
		}
		return l, nil
	}
}

func (c *Console) Print(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprint(c.out, a...)
}

func (c *Console) Println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, a...)
}

func (c *Console) Printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, a...)
}
