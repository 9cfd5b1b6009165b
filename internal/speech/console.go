package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ConsoleEngine движок речи для терминала: синтез печатает текст, распознавание
// читает строки. Пустая строка означает "ответ закончен".
type ConsoleEngine struct {
	in  io.Reader
	out io.Writer

	pumpOnce sync.Once
	lines    chan string

	mu      sync.Mutex
	results chan Result
	done    chan struct{}
}

func NewConsoleEngine(in io.Reader, out io.Writer) *ConsoleEngine {
	return &ConsoleEngine{in: in, out: out, lines: make(chan string)}
}

func (c *ConsoleEngine) Speak(ctx context.Context, u Utterance) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	_, err := fmt.Fprintf(c.out, "🔊 %s\n", u.Text)
	return err
}

func (c *ConsoleEngine) Cancel() {}

func (c *ConsoleEngine) Supported() bool { return true }

// startPump один читатель на весь процесс, иначе строки теряются между попытками
func (c *ConsoleEngine) startPump() {
	c.pumpOnce.Do(func() {
		go func() {
			defer close(c.lines)
			scanner := bufio.NewScanner(c.in)
			for scanner.Scan() {
				c.lines <- scanner.Text()
			}
		}()
	})
}

func (c *ConsoleEngine) Start(ctx context.Context, lang string) (<-chan Result, error) {
	c.startPump()
	c.Stop()

	results := make(chan Result, 16)
	done := make(chan struct{})
	c.mu.Lock()
	c.results, c.done = results, done
	c.mu.Unlock()

	fmt.Fprintln(c.out, "🎤 Ваш ответ (пустая строка - закончить):")

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case line, ok := <-c.lines:
				if !ok {
					c.deliver(done, Result{Err: ErrAudioCapture})
					return
				}
				line = strings.TrimSpace(line)
				if line == "" {
					c.deliver(done, Result{Err: ErrNoSpeech})
					continue
				}
				c.deliver(done, Result{Transcript: line, Final: true})
			}
		}
	}()

	return results, nil
}

func (c *ConsoleEngine) deliver(done chan struct{}, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != done {
		return
	}
	select {
	case c.results <- r:
	default:
	}
}

func (c *ConsoleEngine) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		close(c.done)
		close(c.results)
		c.done, c.results = nil, nil
	}
}
