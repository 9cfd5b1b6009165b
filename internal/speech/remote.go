package speech

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Типы команд, которые RemoteEngine отправляет клиенту
const (
	CommandSpeak       = "speak"
	CommandSpeakCancel = "speak.cancel"
	CommandListenStart = "listen.start"
	CommandListenStop  = "listen.stop"
)

// Command команда для браузера, который владеет реальными движками речи
type Command struct {
	Type string  `json:"type"`
	ID   int64   `json:"id,omitempty"`
	Text string  `json:"text,omitempty"`
	Lang string  `json:"lang,omitempty"`
	Rate float64 `json:"rate,omitempty"`
}

// ErrSpeakTimeout клиент не подтвердил окончание фразы
var ErrSpeakTimeout = errors.New("speak acknowledgement timed out")

// RemoteEngine Synthesizer и Recognizer, которые работают через клиента
// (браузер с Web Speech API). Транспорт передает команды наружу и вызывает
// SpeakDone/PushResult/EndRecognition при входящих событиях.
type RemoteEngine struct {
	send         func(Command) error
	speakTimeout time.Duration

	mu           sync.Mutex
	inputOK      bool
	outputOK     bool
	nextID       int64
	pendingSpeak map[int64]chan error
	results      chan Result
}

func NewRemoteEngine(send func(Command) error, speakTimeout time.Duration) *RemoteEngine {
	return &RemoteEngine{
		send:         send,
		speakTimeout: speakTimeout,
		pendingSpeak: make(map[int64]chan error),
	}
}

// SetCapabilities вызывается, когда клиент сообщил, что у него есть
func (e *RemoteEngine) SetCapabilities(input, output bool) {
	e.mu.Lock()
	e.inputOK, e.outputOK = input, output
	e.mu.Unlock()
}

// InputSupported клиент умеет распознавать речь
func (e *RemoteEngine) InputSupported() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inputOK
}

// OutputSupported клиент умеет синтезировать речь
func (e *RemoteEngine) OutputSupported() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outputOK
}

// Synthesizer вид движка для синтеза
func (e *RemoteEngine) Synthesizer() Synthesizer { return remoteSynth{e} }

// Recognizer вид движка для распознавания
func (e *RemoteEngine) Recognizer() Recognizer { return remoteRecognizer{e} }

func (e *RemoteEngine) speak(ctx context.Context, u Utterance) error {
	done := make(chan error, 1)
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.pendingSpeak[id] = done
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.pendingSpeak, id)
		e.mu.Unlock()
	}()

	if err := e.send(Command{Type: CommandSpeak, ID: id, Text: u.Text, Lang: u.Lang, Rate: u.Rate}); err != nil {
		return fmt.Errorf("send speak: %w", err)
	}

	timer := time.NewTimer(e.speakTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		e.cancelSpeech()
		return ctx.Err()
	case <-timer.C:
		return ErrSpeakTimeout
	}
}

// SpeakDone подтверждение от клиента; errMsg непустой при ошибке синтеза
func (e *RemoteEngine) SpeakDone(id int64, errMsg string) {
	e.mu.Lock()
	done, ok := e.pendingSpeak[id]
	e.mu.Unlock()
	if !ok {
		return
	}

	var err error
	if errMsg != "" {
		err = errors.New(errMsg)
	}
	select {
	case done <- err:
	default:
	}
}

func (e *RemoteEngine) cancelSpeech() {
	e.mu.Lock()
	pending := len(e.pendingSpeak) > 0
	for _, done := range e.pendingSpeak {
		select {
		case done <- context.Canceled:
		default:
		}
	}
	e.mu.Unlock()

	if pending {
		if err := e.send(Command{Type: CommandSpeakCancel}); err != nil {
			log.Printf("speech: send speak.cancel: %v", err)
		}
	}
}

func (e *RemoteEngine) startRecognition(lang string) (<-chan Result, error) {
	e.stopRecognition()

	results := make(chan Result, 64)
	e.mu.Lock()
	e.results = results
	e.mu.Unlock()

	if err := e.send(Command{Type: CommandListenStart, Lang: lang}); err != nil {
		e.mu.Lock()
		if e.results == results {
			e.results = nil
			close(results)
		}
		e.mu.Unlock()
		return nil, fmt.Errorf("send listen.start: %w", err)
	}
	return results, nil
}

// PushResult результат распознавания от клиента
func (e *RemoteEngine) PushResult(r Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.results == nil {
		return
	}
	select {
	case e.results <- r:
	default:
		log.Printf("speech: recognition buffer full, dropping result")
	}
}

// EndRecognition клиент сообщил, что распознавание закончилось само
func (e *RemoteEngine) EndRecognition() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.results != nil {
		close(e.results)
		e.results = nil
	}
}

func (e *RemoteEngine) stopRecognition() {
	e.mu.Lock()
	results := e.results
	e.results = nil
	if results != nil {
		close(results)
	}
	e.mu.Unlock()

	if results != nil {
		if err := e.send(Command{Type: CommandListenStop}); err != nil {
			log.Printf("speech: send listen.stop: %v", err)
		}
	}
}

// Close снимает все ожидания, когда соединение закрыто
func (e *RemoteEngine) Close() {
	e.mu.Lock()
	e.inputOK, e.outputOK = false, false
	for _, done := range e.pendingSpeak {
		select {
		case done <- context.Canceled:
		default:
		}
	}
	if e.results != nil {
		close(e.results)
		e.results = nil
	}
	e.mu.Unlock()
}

type remoteSynth struct{ e *RemoteEngine }

func (s remoteSynth) Speak(ctx context.Context, u Utterance) error { return s.e.speak(ctx, u) }
func (s remoteSynth) Cancel()                                      { s.e.cancelSpeech() }
func (s remoteSynth) Supported() bool                              { return s.e.OutputSupported() }

type remoteRecognizer struct{ e *RemoteEngine }

func (r remoteRecognizer) Start(_ context.Context, lang string) (<-chan Result, error) {
	return r.e.startRecognition(lang)
}
func (r remoteRecognizer) Stop()           { r.e.stopRecognition() }
func (r remoteRecognizer) Supported() bool { return r.e.InputSupported() }
