// Package speech wraps speech output and speech input engines and turns
// continuous recognition into one answer per question using silence timers.
package speech

import (
	"context"
	"time"
)

const (
	// Language тег языка для синтеза и распознавания
	Language = "en-US"
	// DefaultRate скорость синтеза
	DefaultRate = 0.95
	// DefaultGraceExtra добавляется к таймауту тишины, пока человек еще не начал говорить
	DefaultGraceExtra = 5 * time.Second
)

// Коды ошибок распознавания
const (
	ErrNoSpeech     = "no-speech"
	ErrAborted      = "aborted"
	ErrAudioCapture = "audio-capture"
	ErrNotAllowed   = "not-allowed"
	ErrNetwork      = "network"
)

// Adapter то, чем сессия пользуется для речи. Ни один метод не возвращает
// ошибку: сбой речи никогда не останавливает интервью.
type Adapter interface {
	// Speak отменяет текущую речь и озвучивает text; возвращается после окончания
	Speak(ctx context.Context, text string)
	// Listen возвращает итоговый текст ответа, "" если речи не было
	Listen(ctx context.Context, silenceTimeout time.Duration, onInterim func(string)) string
	StopListening()
	StopSpeaking()
	Cleanup()
	SpeechInputSupported() bool
	SpeechOutputSupported() bool
}

// Utterance одна фраза для синтеза
type Utterance struct {
	Text string
	Lang string
	Rate float64
}

// Synthesizer движок синтеза речи. Speak блокируется до конца воспроизведения.
type Synthesizer interface {
	Speak(ctx context.Context, u Utterance) error
	Cancel()
	Supported() bool
}

// Result промежуточный или финальный результат распознавания, либо ошибка
type Result struct {
	Transcript string
	Final      bool
	Err        string
}

// Recognizer движок непрерывного распознавания. Канал закрывается, когда
// распознавание закончилось. Stop должен быть идемпотентным.
type Recognizer interface {
	Start(ctx context.Context, lang string) (<-chan Result, error)
	Stop()
	Supported() bool
}
