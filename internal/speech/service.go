package speech

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
)

// maxRestarts сколько раз перезапускать распознавание, закончившееся без текста
const maxRestarts = 5

// Service реализация Adapter поверх движков синтеза и распознавания
type Service struct {
	synth      Synthesizer
	rec        Recognizer
	lang       string
	rate       float64
	graceExtra time.Duration

	mu           sync.Mutex
	speakGen     uint64
	speakCancel  context.CancelFunc
	listenGen    uint64
	listenCancel context.CancelFunc
}

// Option настройка Service
type Option func(*Service)

func WithLanguage(lang string) Option {
	return func(s *Service) { s.lang = lang }
}

func WithRate(rate float64) Option {
	return func(s *Service) { s.rate = rate }
}

func WithGraceExtra(d time.Duration) Option {
	return func(s *Service) { s.graceExtra = d }
}

// NewService synth и rec могут быть nil, тогда соответствующая сторона не поддерживается
func NewService(synth Synthesizer, rec Recognizer, opts ...Option) *Service {
	s := &Service{
		synth:      synth,
		rec:        rec,
		lang:       Language,
		rate:       DefaultRate,
		graceExtra: DefaultGraceExtra,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) SpeechInputSupported() bool {
	return s.rec != nil && s.rec.Supported()
}

func (s *Service) SpeechOutputSupported() bool {
	return s.synth != nil && s.synth.Supported()
}

// Speak ошибки синтеза только логируются, фраза считается произнесенной
func (s *Service) Speak(ctx context.Context, text string) {
	if !s.SpeechOutputSupported() || strings.TrimSpace(text) == "" {
		return
	}
	s.StopSpeaking()

	speakCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.speakGen++
	gen := s.speakGen
	s.speakCancel = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		if s.speakGen == gen {
			s.speakCancel = nil
		}
		s.mu.Unlock()
	}()

	err := s.synth.Speak(speakCtx, Utterance{Text: text, Lang: s.lang, Rate: s.rate})
	if err != nil && speakCtx.Err() == nil {
		log.Printf("speech: synthesis error: %v", err)
	}
}

func (s *Service) StopSpeaking() {
	s.mu.Lock()
	cancel := s.speakCancel
	s.speakCancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if s.synth != nil {
		s.synth.Cancel()
	}
}

// Listen каждый результат сбрасывает таймер тишины; до первого результата
// действует более длинный таймер ожидания (silenceTimeout + graceExtra)
func (s *Service) Listen(ctx context.Context, silenceTimeout time.Duration, onInterim func(string)) string {
	if !s.SpeechInputSupported() {
		return ""
	}
	s.StopListening()

	listenCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.listenGen++
	gen := s.listenGen
	s.listenCancel = cancel
	s.mu.Unlock()
	defer s.finishListening(gen, cancel)

	results, err := s.rec.Start(listenCtx, s.lang)
	if err != nil {
		log.Printf("speech: failed to start recognition: %v", err)
		return ""
	}

	var final strings.Builder
	interim := ""
	transcript := func() string { return strings.TrimSpace(final.String()) }

	grace := time.NewTimer(silenceTimeout + s.graceExtra)
	defer grace.Stop()
	var silence *time.Timer
	var silenceC <-chan time.Time
	defer func() {
		if silence != nil {
			silence.Stop()
		}
	}()

	restarts := 0
	for {
		select {
		case <-listenCtx.Done():
			return transcript()

		case <-grace.C:
			// сюда попадаем, только если речи так и не было
			return ""

		case <-silenceC:
			return transcript()

		case r, ok := <-results:
			if !ok {
				if listenCtx.Err() != nil || transcript() != "" || restarts >= maxRestarts {
					return transcript()
				}
				restarts++
				results, err = s.rec.Start(listenCtx, s.lang)
				if err != nil {
					log.Printf("speech: failed to restart recognition: %v", err)
					return transcript()
				}
				continue
			}

			if r.Err != "" {
				if r.Err == ErrAborted {
					continue
				}
				if r.Err != ErrNoSpeech {
					log.Printf("speech: recognition error: %s", r.Err)
				}
				return transcript()
			}

			grace.Stop()
			if r.Final {
				final.WriteString(r.Transcript)
				final.WriteString(" ")
				interim = ""
			} else {
				interim = r.Transcript
			}

			if silence == nil {
				silence = time.NewTimer(silenceTimeout)
			} else {
				if !silence.Stop() {
					select {
					case <-silence.C:
					default:
					}
				}
				silence.Reset(silenceTimeout)
			}
			silenceC = silence.C

			if onInterim != nil {
				onInterim(final.String() + interim)
			}
		}
	}
}

func (s *Service) finishListening(gen uint64, cancel context.CancelFunc) {
	cancel()
	s.mu.Lock()
	current := s.listenGen == gen
	if current {
		s.listenCancel = nil
	}
	s.mu.Unlock()

	if current {
		s.rec.Stop()
	}
}

func (s *Service) StopListening() {
	s.mu.Lock()
	cancel := s.listenCancel
	s.listenCancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if s.rec != nil {
		s.rec.Stop()
	}
}

// Cleanup освобождает оба движка, можно вызывать повторно
func (s *Service) Cleanup() {
	s.StopSpeaking()
	s.StopListening()
}
