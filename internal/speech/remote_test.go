package speech

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestEngine(timeout time.Duration) (*RemoteEngine, chan Command) {
	cmds := make(chan Command, 32)
	e := NewRemoteEngine(func(c Command) error {
		cmds <- c
		return nil
	}, timeout)
	e.SetCapabilities(true, true)
	return e, cmds
}

func nextCommand(t *testing.T, cmds chan Command) Command {
	t.Helper()
	select {
	case c := <-cmds:
		return c
	case <-time.After(time.Second):
		t.Fatal("no command sent")
		return Command{}
	}
}

func TestRemoteSpeak_Acknowledged(t *testing.T) {
	e, cmds := newTestEngine(time.Second)
	errc := make(chan error, 1)
	go func() {
		errc <- e.Synthesizer().Speak(context.Background(), Utterance{Text: "hi", Lang: "en-US", Rate: 0.95})
	}()

	c := nextCommand(t, cmds)
	if c.Type != CommandSpeak || c.Text != "hi" || c.ID == 0 {
		t.Fatalf("unexpected command %+v", c)
	}
	e.SpeakDone(c.ID, "")
	if err := <-errc; err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestRemoteSpeak_ClientError(t *testing.T) {
	e, cmds := newTestEngine(time.Second)
	errc := make(chan error, 1)
	go func() { errc <- e.Synthesizer().Speak(context.Background(), Utterance{Text: "hi"}) }()

	c := nextCommand(t, cmds)
	e.SpeakDone(c.ID+100, "")
	e.SpeakDone(c.ID, "synthesis-failed")
	if err := <-errc; err == nil || err.Error() != "synthesis-failed" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRemoteSpeak_Timeout(t *testing.T) {
	e, _ := newTestEngine(20 * time.Millisecond)
	err := e.Synthesizer().Speak(context.Background(), Utterance{Text: "hi"})
	if !errors.Is(err, ErrSpeakTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestRemoteSpeak_ContextCancelSendsCancel(t *testing.T) {
	e, cmds := newTestEngine(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- e.Synthesizer().Speak(ctx, Utterance{Text: "hi"}) }()

	nextCommand(t, cmds)
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if c := nextCommand(t, cmds); c.Type != CommandSpeakCancel {
		t.Fatalf("expected speak.cancel, got %+v", c)
	}
}

func TestRemoteRecognition(t *testing.T) {
	e, cmds := newTestEngine(time.Second)
	rec := e.Recognizer()

	results, err := rec.Start(context.Background(), "en-US")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if c := nextCommand(t, cmds); c.Type != CommandListenStart || c.Lang != "en-US" {
		t.Fatalf("unexpected command %+v", c)
	}

	e.PushResult(Result{Transcript: "hello", Final: true})
	if r := <-results; r.Transcript != "hello" || !r.Final {
		t.Fatalf("unexpected result %+v", r)
	}

	e.EndRecognition()
	if _, ok := <-results; ok {
		t.Fatalf("expected closed channel")
	}

	// после окончания результаты игнорируются, Stop ничего не шлет
	e.PushResult(Result{Transcript: "late"})
	rec.Stop()
	select {
	case c := <-cmds:
		t.Fatalf("unexpected command %+v", c)
	default:
	}
}

func TestRemoteRecognition_StopSendsListenStop(t *testing.T) {
	e, cmds := newTestEngine(time.Second)
	rec := e.Recognizer()
	results, _ := rec.Start(context.Background(), "en-US")
	nextCommand(t, cmds)

	rec.Stop()
	if c := nextCommand(t, cmds); c.Type != CommandListenStop {
		t.Fatalf("expected listen.stop, got %+v", c)
	}
	if _, ok := <-results; ok {
		t.Fatalf("expected closed channel")
	}
	rec.Stop()
}

func TestRemoteEngine_Close(t *testing.T) {
	e, cmds := newTestEngine(time.Second)
	errc := make(chan error, 1)
	go func() { errc <- e.Synthesizer().Speak(context.Background(), Utterance{Text: "hi"}) }()
	nextCommand(t, cmds)

	e.Close()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if e.InputSupported() || e.OutputSupported() {
		t.Fatalf("capabilities should be cleared")
	}
}
