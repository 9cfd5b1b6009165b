package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"practice-interview/internal/config"
	"practice-interview/internal/interview"
	"practice-interview/internal/interviewer"
	"practice-interview/internal/session"
)

type stubQuestioner struct {
	err error
}

func (s *stubQuestioner) GenerateQuestions(ctx context.Context, round interview.Round, count int) ([]interview.GeneratedQuestion, error) {
	if s.err != nil {
		return nil, s.err
	}
	qs := make([]interview.GeneratedQuestion, count)
	for i := range qs {
		qs[i] = interview.GeneratedQuestion{Question: fmt.Sprintf("%s question %d?", round, i+1)}
	}
	return qs, nil
}

func (s *stubQuestioner) EvaluateAnswer(ctx context.Context, question, answer string, round interview.Round) interview.AnswerEvaluation {
	return interview.AnswerEvaluation{Score: 7, Feedback: "Clear answer.", Strengths: []string{}, Improvements: []string{}}
}

func (s *stubQuestioner) GenerateOverallFeedback(ctx context.Context, round interview.Round, results []interview.QuestionResult) interview.OverallFeedback {
	return interview.OverallFeedback{OverallFeedback: "Good session.", Tips: []string{"Keep going"}}
}

type wsMessage struct {
	Type     string                    `json:"type"`
	ID       int64                     `json:"id"`
	Text     string                    `json:"text"`
	Lang     string                    `json:"lang"`
	Message  string                    `json:"message"`
	Snapshot *session.Snapshot         `json:"snapshot"`
	Summary  *interview.SessionSummary `json:"summary"`
}

func fastPractice() *config.Config {
	cfg := config.Default()
	cfg.PracticeConfig.QuestionCount = 2
	cfg.PracticeConfig.FeedbackDelayMs = 0
	cfg.PracticeConfig.MutedAskDelayMs = 0
	cfg.Speech.SilenceTimeoutMs = 50
	cfg.Speech.GraceExtraMs = 1000
	cfg.Speech.SpeakTimeoutMs = 2000
	return cfg
}

func dialPractice(t *testing.T, deps Deps) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewRouter(deps))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/practice?student=st-1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg map[string]interface{}) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %v: %v", msg["type"], err)
	}
}

// readUntil читает сообщения, пропуская все, кроме нужного типа
func readUntil(t *testing.T, conn *websocket.Conn, want string) wsMessage {
	t.Helper()
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", want, err)
		}
		if msg.Type == want {
			return msg
		}
	}
}

func TestPracticeSocket_FullSession(t *testing.T) {
	store := &memStore{}
	conn := dialPractice(t, Deps{Questioner: &stubQuestioner{}, Store: store, Practice: fastPractice()})

	send(t, conn, map[string]interface{}{"type": "hello", "speechInput": true, "speechOutput": true})
	if msg := readUntil(t, conn, msgState); msg.Snapshot == nil || msg.Snapshot.State != session.StateIdle {
		t.Fatalf("expected idle snapshot, got %+v", msg)
	}
	send(t, conn, map[string]interface{}{"type": "start", "round": "HR"})

	var spoken []string
	answers := 0
	var summary *interview.SessionSummary
	for summary == nil {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		switch msg.Type {
		case "speak":
			if msg.Lang != "en-US" {
				t.Fatalf("unexpected language %q", msg.Lang)
			}
			spoken = append(spoken, msg.Text)
			send(t, conn, map[string]interface{}{"type": "speak.done", "id": msg.ID})
		case "listen.start":
			answers++
			send(t, conn, map[string]interface{}{"type": "speech.result", "transcript": "interim", "final": false})
			send(t, conn, map[string]interface{}{"type": "speech.result", "transcript": fmt.Sprintf("answer %d", answers), "final": true})
		case msgError:
			t.Fatalf("unexpected error message %q", msg.Message)
		case msgCompleted:
			summary = msg.Summary
		}
	}

	if answers != 2 {
		t.Fatalf("expected 2 listens, got %d", answers)
	}
	if summary.TotalScore != 14 || summary.Percentage != 70 || summary.StudentID != "st-1" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.PerQuestion[1].Answer != "answer 2" {
		t.Fatalf("unexpected answer %q", summary.PerQuestion[1].Answer)
	}
	if len(spoken) == 0 || !strings.HasPrefix(spoken[0], "Let's begin your HR interview.") {
		t.Fatalf("unexpected spoken lines %q", spoken)
	}
	if store.count() != 1 {
		t.Fatalf("expected one stored session, got %d", store.count())
	}

	send(t, conn, map[string]interface{}{"type": "reset"})
	if msg := readUntil(t, conn, msgState); msg.Snapshot.State != session.StateIdle {
		t.Fatalf("expected idle after reset, got %s", msg.Snapshot.State)
	}
}

func TestPracticeSocket_Errors(t *testing.T) {
	genErr := &interviewer.GenerationError{Round: interview.RoundTechnical, Err: errors.New("status 503")}
	conn := dialPractice(t, Deps{Questioner: &stubQuestioner{err: genErr}, Store: &memStore{}, Practice: fastPractice()})

	send(t, conn, map[string]interface{}{"type": "start", "round": "Technical"})
	if msg := readUntil(t, conn, msgError); !strings.Contains(msg.Message, "not supported") {
		t.Fatalf("unexpected error %q", msg.Message)
	}

	send(t, conn, map[string]interface{}{"type": "hello", "speechInput": true})
	send(t, conn, map[string]interface{}{"type": "start", "round": "Banana"})
	if msg := readUntil(t, conn, msgError); msg.Message != "Unknown interview round" {
		t.Fatalf("unexpected error %q", msg.Message)
	}

	send(t, conn, map[string]interface{}{"type": "start", "round": "Technical"})
	if msg := readUntil(t, conn, msgError); !strings.Contains(msg.Message, "Failed to generate questions") {
		t.Fatalf("unexpected error %q", msg.Message)
	}

	send(t, conn, map[string]interface{}{"type": "reset"})
	if msg := readUntil(t, conn, msgError); !strings.Contains(msg.Message, "not completed") {
		t.Fatalf("unexpected error %q", msg.Message)
	}

	send(t, conn, map[string]interface{}{"type": "dance"})
	if msg := readUntil(t, conn, msgError); !strings.Contains(msg.Message, "Unknown message type") {
		t.Fatalf("unexpected error %q", msg.Message)
	}
}

func TestPracticeSocket_RequiresIdentity(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Deps{Questioner: &stubQuestioner{}, Practice: fastPractice()}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/practice"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %+v", resp)
	}
}
