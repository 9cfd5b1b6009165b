package session

import (
	"errors"
	"fmt"

	"practice-interview/internal/interview"
)

// State состояние сессии
type State string

const (
	StateIdle       State = "idle"
	StatePreparing  State = "preparing"
	StateAsking     State = "asking"
	StateListening  State = "listening"
	StateEvaluating State = "evaluating"
	StateFeedback   State = "feedback"
	StateCompleting State = "completing"
	StateCompleted  State = "completed"
)

var (
	ErrSessionActive          = errors.New("session already in progress")
	ErrNotCompleted           = errors.New("session is not completed")
	ErrSpeechInputUnsupported = errors.New("speech input is not supported")
	ErrStopped                = errors.New("session stopped")
)

// transitions разрешенные переходы; в idle можно попасть из любого
// состояния через Stop, это проверяется отдельно
var transitions = map[State][]State{
	StateIdle:       {StatePreparing},
	StatePreparing:  {StateAsking, StateIdle},
	StateAsking:     {StateListening},
	StateListening:  {StateEvaluating},
	StateEvaluating: {StateFeedback},
	StateFeedback:   {StateAsking, StateCompleting},
	StateCompleting: {StateCompleted},
	StateCompleted:  {StateIdle},
}

// TransitionError попытка недопустимого перехода, ошибка в самом контроллере
type TransitionError struct {
	From, To State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("недопустимый переход %s -> %s", e.From, e.To)
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Snapshot то, что видит слой представления
type Snapshot struct {
	State            State                        `json:"state"`
	SessionID        string                       `json:"sessionId,omitempty"`
	Round            interview.Round              `json:"round,omitempty"`
	Muted            bool                         `json:"muted"`
	QuestionIndex    int                          `json:"questionIndex"`
	TotalQuestions   int                          `json:"totalQuestions"`
	CurrentQuestion  string                       `json:"currentQuestion,omitempty"`
	Answers          []string                     `json:"answers"`
	Evaluations      []interview.AnswerEvaluation `json:"evaluations"`
	Interim          string                       `json:"interim,omitempty"`
	LatestEvaluation *interview.AnswerEvaluation  `json:"latestEvaluation,omitempty"`
	Summary          *interview.SessionSummary    `json:"summary,omitempty"`
}
