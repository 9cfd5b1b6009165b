// Package session runs one practice interview at a time: it asks generated
// questions aloud, listens for spoken answers, has them evaluated and
// produces the final summary that is handed to the store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"practice-interview/internal/interview"
	"practice-interview/internal/metrics"
	"practice-interview/internal/speech"
)

var errNoQuestions = errors.New("no questions generated")

const (
	completionLine = "The interview is now complete. Let me prepare your feedback."
	persistTimeout = 15 * time.Second
)

// Questioner источник вопросов и оценок. Ошибку возвращает только генерация вопросов.
type Questioner interface {
	GenerateQuestions(ctx context.Context, round interview.Round, count int) ([]interview.GeneratedQuestion, error)
	EvaluateAnswer(ctx context.Context, question, answer string, round interview.Round) interview.AnswerEvaluation
	GenerateOverallFeedback(ctx context.Context, round interview.Round, results []interview.QuestionResult) interview.OverallFeedback
}

// Sink принимает итог сессии ровно один раз
type Sink interface {
	SaveSession(ctx context.Context, summary interview.SessionSummary) (string, error)
}

// Options тайминги и размер сессии
type Options struct {
	QuestionCount  int
	SilenceTimeout time.Duration
	MutedAskDelay  time.Duration
	FeedbackDelay  time.Duration
}

// DefaultOptions значения по умолчанию
func DefaultOptions() Options {
	return Options{
		QuestionCount:  5,
		SilenceTimeout: 4 * time.Second,
		MutedAskDelay:  1500 * time.Millisecond,
		FeedbackDelay:  2 * time.Second,
	}
}

// Controller машина состояний одной сессии. Start выполняет интервью целиком
// в вызывающей горутине; Stop, SetMuted и Snapshot можно вызывать из других.
type Controller struct {
	questioner Questioner
	speech     speech.Adapter
	sink       Sink
	metrics    *metrics.Metrics
	opts       Options
	onChange   func(Snapshot)
	now        func() time.Time

	mu          sync.Mutex
	state       State
	run         uint64
	cancel      context.CancelFunc
	muted       bool
	sessionID   string
	studentID   string
	studentName string
	round       interview.Round
	startedAt   time.Time
	questions   []interview.GeneratedQuestion
	answers     []string
	evaluations []interview.AnswerEvaluation
	index       int
	interim     string
	summary     *interview.SessionSummary
}

// NewController sink и m могут быть nil
func NewController(q Questioner, adapter speech.Adapter, sink Sink, m *metrics.Metrics, opts Options) *Controller {
	if opts.QuestionCount <= 0 {
		opts.QuestionCount = DefaultOptions().QuestionCount
	}
	return &Controller{
		questioner: q,
		speech:     adapter,
		sink:       sink,
		metrics:    m,
		opts:       opts,
		now:        time.Now,
		state:      StateIdle,
	}
}

// OnChange наблюдатель вызывается после каждого изменения состояния, вне блокировки
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// SetMuted при включении сразу обрывает текущую речь
func (c *Controller) SetMuted(muted bool) {
	c.mu.Lock()
	c.muted = muted
	c.mu.Unlock()

	if muted {
		c.speech.StopSpeaking()
	}
	c.notify()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:          c.state,
		SessionID:      c.sessionID,
		Round:          c.round,
		Muted:          c.muted,
		QuestionIndex:  c.index,
		TotalQuestions: len(c.questions),
		Answers:        append([]string{}, c.answers...),
		Evaluations:    append([]interview.AnswerEvaluation{}, c.evaluations...),
		Interim:        c.interim,
		Summary:        c.summary,
	}
	if c.index < len(c.questions) {
		snap.CurrentQuestion = c.questions[c.index].Question
	}
	if n := len(c.evaluations); n > 0 {
		latest := c.evaluations[n-1]
		snap.LatestEvaluation = &latest
	}
	return snap
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (c *Controller) clearLocked() {
	c.sessionID = ""
	c.studentID = ""
	c.studentName = ""
	c.round = ""
	c.questions = nil
	c.answers = nil
	c.evaluations = nil
	c.index = 0
	c.interim = ""
	c.summary = nil
}

// advance меняет состояние текущего запуска. ErrStopped означает, что запуск
// уже остановлен и дальше ничего делать нельзя.
func (c *Controller) advance(run uint64, to State, mutate func()) error {
	c.mu.Lock()
	if c.run != run {
		c.mu.Unlock()
		return ErrStopped
	}
	if !canTransition(c.state, to) {
		from := c.state
		c.mu.Unlock()
		return &TransitionError{From: from, To: to}
	}
	if mutate != nil {
		mutate()
	}
	c.state = to
	c.mu.Unlock()

	c.notify()
	return nil
}

// interrupted проверка после каждой точки ожидания
func (c *Controller) interrupted(ctx context.Context, run uint64) error {
	c.mu.Lock()
	stale := c.run != run
	c.mu.Unlock()
	if stale {
		return ErrStopped
	}
	if ctx.Err() != nil {
		c.Stop()
		return ErrStopped
	}
	return nil
}

// Start запускает интервью и блокируется до его завершения или остановки
func (c *Controller) Start(ctx context.Context, round interview.Round, studentID, studentName string) (*interview.SessionSummary, error) {
	if !c.speech.SpeechInputSupported() {
		return nil, ErrSpeechInputUnsupported
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil, ErrSessionActive
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.run++
	run := c.run
	c.cancel = cancel
	c.clearLocked()
	c.sessionID = uuid.New().String()
	c.studentID = studentID
	c.studentName = studentName
	c.round = round
	c.startedAt = c.now()
	c.state = StatePreparing
	c.mu.Unlock()
	defer cancel()

	c.notify()
	c.metrics.IncrementSessionsStarted()
	log.Printf("Сессия: старт раунда %s для %s", round, studentID)

	summary, err := c.runInterview(runCtx, run, round)
	if err != nil {
		var transErr *TransitionError
		if errors.As(err, &transErr) {
			log.Printf("Сессия: %v", err)
			c.Stop()
		}
		return nil, err
	}
	return summary, nil
}

func (c *Controller) runInterview(ctx context.Context, run uint64, round interview.Round) (*interview.SessionSummary, error) {
	questions, err := c.questioner.GenerateQuestions(ctx, round, c.opts.QuestionCount)
	if err := c.interrupted(ctx, run); err != nil {
		return nil, err
	}
	if err == nil && len(questions) == 0 {
		err = errNoQuestions
	}
	if err != nil {
		log.Printf("Сессия: не удалось получить вопросы: %v", err)
		if advErr := c.advance(run, StateIdle, c.clearLocked); advErr != nil {
			return nil, advErr
		}
		return nil, err
	}

	if err := c.advance(run, StateAsking, func() {
		c.questions = questions
		c.index = 0
	}); err != nil {
		return nil, err
	}

	for i, q := range questions {
		if i > 0 {
			idx := i
			if err := c.advance(run, StateAsking, func() { c.index = idx }); err != nil {
				return nil, err
			}
		}
		if err := c.askQuestion(ctx, run, round, i, q); err != nil {
			return nil, err
		}

		answer, err := c.listenForAnswer(ctx, run)
		if err != nil {
			return nil, err
		}

		if err := c.evaluate(ctx, run, round, q, answer); err != nil {
			return nil, err
		}
	}

	return c.complete(ctx, run, round)
}

func (c *Controller) askQuestion(ctx context.Context, run uint64, r interview.Round, i int, q interview.GeneratedQuestion) error {
	c.metrics.IncrementQuestionsAsked()

	if c.Muted() {
		_ = sleep(ctx, c.opts.MutedAskDelay)
	} else {
		c.speech.Speak(ctx, questionIntro(r, i)+q.Question)
	}
	if err := c.interrupted(ctx, run); err != nil {
		return err
	}
	return c.advance(run, StateListening, func() { c.interim = "" })
}

func questionIntro(r interview.Round, i int) string {
	if i == 0 {
		return fmt.Sprintf("Let's begin your %s interview. Here's your first question. ", r)
	}
	return fmt.Sprintf("Question %d. ", i+1)
}

func (c *Controller) listenForAnswer(ctx context.Context, run uint64) (string, error) {
	transcript := c.speech.Listen(ctx, c.opts.SilenceTimeout, func(text string) {
		c.mu.Lock()
		current := c.run == run
		if current {
			c.interim = text
		}
		c.mu.Unlock()
		if current {
			c.notify()
		}
	})
	if err := c.interrupted(ctx, run); err != nil {
		return "", err
	}

	answer := transcript
	if answer == "" {
		answer = interview.NoAnswer
		c.metrics.IncrementAnswersEmpty()
	}
	// ответ записывается до оценки, даже пустой
	if err := c.advance(run, StateEvaluating, func() {
		c.answers = append(c.answers, answer)
		c.interim = ""
	}); err != nil {
		return "", err
	}
	return answer, nil
}

func (c *Controller) evaluate(ctx context.Context, run uint64, r interview.Round, q interview.GeneratedQuestion, answer string) error {
	evaluation := c.questioner.EvaluateAnswer(ctx, q.Question, answer, r)
	if err := c.interrupted(ctx, run); err != nil {
		return err
	}

	evaluation.Score = interview.ClampScore(evaluation.Score)
	if answer == interview.NoAnswer && evaluation.Score > 1 {
		evaluation.Score = 1
	}

	if err := c.advance(run, StateFeedback, func() {
		c.evaluations = append(c.evaluations, evaluation)
	}); err != nil {
		return err
	}

	if !c.Muted() {
		c.speech.Speak(ctx, fmt.Sprintf("Score: %d out of 10. %s", evaluation.Score, evaluation.Feedback))
		if err := c.interrupted(ctx, run); err != nil {
			return err
		}
	}
	_ = sleep(ctx, c.opts.FeedbackDelay)
	return c.interrupted(ctx, run)
}

func (c *Controller) complete(ctx context.Context, run uint64, r interview.Round) (*interview.SessionSummary, error) {
	if err := c.advance(run, StateCompleting, nil); err != nil {
		return nil, err
	}
	if !c.Muted() {
		c.speech.Speak(ctx, completionLine)
		if err := c.interrupted(ctx, run); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	sessionID, studentID, studentName := c.sessionID, c.studentID, c.studentName
	questions := c.questions
	answers := append([]string{}, c.answers...)
	evaluations := append([]interview.AnswerEvaluation{}, c.evaluations...)
	startedAt := c.startedAt
	c.mu.Unlock()

	results := interview.BuildSummary(sessionID, studentID, studentName, r, questions, answers, evaluations, interview.OverallFeedback{}, 0).PerQuestion
	overall := c.questioner.GenerateOverallFeedback(ctx, r, results)
	if err := c.interrupted(ctx, run); err != nil {
		return nil, err
	}

	summary := interview.BuildSummary(sessionID, studentID, studentName, r, questions, answers, evaluations, overall, c.now().Sub(startedAt))
	if err := c.advance(run, StateCompleted, func() {
		c.summary = &summary
		c.interim = ""
	}); err != nil {
		return nil, err
	}
	c.metrics.IncrementSessionsCompleted()
	log.Printf("Сессия %s завершена: %d/%d (%d%%)", summary.SessionID, summary.TotalScore, summary.MaxScore, summary.Percentage)

	c.persist(ctx, summary)
	return &summary, nil
}

// persist состояние уже completed, ошибка только логируется
func (c *Controller) persist(ctx context.Context, summary interview.SessionSummary) {
	if c.sink == nil {
		log.Printf("Сессия %s: хранилище не настроено, результат не сохранен", summary.SessionID)
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	id, err := c.sink.SaveSession(ctx, summary)
	if err != nil {
		c.metrics.IncrementPersistFailures()
		log.Printf("Сессия %s: ошибка сохранения: %v", summary.SessionID, err)
		return
	}
	log.Printf("Сессия %s сохранена", id)
}

// Stop прерывает сессию из любого состояния. Речь освобождается до того,
// как станет видно состояние idle. Повторный вызов безопасен.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.run++
	stopRun := c.run
	cancel := c.cancel
	c.cancel = nil
	prev := c.state
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.speech.Cleanup()

	c.mu.Lock()
	if c.run == stopRun {
		c.clearLocked()
		c.state = StateIdle
	}
	c.mu.Unlock()

	if prev != StateIdle && prev != StateCompleted {
		c.metrics.IncrementSessionsAborted()
		log.Printf("Сессия прервана в состоянии %s", prev)
	}
	c.notify()
}

// Reset из completed обратно в idle: "еще раз" или "в меню"
func (c *Controller) Reset() error {
	c.mu.Lock()
	if c.state != StateCompleted {
		c.mu.Unlock()
		return ErrNotCompleted
	}
	c.clearLocked()
	c.state = StateIdle
	c.mu.Unlock()

	c.notify()
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
