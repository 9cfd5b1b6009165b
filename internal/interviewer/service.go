package interviewer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"practice-interview/internal/api"
	"practice-interview/internal/interview"
	"practice-interview/internal/metrics"
	"practice-interview/internal/prompts"
)

// GenerationError вопросы не удалось получить; сессия без вопросов невозможна
type GenerationError struct {
	Round interview.Round
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate %s interview questions: %v", e.Round, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

var errNoQuestions = errors.New("model returned no questions")

// evaluationPayload модель иногда ставит дробные оценки
type evaluationPayload struct {
	Score        float64  `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// FallbackEvaluation подставляется, если ответ не удалось оценить
func FallbackEvaluation() interview.AnswerEvaluation {
	return interview.AnswerEvaluation{
		Score:        0,
		Feedback:     "Could not evaluate the answer.",
		Strengths:    []string{},
		Improvements: []string{"Try to provide a clearer answer"},
	}
}

// FallbackOverallFeedback подставляется, если итоговый отзыв не удалось получить
func FallbackOverallFeedback() interview.OverallFeedback {
	return interview.OverallFeedback{
		OverallFeedback: "Practice makes perfect! Keep working on your interview skills.",
		Tips:            []string{"Practice more frequently", "Review fundamentals", "Stay calm and confident"},
	}
}

// Service представляет клиент вопросов и оценок
type Service struct {
	generator api.Generator
	metrics   *metrics.Metrics
}

// New создает новый сервис интервьюера
func New(generator api.Generator, m *metrics.Metrics) *Service {
	return &Service{
		generator: generator,
		metrics:   m,
	}
}

// call делает запрос к модели и декодирует JSON ответа в v
func (s *Service) call(ctx context.Context, prompt string, v interface{}) error {
	text, err := s.generator.Generate(ctx, prompt)
	s.metrics.IncrementAPICall(err == nil)
	if err != nil {
		return err
	}
	return api.ExtractJSON(text, v)
}

// GenerateQuestions генерирует count вопросов для раунда
func (s *Service) GenerateQuestions(ctx context.Context, round interview.Round, count int) ([]interview.GeneratedQuestion, error) {
	var questions []interview.GeneratedQuestion
	if err := s.call(ctx, prompts.GenerateQuestionsPrompt(round, count), &questions); err != nil {
		log.Printf("Error generating questions: %v", err)
		return nil, &GenerationError{Round: round, Err: err}
	}

	// пустые вопросы отбрасываем
	valid := questions[:0]
	for _, q := range questions {
		q.Question = strings.TrimSpace(q.Question)
		if q.Question == "" {
			continue
		}
		if q.ExpectedKeyPoints == nil {
			q.ExpectedKeyPoints = []string{}
		}
		valid = append(valid, q)
	}

	if len(valid) == 0 {
		return nil, &GenerationError{Round: round, Err: errNoQuestions}
	}
	if len(valid) > count {
		valid = valid[:count]
	}

	return valid, nil
}

// EvaluateAnswer оценивает ответ; при любой ошибке возвращает FallbackEvaluation
func (s *Service) EvaluateAnswer(ctx context.Context, question, answer string, round interview.Round) interview.AnswerEvaluation {
	var payload evaluationPayload
	if err := s.call(ctx, prompts.EvaluateAnswerPrompt(question, answer, round), &payload); err != nil {
		log.Printf("Error evaluating answer: %v", err)
		s.metrics.IncrementEvaluationFallbacks()
		return FallbackEvaluation()
	}

	evaluation := interview.AnswerEvaluation{
		Score:        interview.ClampScore(int(math.Round(payload.Score))),
		Feedback:     payload.Feedback,
		Strengths:    payload.Strengths,
		Improvements: payload.Improvements,
	}
	if evaluation.Strengths == nil {
		evaluation.Strengths = []string{}
	}
	if evaluation.Improvements == nil {
		evaluation.Improvements = []string{}
	}

	return evaluation
}

// GenerateOverallFeedback создает итоговый отзыв; при ошибке возвращает FallbackOverallFeedback
func (s *Service) GenerateOverallFeedback(ctx context.Context, round interview.Round, results []interview.QuestionResult) interview.OverallFeedback {
	var feedback interview.OverallFeedback
	if err := s.call(ctx, prompts.OverallFeedbackPrompt(round, results), &feedback); err != nil {
		log.Printf("Error generating overall feedback: %v", err)
		return FallbackOverallFeedback()
	}

	if strings.TrimSpace(feedback.OverallFeedback) == "" {
		return FallbackOverallFeedback()
	}
	if feedback.Tips == nil {
		feedback.Tips = []string{}
	}

	return feedback
}
