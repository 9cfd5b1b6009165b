package interview

import (
	"math"
	"time"
)

// ClampScore приводит оценку к диапазону 0..10
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxQuestionScore {
		return MaxQuestionScore
	}
	return score
}

// TotalScore сумма оценок по всем ответам
func TotalScore(evaluations []AnswerEvaluation) int {
	total := 0
	for _, e := range evaluations {
		total += e.Score
	}
	return total
}

// Percentage round(100 * total / (10 * questions)), половины округляются вверх
func Percentage(totalScore, totalQuestions int) int {
	if totalQuestions <= 0 {
		return 0
	}
	maxScore := MaxQuestionScore * totalQuestions
	return int(math.Floor(float64(totalScore)*100/float64(maxScore) + 0.5))
}

// BuildSummary собирает итог сессии из вопросов, ответов и оценок.
// Длины answers и evaluations должны совпадать с questions.
func BuildSummary(sessionID, studentID, studentName string, round Round, questions []GeneratedQuestion, answers []string, evaluations []AnswerEvaluation, overall OverallFeedback, duration time.Duration) SessionSummary {
	results := make([]QuestionResult, len(questions))
	for i, q := range questions {
		r := QuestionResult{Question: q.Question, Strengths: []string{}, Improvements: []string{}}
		if i < len(answers) {
			r.Answer = answers[i]
		}
		if i < len(evaluations) {
			e := evaluations[i]
			r.Score = e.Score
			r.Feedback = e.Feedback
			if e.Strengths != nil {
				r.Strengths = e.Strengths
			}
			if e.Improvements != nil {
				r.Improvements = e.Improvements
			}
		}
		results[i] = r
	}

	if studentName == "" {
		studentName = "Student"
	}
	tips := overall.Tips
	if tips == nil {
		tips = []string{}
	}

	total := TotalScore(evaluations)
	return SessionSummary{
		SessionID:       sessionID,
		StudentID:       studentID,
		StudentName:     studentName,
		RoundType:       round,
		TotalQuestions:  len(questions),
		TotalScore:      total,
		MaxScore:        MaxQuestionScore * len(questions),
		Percentage:      Percentage(total, len(questions)),
		PerQuestion:     results,
		OverallFeedback: overall.OverallFeedback,
		Tips:            tips,
		DurationSeconds: int(math.Round(duration.Seconds())),
	}
}
