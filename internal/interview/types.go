package interview

import (
	"fmt"
	"time"
)

// Round тип раунда практического интервью
type Round string

const (
	RoundTechnical Round = "Technical"
	RoundHR        Round = "HR"
	RoundAptitude  Round = "Aptitude"
)

// NoAnswer записывается вместо ответа, если речь не была распознана
const NoAnswer = "(No answer provided)"

// MaxQuestionScore максимальная оценка за один ответ
const MaxQuestionScore = 10

// Rounds возвращает все раунды в порядке отображения
func Rounds() []Round {
	return []Round{RoundTechnical, RoundHR, RoundAptitude}
}

// ParseRound проверяет строку и возвращает раунд
func ParseRound(s string) (Round, error) {
	for _, r := range Rounds() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("неизвестный раунд %q", s)
}

func (r Round) Title() string {
	switch r {
	case RoundTechnical:
		return "Technical Round"
	case RoundHR:
		return "HR Round"
	case RoundAptitude:
		return "Aptitude Round"
	}
	return string(r)
}

// GeneratedQuestion вопрос, сгенерированный AI в начале сессии
type GeneratedQuestion struct {
	Question          string   `json:"question"`
	ExpectedKeyPoints []string `json:"expectedKeyPoints"`
}

// AnswerEvaluation оценка одного ответа
type AnswerEvaluation struct {
	Score        int      `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// OverallFeedback итоговый отзыв по всей сессии
type OverallFeedback struct {
	OverallFeedback string   `json:"overallFeedback"`
	Tips            []string `json:"tips"`
}

// QuestionResult вопрос, ответ и его оценка в сохраненной сессии
type QuestionResult struct {
	Question     string   `json:"question" bson:"question" firestore:"question"`
	Answer       string   `json:"answer" bson:"answer" firestore:"answer"`
	Score        int      `json:"score" bson:"score" firestore:"score"`
	Feedback     string   `json:"feedback" bson:"feedback" firestore:"feedback"`
	Strengths    []string `json:"strengths" bson:"strengths" firestore:"strengths"`
	Improvements []string `json:"improvements" bson:"improvements" firestore:"improvements"`
}

// SessionSummary итог завершенной сессии, записывается один раз
type SessionSummary struct {
	SessionID       string           `json:"sessionId" bson:"_id" firestore:"sessionId"`
	StudentID       string           `json:"studentId" bson:"studentId" firestore:"studentId"`
	StudentName     string           `json:"studentName" bson:"studentName" firestore:"studentName"`
	RoundType       Round            `json:"roundType" bson:"roundType" firestore:"roundType"`
	TotalQuestions  int              `json:"totalQuestions" bson:"totalQuestions" firestore:"totalQuestions"`
	TotalScore      int              `json:"totalScore" bson:"totalScore" firestore:"totalScore"`
	MaxScore        int              `json:"maxScore" bson:"maxScore" firestore:"maxScore"`
	Percentage      int              `json:"percentage" bson:"percentage" firestore:"percentage"`
	PerQuestion     []QuestionResult `json:"perQuestion" bson:"perQuestion" firestore:"perQuestion"`
	OverallFeedback string           `json:"overallFeedback" bson:"overallFeedback" firestore:"overallFeedback"`
	Tips            []string         `json:"tips" bson:"tips" firestore:"tips"`
	DurationSeconds int              `json:"durationSeconds" bson:"durationSeconds" firestore:"durationSeconds"`
	CreatedAt       time.Time        `json:"createdAt" bson:"createdAt" firestore:"createdAt,serverTimestamp"`
}
