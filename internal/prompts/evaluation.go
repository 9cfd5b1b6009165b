package prompts

import (
	"fmt"
	"strings"

	"practice-interview/internal/interview"
)

// EvaluateAnswerPrompt промпт для оценки одного ответа
func EvaluateAnswerPrompt(question, answer string, round interview.Round) string {
	return fmt.Sprintf(`You are an expert interviewer evaluating a candidate's answer in a %s interview round.

Question: "%s"
Candidate's Answer: "%s"

Evaluate the answer and return ONLY a valid JSON object (no markdown, no extra text):
{
  "score": <number from 0 to 10>,
  "feedback": "<brief 1-2 sentence feedback>",
  "strengths": ["<strength 1>", "<strength 2>"],
  "improvements": ["<area to improve 1>", "<area to improve 2>"]
}

If the answer is empty, irrelevant, or just noise, give score 0-1. Be fair but constructive.`, round, question, answer)
}

// OverallFeedbackPrompt промпт для итогового отзыва по всей сессии
func OverallFeedbackPrompt(round interview.Round, results []interview.QuestionResult) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("You are an expert career counselor. A student just completed a practice %s interview. Here are their responses:\n\n", round))

	total := 0
	for i, r := range results {
		if i > 0 {
			prompt.WriteString("\n\n")
		}
		prompt.WriteString(fmt.Sprintf("Q%d: %s\n", i+1, r.Question))
		prompt.WriteString(fmt.Sprintf("A%d: %s\n", i+1, r.Answer))
		prompt.WriteString(fmt.Sprintf("Score: %d/10", r.Score))
		total += r.Score
	}

	average := 0.0
	if len(results) > 0 {
		average = float64(total) / float64(len(results))
	}
	prompt.WriteString(fmt.Sprintf("\n\nAverage Score: %.1f/10\n\n", average))

	prompt.WriteString(`Provide overall feedback. Return ONLY a valid JSON object:
{
  "overallFeedback": "<2-3 sentences summarizing performance>",
  "tips": ["<tip 1>", "<tip 2>", "<tip 3>"]
}`)

	return prompt.String()
}
