package prompts

import (
	"fmt"
	"strings"

	"practice-interview/internal/interview"
)

// roundFraming описание раунда для генерации вопросов
func roundFraming(round interview.Round, count int) string {
	switch round {
	case interview.RoundHR:
		return fmt.Sprintf(`Generate %d HR interview questions commonly asked in campus placements.
Focus on behavioral questions, situational questions, questions about strengths/weaknesses, career goals, teamwork, and leadership.
Questions should be suitable for fresh graduates.`, count)
	case interview.RoundAptitude:
		return fmt.Sprintf(`Generate %d aptitude/logical reasoning interview questions commonly asked in campus placements.
Focus on problem-solving, logical reasoning, analytical thinking, and quantitative aptitude.
Questions should be verbal (not requiring pen-paper calculations) suitable for a voice interview.`, count)
	default:
		return fmt.Sprintf(`Generate %d technical interview questions commonly asked in campus placements.
Focus on topics like data structures, algorithms, OOP concepts, DBMS, OS, networking, and programming fundamentals.
Questions should be suitable for engineering students.`, count)
	}
}

// GenerateQuestionsPrompt промпт для генерации count вопросов раунда
func GenerateQuestionsPrompt(round interview.Round, count int) string {
	var prompt strings.Builder

	prompt.WriteString(roundFraming(round, count))
	prompt.WriteString("\n\n")
	prompt.WriteString(fmt.Sprintf("Return ONLY a valid JSON array with exactly %d objects in this format:\n", count))
	prompt.WriteString(`[
  {
    "question": "the interview question here",
    "expectedKeyPoints": ["key point 1", "key point 2", "key point 3"]
  }
]`)
	prompt.WriteString("\n\nDo not include any text before or after the JSON array. Only return the JSON.")

	return prompt.String()
}
