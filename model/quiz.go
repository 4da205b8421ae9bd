package model

import "math"

// PassingScore is the minimum percentage that passes a level quiz.
const PassingScore = 80

type QuizOption struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

type QuizQuestion struct {
	ID            int64        `json:"id"`
	Question      string       `json:"question"`
	Options       []QuizOption `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
}

type Quiz struct {
	LevelID    int64          `json:"level_id"`
	LevelTitle string         `json:"level_title"`
	TimeLimit  int            `json:"time_limit"`
	Questions  []QuizQuestion `json:"questions"`
}

type QuizSubmission struct {
	Score     int  `json:"score"`
	Passed    bool `json:"passed"`
	TimeTaken int  `json:"time_taken"`
}

type QuizResult struct {
	XPEarned int    `json:"xp_earned"`
	Message  string `json:"message"`
}

// GradeQuiz scores answers (question id -> chosen option value) against the quiz.
// The score is the rounded percentage of correct answers.
func GradeQuiz(q *Quiz, answers map[int64]string) (QuizSubmission, int) {
	if q == nil || len(q.Questions) == 0 {
		return QuizSubmission{}, 0
	}
	correct := 0
	for _, question := range q.Questions {
		if answer, ok := answers[question.ID]; ok && answer == question.CorrectAnswer {
			correct++
		}
	}
	score := int(math.Round(float64(correct) / float64(len(q.Questions)) * 100))
	return QuizSubmission{Score: score, Passed: score >= PassingScore}, correct
}
