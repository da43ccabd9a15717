package models

// Question is a single evaluation statement rated on a 1-5 Likert scale.
type Question struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// QuestionCategory groups related questions on an evaluation form.
type QuestionCategory struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}
