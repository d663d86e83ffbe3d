package models

// ScheduleItem is one week of the program curriculum, editable by admins.
type ScheduleItem struct {
	ID               int64  `json:"id"`
	Week             int    `json:"week"`
	Theme            string `json:"theme"`
	KeyLearningFocus string `json:"key_learning_focus"`
	Facilitator      string `json:"facilitator"`
	TentativeDate    string `json:"tentative_date"`
}
