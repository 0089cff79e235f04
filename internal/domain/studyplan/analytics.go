package studyplan

// CategoryStat summarizes attempts in one category. CompletionPct is an estimate, see
// analytics.completionEstimate.
type CategoryStat struct {
	Category        string  `json:"category"`
	TotalAttempts   int     `json:"total_attempts"`
	CorrectAttempts int     `json:"correct_attempts"`
	CompletionPct   float64 `json:"completion_pct"`
	CorrectPct      float64 `json:"correct_pct"`
	IncorrectPct    float64 `json:"incorrect_pct"`
}

// TimeBucket is one point of the performance time series.
type TimeBucket struct {
	Label            string  `json:"label"`
	AvgScorePct      float64 `json:"avg_score_pct"`
	QuestionCount    int     `json:"question_count"`
	TimeSpentMinutes float64 `json:"time_spent_minutes"`
}

// SubjectScore is a per-subject performance score in [0,100] fed into schedule generation.
type SubjectScore struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}
