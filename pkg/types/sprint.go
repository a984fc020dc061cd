package types

// SprintInfo describes the sprint a report covers
type SprintInfo struct {
	Number    string
	Name      string
	StartDate string
	EndDate   string
	TeamName  string
}

// Metrics are the numeric sprint figures printed below the epic table
type Metrics struct {
	StoryPointsCompleted float64
	PRReviewsCount       int
}
