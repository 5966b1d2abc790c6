package dto

// AnalysisRequest selects the company, period and output sections.
// period defaults to annual; period_number accepts "3" or "Q3".
type AnalysisRequest struct {
	Company       string   `form:"company" binding:"required"`
	Year          int      `form:"year" binding:"required"`
	Period        string   `form:"period"`
	PeriodNumber  string   `form:"period_number"`
	Sections      []string `form:"sections"`
	ForecastYears int      `form:"forecast_years"`
}

// NarrativeRequest starts an AI narrative job for an analyzed period.
type NarrativeRequest struct {
	Company      string `json:"company" binding:"required"`
	Year         int    `json:"year" binding:"required"`
	Period       string `json:"period"`
	PeriodNumber string `json:"period_number"`
}

// NarrativeSubmitResponse acknowledges an accepted narrative job.
type NarrativeSubmitResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}
