package summarizer

import "context"

// SummaryData is the structured summary produced for a transcript.
type SummaryData struct {
	Overview    string   `json:"overview"`
	KeyPoints   []string `json:"key_points"`
	ActionItems []string `json:"action_items"`
	Decisions   []string `json:"decisions"`
}

// Summarizer turns a transcript into a structured summary. It never
// fails: model errors, timeouts and unparseable responses all collapse
// into a degraded summary pointing at the full transcript. Losing a
// transcript because the model misformatted its answer is worse than
// showing a placeholder summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) SummaryData
}
