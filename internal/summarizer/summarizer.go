package summarizer

import (
	"context"
	"fmt"
	"strings"
)

const summaryPrompt = `Analyze this meeting transcript and provide a structured summary in JSON format.

Transcript:
%s

Please provide a JSON response with exactly these fields:
1. "overview": A brief 2-3 sentence summary of the meeting
2. "key_points": An array of the main discussion points (3-6 items)
3. "action_items": An array of tasks or actions mentioned (if any)
4. "decisions": An array of decisions made during the meeting (if any)

IMPORTANT: Return ONLY the raw JSON object. Do not include any markdown formatting, code blocks, or explanatory text before or after the JSON.`

// Summarize calls the model and parses its answer. Every failure mode
// degrades to a placeholder summary rather than an error.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string) SummaryData {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := fmt.Sprintf(summaryPrompt, transcript)

	raw, err := s.gen.generate(ctx, prompt)
	if err != nil {
		s.logger.Error(ctx, "Summarization call failed: %v", err)
		return degradedSummary(fmt.Sprintf("Error generating summary: %v", err))
	}

	summary, err := parseSummary(raw)
	if err != nil {
		s.logger.Warn(ctx, "Summary parse failed, returning degraded summary: %v", err)
		s.logger.Debug(ctx, "Raw model response: %s", raw)
		return degradedSummary("See full transcript for details")
	}

	return summary
}

// degradedSummary is the placeholder returned when the model's answer
// cannot be obtained or parsed.
func degradedSummary(overview string) SummaryData {
	return SummaryData{
		Overview:    strings.TrimSpace(overview),
		KeyPoints:   []string{"See full transcript"},
		ActionItems: []string{},
		Decisions:   []string{},
	}
}
