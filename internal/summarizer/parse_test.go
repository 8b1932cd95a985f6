package summarizer

import (
	"reflect"
	"testing"
)

const wellFormed = `{"overview":"Weekly sync","key_points":["roadmap","hiring"],"action_items":["send notes"],"decisions":["ship v2"]}`

func wantWellFormed() SummaryData {
	return SummaryData{
		Overview:    "Weekly sync",
		KeyPoints:   []string{"roadmap", "hiring"},
		ActionItems: []string{"send notes"},
		Decisions:   []string{"ship v2"},
	}
}

func TestParseSummary(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    SummaryData
		wantErr bool
	}{
		{
			name: "raw json",
			raw:  wellFormed,
			want: wantWellFormed(),
		},
		{
			name: "json code fence",
			raw:  "```json\n" + wellFormed + "\n```",
			want: wantWellFormed(),
		},
		{
			name: "bare code fence",
			raw:  "```\n" + wellFormed + "\n```",
			want: wantWellFormed(),
		},
		{
			name: "prose around json",
			raw:  "Sure, here is the summary you asked for:\n" + wellFormed + "\nLet me know if you need anything else.",
			want: wantWellFormed(),
		},
		{
			name: "null arrays become empty",
			raw:  `{"overview":"Short call","key_points":null,"action_items":null,"decisions":null}`,
			want: SummaryData{
				Overview:    "Short call",
				KeyPoints:   []string{},
				ActionItems: []string{},
				Decisions:   []string{},
			},
		},
		{
			name: "braces inside strings",
			raw:  `The config was {broken}. {"overview":"Fix {config}","key_points":[],"action_items":[],"decisions":[]}`,
			want: SummaryData{
				Overview:    "Fix {config}",
				KeyPoints:   []string{},
				ActionItems: []string{},
				Decisions:   []string{},
			},
		},
		{
			name:    "missing field",
			raw:     `{"overview":"x","key_points":[],"action_items":[]}`,
			wantErr: true,
		},
		{
			name:    "no json at all",
			raw:     "I could not summarize this transcript.",
			wantErr: true,
		},
		{
			name:    "unbalanced braces",
			raw:     `{"overview":"x","key_points":[`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSummary(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseSummary() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseSummary() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// A fenced answer and its unwrapped form must parse identically.
func TestParseSummaryFenceRoundTrip(t *testing.T) {
	plain, err := parseSummary(wellFormed)
	if err != nil {
		t.Fatalf("parseSummary(plain) error = %v", err)
	}
	fenced, err := parseSummary("```json\n" + wellFormed + "\n```")
	if err != nil {
		t.Fatalf("parseSummary(fenced) error = %v", err)
	}
	if !reflect.DeepEqual(plain, fenced) {
		t.Errorf("fenced parse = %+v, plain parse = %+v", fenced, plain)
	}
}

func TestDegradedSummary(t *testing.T) {
	got := degradedSummary("See full transcript for details")

	if got.Overview != "See full transcript for details" {
		t.Errorf("Overview = %q", got.Overview)
	}
	if !reflect.DeepEqual(got.KeyPoints, []string{"See full transcript"}) {
		t.Errorf("KeyPoints = %v, want [See full transcript]", got.KeyPoints)
	}
	if len(got.ActionItems) != 0 || len(got.Decisions) != 0 {
		t.Errorf("ActionItems/Decisions should be empty, got %v / %v", got.ActionItems, got.Decisions)
	}
}
