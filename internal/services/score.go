package services

// Band is one row of a scale's interpretation table. A total strictly below
// Below falls into this band; rows are checked in order and the last row acts
// as the catch-all for the maximum score.
type Band struct {
	Below int
	Label string
}

// interpretations holds the per-scale band tables keyed by scale id.
var interpretations = map[string][]Band{
	"barthel": {
		{Below: 45, Label: "Severe functional disability"},
		{Below: 60, Label: "Severe disability"},
		{Below: 80, Label: "Moderate functional disability"},
		{Below: 100, Label: "Slight functional disability"},
	},
}

// finalBand maps a scale id to the label used when no band row matches,
// i.e. the total reached the top of the table.
var finalBand = map[string]string{
	"barthel": "Total independence",
}

// Result is the outcome of scoring one assessment.
type Result struct {
	Total          int    `json:"total"`
	Interpretation string `json:"interpretation"`
}

// Score sums the recorded answer values and classifies the total against the
// scale's interpretation table. Partial answer maps are scored as-is; an
// unanswered question simply contributes zero. Scoring is read-only and
// deterministic: the same inputs always produce the same Result.
func Score(scaleID string, answers AnswerMap) (Result, error) {
	bands, ok := interpretations[scaleID]
	if !ok {
		return Result{}, ErrUnknownScale
	}
	total := answers.Sum()
	return Result{Total: total, Interpretation: Interpret(bands, finalBand[scaleID], total)}, nil
}

// Interpret walks the band table in order and returns the label of the first
// band whose upper bound exceeds total, or fallback when none does.
func Interpret(bands []Band, fallback string, total int) string {
	for _, b := range bands {
		if total < b.Below {
			return b.Label
		}
	}
	return fallback
}
