package models

type SentimentLabel string

const (
	LabelPositive SentimentLabel = "Positive"
	LabelNegative SentimentLabel = "Negative"
	LabelNeutral  SentimentLabel = "Neutral"
)

// ScoredItem is one non-empty line of input after scoring.
type ScoredItem struct {
	Text     string         `json:"text"`
	Polarity float64        `json:"polarity"`
	Label    SentimentLabel `json:"label"`
	Emoji    string         `json:"emoji"`
}

// Summary aggregates every scored line of a single input source.
// Positive+Negative+Neutral always equals Total and len(Items) == Total.
type Summary struct {
	Total       int          `json:"total"`
	Positive    int          `json:"positive"`
	Negative    int          `json:"negative"`
	Neutral     int          `json:"neutral"`
	PositivePct float64      `json:"positive_pct"`
	NegativePct float64      `json:"negative_pct"`
	NeutralPct  float64      `json:"neutral_pct"`
	Items       []ScoredItem `json:"items"`
}

func EmptySummary() Summary {
	return Summary{Items: []ScoredItem{}}
}

type CommentRequest struct {
	Comment string `json:"comment"`
}

type CommentResult struct {
	Sentiment SentimentLabel `json:"sentiment"`
	Polarity  float64        `json:"polarity"`
	Emoji     string         `json:"emoji"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
