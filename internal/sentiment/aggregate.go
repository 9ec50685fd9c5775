package sentiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spacesedan/moodmeter/internal/models"
)

const DEFAULT_MAX_COMMENT_CHARS = 10000

// Analyzer turns text into scored items and summaries. It holds no per-call
// state, so one Analyzer can serve concurrent requests as long as its
// Scorer can.
type Analyzer struct {
	scorer          Scorer
	maxCommentChars int
}

type Option func(*Analyzer)

// WithMaxCommentChars caps single comments at n characters. n <= 0 disables the cap.
func WithMaxCommentChars(n int) Option {
	return func(a *Analyzer) {
		a.maxCommentChars = n
	}
}

func NewAnalyzer(scorer Scorer, opts ...Option) *Analyzer {
	a := &Analyzer{
		scorer:          scorer,
		maxCommentChars: DEFAULT_MAX_COMMENT_CHARS,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile opens path and aggregates it with AnalyzeLines.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (models.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Summary{}, &ReadError{Err: err}
	}
	defer f.Close()

	return a.AnalyzeLines(ctx, f)
}

// AnalyzeLines scores every non-empty line of r and aggregates the result.
// The operation is all or nothing: any read or scoring failure discards the
// lines scored so far and no Summary is returned.
func (a *Analyzer) AnalyzeLines(ctx context.Context, r io.Reader) (models.Summary, error) {
	if a.scorer == nil {
		return models.Summary{}, ErrNoScorer
	}

	var positive, negative, neutral int
	items := make([]models.ScoredItem, 0)

	iterator := NewLineIterator(r)
	for {
		if err := ctx.Err(); err != nil {
			return models.Summary{}, err
		}

		line, lineNo, err := iterator.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn("[Analyzer] Failed to read input",
				slog.Int("line", lineNo),
				slog.String("error", err.Error()))
			return models.Summary{}, err
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		item, err := a.scoreItem(ctx, text)
		if err != nil {
			return models.Summary{}, &ScoringError{Line: lineNo, Err: err}
		}

		switch item.Label {
		case models.LabelPositive:
			positive++
		case models.LabelNegative:
			negative++
		default:
			neutral++
		}
		items = append(items, item)
	}

	total := positive + negative + neutral
	if total == 0 {
		return models.EmptySummary(), nil
	}

	slog.Debug("[Analyzer] Aggregated lines",
		slog.Int("total", total),
		slog.Int("positive", positive),
		slog.Int("negative", negative),
		slog.Int("neutral", neutral))

	return models.Summary{
		Total:       total,
		Positive:    positive,
		Negative:    negative,
		Neutral:     neutral,
		PositivePct: roundPercent(positive, total),
		NegativePct: roundPercent(negative, total),
		NeutralPct:  roundPercent(neutral, total),
		Items:       items,
	}, nil
}

// AnalyzeComment scores a single comment, truncated to the configured cap.
func (a *Analyzer) AnalyzeComment(ctx context.Context, comment string) (models.CommentResult, error) {
	if a.scorer == nil {
		return models.CommentResult{}, ErrNoScorer
	}

	item, err := a.scoreItem(ctx, truncateChars(comment, a.maxCommentChars))
	if err != nil {
		return models.CommentResult{}, fmt.Errorf("failed to score comment: %w", err)
	}

	return models.CommentResult{
		Sentiment: item.Label,
		Polarity:  item.Polarity,
		Emoji:     item.Emoji,
	}, nil
}

func (a *Analyzer) scoreItem(ctx context.Context, text string) (models.ScoredItem, error) {
	raw, err := a.scorer.Score(ctx, text)
	if err != nil {
		return models.ScoredItem{}, err
	}

	p := RoundPolarity(raw)
	return models.ScoredItem{
		Text:     text,
		Polarity: p,
		Label:    Classify(p),
		Emoji:    PolarityToEmoji(p),
	}, nil
}

func truncateChars(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
