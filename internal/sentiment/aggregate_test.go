package sentiment

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spacesedan/moodmeter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeLines_MixedSentiment(t *testing.T) {
	scorer := newMapScorer(map[string]float64{
		"I love this!":      0.625,
		"This is terrible.": -1.0,
		"It is a table.":    0.0,
	})
	a := NewAnalyzer(scorer)

	input := "I love this!\nThis is terrible.\nIt is a table.\n"
	summary, err := a.AnalyzeLines(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Positive)
	assert.Equal(t, 1, summary.Negative)
	assert.Equal(t, 1, summary.Neutral)
	assert.Equal(t, 33.33, summary.PositivePct)
	assert.Equal(t, 33.33, summary.NegativePct)
	assert.Equal(t, 33.33, summary.NeutralPct)

	require.Len(t, summary.Items, 3)
	assert.Equal(t, models.ScoredItem{Text: "I love this!", Polarity: 0.625, Label: models.LabelPositive, Emoji: EmojiLove}, summary.Items[0])
	assert.Equal(t, models.ScoredItem{Text: "This is terrible.", Polarity: -1.0, Label: models.LabelNegative, Emoji: EmojiAngry}, summary.Items[1])
	assert.Equal(t, models.ScoredItem{Text: "It is a table.", Polarity: 0.0, Label: models.LabelNeutral, Emoji: EmojiNeutral}, summary.Items[2])
}

func TestAnalyzeLines_CarriageReturnLineEndings(t *testing.T) {
	scorer := newMapScorer(map[string]float64{"good": 0.4404, "bad": -0.5423})
	a := NewAnalyzer(scorer)

	summary, err := a.AnalyzeLines(context.Background(), strings.NewReader("good\rbad\rmeh\r"))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, []string{"good", "bad", "meh"}, scorer.calls)
}

func TestAnalyzeLines_PercentTiesRoundToEven(t *testing.T) {
	a := NewAnalyzer(newMapScorer(map[string]float64{"great": 0.6249}))

	input := "great\n" + strings.Repeat("plain\n", 31)
	summary, err := a.AnalyzeLines(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3.12, summary.PositivePct)
	assert.Equal(t, 96.88, summary.NeutralPct)
	assert.InDelta(t, 100.0, summary.PositivePct+summary.NegativePct+summary.NeutralPct, 1e-9)
}

func TestAnalyzeLines_EmptyInput(t *testing.T) {
	a := NewAnalyzer(newMapScorer(nil))

	for name, input := range map[string]string{
		"no bytes":        "",
		"blank lines":     "\n\n\n",
		"only whitespace": "   \n\t\t\n \r\n",
	} {
		t.Run(name, func(t *testing.T) {
			summary, err := a.AnalyzeLines(context.Background(), strings.NewReader(input))
			require.NoError(t, err)
			assert.Equal(t, models.EmptySummary(), summary)
			assert.NotNil(t, summary.Items)
			assert.Empty(t, summary.Items)
		})
	}
}

func TestAnalyzeLines_SkipsBlankLinesAndTrims(t *testing.T) {
	scorer := newMapScorer(map[string]float64{"good": 0.4, "bad": -0.2})
	a := NewAnalyzer(scorer)

	summary, err := a.AnalyzeLines(context.Background(), strings.NewReader("  good  \r\n\n\tbad\n   \n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"good", "bad"}, scorer.calls)
	require.Len(t, summary.Items, 2)
	assert.Equal(t, "good", summary.Items[0].Text)
	assert.Equal(t, EmojiLove, summary.Items[0].Emoji)
	assert.Equal(t, "bad", summary.Items[1].Text)
	assert.Equal(t, EmojiSad, summary.Items[1].Emoji)
	assert.Equal(t, 50.0, summary.PositivePct)
	assert.Equal(t, 50.0, summary.NegativePct)
	assert.Equal(t, 0.0, summary.NeutralPct)
}

func TestAnalyzeLines_ThresholdBoundariesAreNeutral(t *testing.T) {
	scorer := newMapScorer(map[string]float64{"up": 0.05, "down": -0.05})
	summary, err := NewAnalyzer(scorer).AnalyzeLines(context.Background(), strings.NewReader("up\ndown"))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Neutral)
	assert.Equal(t, 100.0, summary.NeutralPct)
	for _, item := range summary.Items {
		assert.Equal(t, models.LabelNeutral, item.Label)
		assert.Equal(t, EmojiNeutral, item.Emoji)
	}
}

func TestAnalyzeLines_RoundsPolarityBeforeClassifying(t *testing.T) {
	// 0.05004 rounds to 0.05, which is not strictly greater than the threshold.
	scorer := newMapScorer(map[string]float64{"almost": 0.05004})
	summary, err := NewAnalyzer(scorer).AnalyzeLines(context.Background(), strings.NewReader("almost"))
	require.NoError(t, err)

	require.Len(t, summary.Items, 1)
	assert.Equal(t, 0.05, summary.Items[0].Polarity)
	assert.Equal(t, models.LabelNeutral, summary.Items[0].Label)
}

func TestAnalyzeLines_Invariants(t *testing.T) {
	scores := map[string]float64{}
	var lines []string
	polarities := []float64{0.9, -0.7, 0.0, 0.2, 0.01, -0.1, 0.33}
	for i, p := range polarities {
		line := strings.Repeat("x", i+1)
		scores[line] = p
		lines = append(lines, line)
	}

	summary, err := NewAnalyzer(newMapScorer(scores)).AnalyzeLines(context.Background(), strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)

	assert.Equal(t, len(polarities), summary.Total)
	assert.Equal(t, summary.Total, summary.Positive+summary.Negative+summary.Neutral)
	assert.Len(t, summary.Items, summary.Total)
	assert.InDelta(t, 100.0, summary.PositivePct+summary.NegativePct+summary.NeutralPct, 0.01)
}

func TestAnalyzeLines_Idempotent(t *testing.T) {
	scorer := newMapScorer(map[string]float64{"a": 0.5, "b": -0.5, "c": 0})
	a := NewAnalyzer(scorer)

	first, err := a.AnalyzeLines(context.Background(), strings.NewReader("a\nb\nc"))
	require.NoError(t, err)
	second, err := a.AnalyzeLines(context.Background(), strings.NewReader("a\nb\nc"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeLines_InvalidUTF8DiscardsEverything(t *testing.T) {
	scorer := newMapScorer(map[string]float64{"fine": 0.5})
	input := "fine\n\xff\xfe broken\nfine\n"

	summary, err := NewAnalyzer(scorer).AnalyzeLines(context.Background(), strings.NewReader(input))
	require.Error(t, err)

	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, 2, readErr.Line)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
	assert.Equal(t, "line 2: invalid UTF-8 encoding", err.Error())
	assert.Equal(t, models.Summary{}, summary)
}

func TestAnalyzeLines_ReaderFailure(t *testing.T) {
	r := io.MultiReader(strings.NewReader("fine\n"), &failingReader{err: errBoom})

	_, err := NewAnalyzer(newMapScorer(nil)).AnalyzeLines(context.Background(), r)

	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.ErrorIs(t, err, errBoom)
}

func TestAnalyzeLines_LineTooLong(t *testing.T) {
	long := strings.Repeat("a", MAX_LINE_BYTES+1)

	_, err := NewAnalyzer(newMapScorer(nil)).AnalyzeLines(context.Background(), strings.NewReader(long))

	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
}

func TestAnalyzeLines_ScoringErrorAborts(t *testing.T) {
	scorer := newMapScorer(map[string]float64{"ok": 0.5})
	scorer.fail["explode"] = errBoom

	summary, err := NewAnalyzer(scorer).AnalyzeLines(context.Background(), strings.NewReader("ok\nexplode\nok"))
	require.Error(t, err)

	var scoringErr *ScoringError
	require.True(t, errors.As(err, &scoringErr))
	assert.Equal(t, 2, scoringErr.Line)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, models.Summary{}, summary)
	assert.Equal(t, []string{"ok", "explode"}, scorer.calls)
}

func TestAnalyzeLines_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalyzer(newMapScorer(nil)).AnalyzeLines(ctx, strings.NewReader("a\nb"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeLines_NoScorer(t *testing.T) {
	_, err := NewAnalyzer(nil).AnalyzeLines(context.Background(), strings.NewReader("a"))
	assert.ErrorIs(t, err, ErrNoScorer)
}

func TestAnalyzeFile_MissingFile(t *testing.T) {
	_, err := NewAnalyzer(newMapScorer(nil)).AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))

	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Zero(t, readErr.Line)
}

func TestAnalyzeComment(t *testing.T) {
	scorer := newMapScorer(map[string]float64{"Great stuff": 0.4})

	result, err := NewAnalyzer(scorer).AnalyzeComment(context.Background(), "Great stuff")
	require.NoError(t, err)
	assert.Equal(t, models.CommentResult{Sentiment: models.LabelPositive, Polarity: 0.4, Emoji: EmojiLove}, result)
}

func TestAnalyzeComment_EmptyIsNeutral(t *testing.T) {
	result, err := NewAnalyzer(newMapScorer(nil)).AnalyzeComment(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, models.CommentResult{Sentiment: models.LabelNeutral, Polarity: 0, Emoji: EmojiNeutral}, result)
}

func TestAnalyzeComment_TruncatesToCap(t *testing.T) {
	scorer := newMapScorer(nil)
	comment := strings.Repeat("é", DEFAULT_MAX_COMMENT_CHARS+50)

	_, err := NewAnalyzer(scorer).AnalyzeComment(context.Background(), comment)
	require.NoError(t, err)

	require.Len(t, scorer.calls, 1)
	assert.Equal(t, DEFAULT_MAX_COMMENT_CHARS, utf8.RuneCountInString(scorer.calls[0]))
}

func TestAnalyzeComment_CustomCap(t *testing.T) {
	scorer := newMapScorer(nil)
	_, err := NewAnalyzer(scorer, WithMaxCommentChars(5)).AnalyzeComment(context.Background(), "abcdefgh")
	require.NoError(t, err)
	assert.Equal(t, []string{"abcde"}, scorer.calls)
}

func TestAnalyzeComment_ScoringError(t *testing.T) {
	scorer := newMapScorer(nil)
	scorer.fail["x"] = errBoom

	_, err := NewAnalyzer(scorer).AnalyzeComment(context.Background(), "x")
	assert.ErrorIs(t, err, errBoom)
}

func TestTruncateChars(t *testing.T) {
	assert.Equal(t, "abc", truncateChars("abc", 10))
	assert.Equal(t, "ab", truncateChars("abc", 2))
	assert.Equal(t, "abc", truncateChars("abc", 0))
	assert.Equal(t, "日本", truncateChars("日本語", 2))
}

type failingReader struct{ err error }

func (f *failingReader) Read([]byte) (int, error) { return 0, f.err }
