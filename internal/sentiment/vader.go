package sentiment

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// Scorer returns a polarity in [-1.0, 1.0] for a piece of text.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// VaderScorer scores text with the VADER compound score.
type VaderScorer struct {
	analyzer      *govader.SentimentIntensityAnalyzer
	cleanMarkdown bool
}

func NewVaderScorer(cleanMarkdown bool) *VaderScorer {
	return &VaderScorer{
		analyzer:      govader.NewSentimentIntensityAnalyzer(),
		cleanMarkdown: cleanMarkdown,
	}
}

func (v *VaderScorer) Score(_ context.Context, text string) (float64, error) {
	if v.cleanMarkdown {
		text = ConvertMarkdownToText(text)
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	return v.analyzer.PolarityScores(text).Compound, nil
}

func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1") // Keep only the text
	input = urlPattern.ReplaceAllString(input, "")

	return strings.Join(strings.Fields(input), " ")
}

// ConvertMarkdownToText flattens markdown into the words a reader would see.
// Link targets, images sources and raw HTML are dropped.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(RemoveLinks(input)),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(plainTextRenderer{}))

	return strings.Join(strings.Fields(string(output)), " ")
}

type plainTextRenderer struct{}

func (plainTextRenderer) RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	switch node.Type {
	case blackfriday.Text, blackfriday.Code:
		if entering {
			_, _ = w.Write(node.Literal)
		}
	case blackfriday.CodeBlock:
		_, _ = w.Write(node.Literal)
		_, _ = w.Write([]byte(" "))
	case blackfriday.HTMLBlock, blackfriday.HTMLSpan:
		return blackfriday.SkipChildren
	case blackfriday.Softbreak, blackfriday.Hardbreak, blackfriday.HorizontalRule:
		_, _ = w.Write([]byte(" "))
	case blackfriday.Paragraph, blackfriday.Heading, blackfriday.Item, blackfriday.TableCell:
		if !entering {
			_, _ = w.Write([]byte(" "))
		}
	}
	return blackfriday.GoToNext
}

func (plainTextRenderer) RenderHeader(io.Writer, *blackfriday.Node) {}

func (plainTextRenderer) RenderFooter(io.Writer, *blackfriday.Node) {}
