package sentiment

import (
	"strconv"

	"github.com/spacesedan/moodmeter/internal/models"
)

// Label thresholds. Both comparisons are strict, so ±0.05 is Neutral.
const (
	POSITIVE_THRESHOLD = 0.05
	NEGATIVE_THRESHOLD = -0.05
)

// Emoji thresholds. These are a separate set of constants from the label
// thresholds even where the values coincide.
const (
	EMOJI_LOVE_THRESHOLD  = 0.3
	EMOJI_HAPPY_THRESHOLD = 0.05
	EMOJI_ANGRY_THRESHOLD = -0.3
	EMOJI_SAD_THRESHOLD   = -0.05
)

const (
	EmojiLove    = "😍"
	EmojiHappy   = "😊"
	EmojiAngry   = "😡"
	EmojiSad     = "😕"
	EmojiNeutral = "😐"
)

func Classify(p float64) models.SentimentLabel {
	switch {
	case p > POSITIVE_THRESHOLD:
		return models.LabelPositive
	case p < NEGATIVE_THRESHOLD:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

func PolarityToEmoji(p float64) string {
	switch {
	case p > EMOJI_LOVE_THRESHOLD:
		return EmojiLove
	case p > EMOJI_HAPPY_THRESHOLD:
		return EmojiHappy
	case p < EMOJI_ANGRY_THRESHOLD:
		return EmojiAngry
	case p < EMOJI_SAD_THRESHOLD:
		return EmojiSad
	default:
		return EmojiNeutral
	}
}

// RoundPolarity rounds to 4 decimal places.
func RoundPolarity(p float64) float64 {
	return roundTo(p, 4)
}

func roundPercent(count, total int) float64 {
	return roundTo(100*float64(count)/float64(total), 2)
}

// roundTo rounds the exact binary value of v, sending ties to the even digit.
func roundTo(v float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil || r == 0 {
		return 0
	}
	return r
}
