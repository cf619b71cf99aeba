package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeEmptyText(t *testing.T) {
	res := Analyze("")

	assert.Equal(t, 0, res.WordCount)
	assert.Equal(t, 0, res.SentenceCount)
	assert.Equal(t, 0, res.ParagraphCount)
	assert.Equal(t, 0.0, res.AvgWordsPerSentence)
	assert.Empty(t, res.TopKeywords)
	assert.Equal(t, 1, res.ReadingTime, "reading time never drops below one minute")
	assert.Equal(t, "Neutral", res.Sentiment)
}

func TestAnalyzeCounts(t *testing.T) {
	res := Analyze("Go is expressive. Go is efficient.")

	assert.Equal(t, 6, res.WordCount)
	assert.Equal(t, 2, res.SentenceCount)
	assert.Equal(t, 1, res.ParagraphCount)
	// The trailing dot yields an empty third segment which stays in the
	// average's denominator: 6 words / 3 segments.
	assert.Equal(t, 2.0, res.AvgWordsPerSentence)
}

func TestAnalyzeAvgRounding(t *testing.T) {
	res := Analyze("one two. three four.")

	assert.Equal(t, 4, res.WordCount)
	assert.Equal(t, 2, res.SentenceCount)
	assert.Equal(t, 1.3, res.AvgWordsPerSentence)
}

func TestAnalyzeAvgRoundsHalfToEven(t *testing.T) {
	// 9 words over 4 raw segments is exactly 2.25; half-even rounds down.
	res := Analyze("a b. c d. e f. g h i")
	assert.Equal(t, 9, res.WordCount)
	assert.Equal(t, 2.2, res.AvgWordsPerSentence)

	// 11 words over 4 raw segments is exactly 2.75; half-even rounds up.
	res = Analyze("a b. c d. e f. g h i j k")
	assert.Equal(t, 11, res.WordCount)
	assert.Equal(t, 2.8, res.AvgWordsPerSentence)
}

func TestAnalyzeParagraphs(t *testing.T) {
	res := Analyze("first paragraph\n\nsecond paragraph\n\n\n\nthird")

	assert.Equal(t, 3, res.ParagraphCount)
}

func TestAnalyzeKeywordsOrderAndTies(t *testing.T) {
	res := Analyze("alpha beta alpha beta gamma gamma gamma")

	require.Len(t, res.TopKeywords, 3)
	assert.Equal(t, Keyword{Word: "gamma", Count: 3}, res.TopKeywords[0])
	// Equal counts keep first-occurrence order.
	assert.Equal(t, Keyword{Word: "alpha", Count: 2}, res.TopKeywords[1])
	assert.Equal(t, Keyword{Word: "beta", Count: 2}, res.TopKeywords[2])
}

func TestAnalyzeKeywordsSkipShortAndStripPunctuation(t *testing.T) {
	res := Analyze("The cat saw the (remarkable) cat, remarkable!")

	require.Len(t, res.TopKeywords, 1)
	assert.Equal(t, Keyword{Word: "remarkable", Count: 2}, res.TopKeywords[0])
}

func TestAnalyzeKeywordsCappedAtTen(t *testing.T) {
	words := make([]string, 0, 12)
	for _, w := range []string{
		"ability", "balance", "caliber", "density", "economy", "fashion",
		"gravity", "harmony", "imagery", "journey", "kitchen", "lantern",
	} {
		words = append(words, w)
	}
	res := Analyze(strings.Join(words, " "))

	assert.Len(t, res.TopKeywords, 10)
}

func TestAnalyzeReadingTime(t *testing.T) {
	res := Analyze(strings.TrimSpace(strings.Repeat("word ", 400)))

	assert.Equal(t, 400, res.WordCount)
	assert.Equal(t, 2, res.ReadingTime)
}

func TestAnalyzeSentiment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"positive outweighs negative", "good good bad", "Positive"},
		{"negative outweighs positive", "terrible awful good", "Negative"},
		{"balanced", "good bad", "Neutral"},
		{"no lexicon hits", "just a plain sentence", "Neutral"},
		// Lexicon matching uses raw tokens, so punctuation blocks a hit.
		{"punctuated tokens do not match", "good. good.", "Neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.text).Sentiment)
		})
	}
}
