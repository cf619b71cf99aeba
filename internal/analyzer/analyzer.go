package analyzer

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// punctuation stripped from both ends of a token before keyword counting.
const punctuation = `.,!?;:"()[]{}`

// wordsPerMinute is the reading speed used for the reading time estimate.
const wordsPerMinute = 200

// Fixed lexicons for the naive sentiment score. Matched against raw
// lowercased whitespace tokens, without punctuation stripping.
var (
	positiveWords = map[string]bool{
		"good": true, "great": true, "excellent": true,
		"amazing": true, "wonderful": true, "positive": true,
	}
	negativeWords = map[string]bool{
		"bad": true, "terrible": true, "poor": true,
		"negative": true, "awful": true, "horrible": true,
	}
)

// Keyword is a word and its occurrence count.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Result holds the statistical profile of a text.
type Result struct {
	WordCount           int       `json:"word_count"`
	SentenceCount       int       `json:"sentence_count"`
	ParagraphCount      int       `json:"paragraph_count"`
	AvgWordsPerSentence float64   `json:"avg_words_per_sentence"`
	TopKeywords         []Keyword `json:"top_keywords"`
	ReadingTime         int       `json:"reading_time"`
	Sentiment           string    `json:"sentiment"`
}

// Analyze computes the statistical profile of a text. It is a total
// function: any input, including empty, yields a well-formed Result.
func Analyze(text string) Result {
	words := strings.Fields(text)
	// Sentence segments are raw dot-splits; the count skips empties but the
	// average keeps the raw segment count as its denominator.
	segments := strings.Split(text, ".")
	paragraphs := strings.Split(text, "\n\n")

	denominator := len(segments)
	if denominator < 1 {
		denominator = 1
	}
	// Round half to even, so exact .x5 averages match round() semantics.
	avg := math.RoundToEven(float64(len(words))/float64(denominator)*10) / 10

	readingTime := len(words) / wordsPerMinute
	if readingTime < 1 {
		readingTime = 1
	}

	return Result{
		WordCount:           len(words),
		SentenceCount:       countNonEmpty(segments),
		ParagraphCount:      countNonEmpty(paragraphs),
		AvgWordsPerSentence: avg,
		TopKeywords:         topKeywords(words, 10),
		ReadingTime:         readingTime,
		Sentiment:           sentiment(words),
	}
}

// countNonEmpty counts segments that still contain text after trimming.
func countNonEmpty(segments []string) int {
	n := 0
	for _, s := range segments {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

// topKeywords returns the limit most frequent cleaned words longer than
// three characters, ordered by descending count. Ties keep the order in
// which the words first appeared.
func topKeywords(words []string, limit int) []Keyword {
	counts := make(map[string]int)
	var order []string

	for _, w := range words {
		clean := strings.Trim(strings.ToLower(w), punctuation)
		if utf8.RuneCountInString(clean) <= 3 {
			continue
		}
		if _, seen := counts[clean]; !seen {
			order = append(order, clean)
		}
		counts[clean]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}

	keywords := make([]Keyword, 0, len(order))
	for _, w := range order {
		keywords = append(keywords, Keyword{Word: w, Count: counts[w]})
	}
	return keywords
}

// sentiment compares lexicon hits over the raw lowercased tokens.
func sentiment(words []string) string {
	pos, neg := 0, 0
	for _, w := range words {
		lower := strings.ToLower(w)
		if positiveWords[lower] {
			pos++
		}
		if negativeWords[lower] {
			neg++
		}
	}

	switch {
	case pos > neg:
		return "Positive"
	case neg > pos:
		return "Negative"
	default:
		return "Neutral"
	}
}
