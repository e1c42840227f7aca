package documents

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const wordsPerMinute = 230

// TextStats summarises a block of text.
type TextStats struct {
	Characters         int `json:"characters"`
	Words              int `json:"words"`
	Lines              int `json:"lines"`
	Paragraphs         int `json:"paragraphs"`
	Sentences          int `json:"sentences"`
	EstimatedTokens    int `json:"estimated_tokens"`
	ReadingTimeSeconds int `json:"reading_time_seconds"`
}

// Normalize converts text to NFC and unifies line endings.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return norm.NFC.String(text)
}

// Stats computes TextStats over the normalized text. Tokens are estimated at four
// characters per token, which is close enough for budgeting prompts.
func Stats(text string) TextStats {
	text = Normalize(text)
	if strings.TrimSpace(text) == "" {
		return TextStats{}
	}

	stats := TextStats{
		Characters: utf8.RuneCountInString(text),
		Words:      len(strings.Fields(text)),
		Lines:      strings.Count(strings.TrimRight(text, "\n"), "\n") + 1,
	}

	inParagraph := false
	for _, line := range strings.Split(text, "\n") {
		blank := strings.TrimSpace(line) == ""
		if !blank && !inParagraph {
			stats.Paragraphs++
		}
		inParagraph = !blank
	}

	prevTerminal := false
	for _, r := range text {
		terminal := r == '.' || r == '!' || r == '?'
		if terminal && !prevTerminal {
			stats.Sentences++
		}
		prevTerminal = terminal
	}
	if stats.Sentences == 0 || !endsWithTerminal(text) {
		stats.Sentences++
	}

	stats.EstimatedTokens = int(math.Ceil(float64(stats.Characters) / 4))
	stats.ReadingTimeSeconds = int(math.Ceil(float64(stats.Words) / wordsPerMinute * 60))
	return stats
}

func endsWithTerminal(text string) bool {
	trimmed := strings.TrimRightFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '\'' || r == ')'
	})
	if trimmed == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(trimmed)
	return r == '.' || r == '!' || r == '?'
}

// Truncate shortens text to at most maxRunes runes and reports whether it cut anything.
func Truncate(text string, maxRunes int) (string, bool) {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text, false
	}
	runes := []rune(text)
	return string(runes[:maxRunes]), true
}
