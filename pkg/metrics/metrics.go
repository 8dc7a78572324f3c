// Package metrics scores reconstructed text against a ground truth transcript.
package metrics

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var whitespace = regexp.MustCompile(`\s+`)

// Accuracy holds character and word level scores for one document.
type Accuracy struct {
	CharacterSimilarity   float64 `json:"character_similarity" yaml:"character_similarity"`
	WordSimilarity        float64 `json:"word_similarity" yaml:"word_similarity"`
	WordAccuracy          float64 `json:"word_accuracy" yaml:"word_accuracy"`
	WordErrorRate         float64 `json:"word_error_rate" yaml:"word_error_rate"`
	TotalWordsOriginal    int     `json:"total_words_original" yaml:"total_words_original"`
	TotalWordsTranscribed int     `json:"total_words_transcribed" yaml:"total_words_transcribed"`
	CorrectWords          int     `json:"correct_words" yaml:"correct_words"`
	Substitutions         int     `json:"substitutions" yaml:"substitutions"`
	Deletions             int     `json:"deletions" yaml:"deletions"`
	Insertions            int     `json:"insertions" yaml:"insertions"`
}

// Calculate compares original (ground truth) with transcribed text after
// normalizing case, whitespace and Unicode composition.
func Calculate(original, transcribed string) Accuracy {
	origNorm := Normalize(original)
	transNorm := Normalize(transcribed)
	charSim := Similarity(origNorm, transNorm)
	origWords := strings.Fields(origNorm)
	transWords := strings.Fields(transNorm)
	wordSim := Similarity(strings.Join(origWords, " "), strings.Join(transWords, " "))
	wordAcc, correct, subs, dels, ins := wordLevelMetrics(origWords, transWords)

	return Accuracy{
		CharacterSimilarity:   charSim,
		WordSimilarity:        wordSim,
		WordAccuracy:          wordAcc,
		WordErrorRate:         1.0 - wordAcc,
		TotalWordsOriginal:    len(origWords),
		TotalWordsTranscribed: len(transWords),
		CorrectWords:          correct,
		Substitutions:         subs,
		Deletions:             dels,
		Insertions:            ins,
	}
}

// Normalize lower cases the text, composes it to NFC and collapses whitespace.
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = whitespace.ReplaceAllString(strings.TrimSpace(text), " ")
	return strings.ToLower(text)
}

// Levenshtein returns the edit distance between s1 and s2 in runes.
func Levenshtein(s1, s2 string) int {
	r1, r2 := []rune(s1), []rune(s2)
	len1, len2 := len(r1), len(r2)
	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	prev := make([]int, len2+1)
	curr := make([]int, len2+1)
	for j := 0; j <= len2; j++ {
		prev[j] = j
	}

	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}

// Similarity is 1 - distance / longest length, 1 for two empty strings.
func Similarity(s1, s2 string) float64 {
	maxLen := max(len([]rune(s1)), len([]rune(s2)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(Levenshtein(s1, s2))/float64(maxLen)
}

// wordLevelMetrics aligns the word sequences and counts edit operations
func wordLevelMetrics(orig, trans []string) (float64, int, int, int, int) {
	m, n := len(orig), len(trans)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}

	for i := 0; i <= m; i++ {
		dp[i][0] = i
	}
	for j := 0; j <= n; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if orig[i-1] == trans[j-1] {
				dp[i][j] = dp[i-1][j-1]
			} else {
				dp[i][j] = 1 + min(dp[i-1][j], dp[i][j-1], dp[i-1][j-1])
			}
		}
	}

	// Backtrack to count operations
	i, j := m, n
	substitutions, deletions, insertions, correct := 0, 0, 0, 0

	for i > 0 || j > 0 {
		if i > 0 && j > 0 && orig[i-1] == trans[j-1] {
			correct++
			i--
			j--
		} else if i > 0 && j > 0 && dp[i][j] == dp[i-1][j-1]+1 {
			substitutions++
			i--
			j--
		} else if i > 0 && dp[i][j] == dp[i-1][j]+1 {
			deletions++
			i--
		} else {
			insertions++
			j--
		}
	}

	wer := 0.0
	if m > 0 {
		wer = float64(substitutions+deletions+insertions) / float64(m)
	}

	return 1.0 - wer, correct, substitutions, deletions, insertions
}
