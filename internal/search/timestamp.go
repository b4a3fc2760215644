package search

import (
	"fmt"
	"math"
	"strings"
)

// wordsPerSecond is the assumed uniform speaking rate.
const wordsPerSecond = 3.0

func WordCount(s string) int {
	return len(strings.Fields(s))
}

// EstimateTimestamp approximates when the character at matchStart (a rune offset) is spoken,
// assuming the whole transcript is read at a constant rate.
func EstimateTimestamp(transcript string, matchStart int) (int, string) {
	runes := []rune(transcript)
	matchStart = min(max(matchStart, 0), len(runes))

	total := WordCount(transcript)
	if total == 0 {
		return 0, FormatTimestamp(0)
	}
	before := WordCount(string(runes[:matchStart]))
	duration := float64(total) / wordsPerSecond
	seconds := int(math.Round(float64(before) / float64(total) * duration))
	// A match inside the final word counts that word as already spoken.
	seconds = min(seconds, int(duration))
	return seconds, FormatTimestamp(seconds)
}

func FormatTimestamp(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
