// Package console drives the controller from line-oriented terminal input.
package console

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"

	"github.com/valpere/nebo/pkg/weather"
)

// PickThreshold is the minimum Jaro-Winkler similarity for :pick.
const PickThreshold = 0.7

type Kind int

const (
	KindNone Kind = iota
	KindToggle
	KindSelect
	KindPick
	KindQuit
	KindQuery
)

// Command is one parsed input line.
type Command struct {
	Kind  Kind
	Index int // zero-based, KindSelect only
	Text  string
}

// Parse interprets line. While search is open any line that is not a command
// is taken as the complete current query text.
func Parse(line string, searchOpen bool) Command {
	line = strings.TrimRightFunc(line, unicode.IsSpace)

	switch {
	case line == "/":
		return Command{Kind: KindToggle}
	case line == ":q":
		return Command{Kind: KindQuit}
	case strings.HasPrefix(line, ":pick "):
		text := strings.TrimSpace(strings.TrimPrefix(line, ":pick "))
		if text == "" {
			return Command{Kind: KindNone}
		}
		return Command{Kind: KindPick, Text: text}
	case strings.HasPrefix(line, ":"):
		n, err := strconv.Atoi(line[1:])
		if err == nil && n >= 1 {
			return Command{Kind: KindSelect, Index: n - 1}
		}
	}

	if searchOpen {
		return Command{Kind: KindQuery, Text: line}
	}
	return Command{Kind: KindNone}
}

// Pick returns the index of the candidate whose label is most similar to text,
// or -1 if none reaches PickThreshold.
func Pick(text string, candidates []weather.Location) int {
	best, bestScore := -1, float32(0)
	needle := strings.ToLower(text)

	for i, loc := range candidates {
		score, err := edlib.StringsSimilarity(needle, strings.ToLower(loc.Label()), edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if bestScore <= PickThreshold {
		return -1
	}
	return best
}
