// Package tokens estimates what a piece of text costs when sent to a language
// model, and compares a TOON rendering of some data against its JSON form.
package tokens

import "unicode"

// Rough run lengths a byte-pair tokenizer folds into one token.
const (
	lettersPerToken = 6
	digitsPerToken  = 3
	punctPerToken   = 2
)

type runClass int

const (
	classSpace runClass = iota
	classLetter
	classDigit
	classPunct
	classIdeograph
)

func classify(r rune) runClass {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case unicode.Is(unicode.Han, r), unicode.Is(unicode.Hiragana, r),
		unicode.Is(unicode.Katakana, r), unicode.Is(unicode.Hangul, r):
		return classIdeograph
	case unicode.IsLetter(r), unicode.IsMark(r), r == '_':
		return classLetter
	case unicode.IsDigit(r):
		return classDigit
	}
	return classPunct
}

// Estimate returns a rough token count for text. Each run of same-class runes
// costs one token per few runes, so JSON's quote clusters such as `":"` are
// cheaper per rune than a lone delimiter. Spaces fold into the next run, while
// newlines and ideographs cost one token each.
func Estimate(text string) int {
	tokens := 0
	run, runLen := classSpace, 0

	flush := func() {
		switch run {
		case classLetter:
			tokens += ceilDiv(runLen, lettersPerToken)
		case classDigit:
			tokens += ceilDiv(runLen, digitsPerToken)
		case classPunct:
			tokens += ceilDiv(runLen, punctPerToken)
		}
		runLen = 0
	}

	for _, r := range text {
		c := classify(r)
		switch c {
		case classSpace:
			flush()
			run = classSpace
			if r == '\n' {
				tokens++
			}
			continue
		case classIdeograph:
			flush()
			run = classSpace
			tokens++
			continue
		}
		if c != run {
			flush()
			run = c
		}
		runLen++
	}
	flush()

	return tokens
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

// Report holds the size of the same data rendered as JSON and as TOON.
type Report struct {
	JSONChars  int
	TOONChars  int
	JSONTokens int
	TOONTokens int
}

// Compare measures both renderings. Characters are counted as runes.
func Compare(jsonText, toonText string) Report {
	return Report{
		JSONChars:  len([]rune(jsonText)),
		TOONChars:  len([]rune(toonText)),
		JSONTokens: Estimate(jsonText),
		TOONTokens: Estimate(toonText),
	}
}

// Reduction is the character saving of TOON over JSON in percent.
func (r Report) Reduction() float64 {
	return percent(r.JSONChars, r.TOONChars)
}

// TokenReduction is the estimated token saving of TOON over JSON in percent.
func (r Report) TokenReduction() float64 {
	return percent(r.JSONTokens, r.TOONTokens)
}

// TokenSavings is the estimated number of tokens saved per use.
func (r Report) TokenSavings() int {
	return r.JSONTokens - r.TOONTokens
}

func percent(before, after int) float64 {
	if before == 0 {
		return 0
	}
	return float64(before-after) / float64(before) * 100
}

// Cost is the input price of each rendering and the difference between them.
type Cost struct {
	JSON    float64
	TOON    float64
	Savings float64
}

// Cost prices the report at pricePerMillion per million input tokens.
func (r Report) Cost(pricePerMillion float64) Cost {
	c := Cost{
		JSON: float64(r.JSONTokens) / 1_000_000 * pricePerMillion,
		TOON: float64(r.TOONTokens) / 1_000_000 * pricePerMillion,
	}
	c.Savings = c.JSON - c.TOON
	return c
}

// Projection scales a per query saving to a sustained query rate.
type Projection struct {
	Daily   float64
	Monthly float64
	Yearly  float64
}

func (c Cost) Project(queriesPerDay int) Projection {
	daily := c.Savings * float64(queriesPerDay)
	return Projection{
		Daily:   daily,
		Monthly: daily * 30,
		Yearly:  daily * 365,
	}
}
