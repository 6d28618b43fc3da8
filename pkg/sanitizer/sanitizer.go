package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reKeepLettersDigits = regexp.MustCompile(`[^0-9\p{L}]+`)
	reTrimUnderscores   = regexp.MustCompile(`_+`)
	reBlankLines        = regexp.MustCompile(`\n{3,}`)
)

const maxFreeTextLength = 1000

func trimAndLower(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

func collapseUnderscores(s string) string {
	s = reTrimUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// SanitizeNameOrAddress reduces a place name or address to a comparison key.
func SanitizeNameOrAddress(input string) string {
	p := Pipeline{
		trimAndLower,
		func(s string) string { return reKeepLettersDigits.ReplaceAllString(s, "_") },
		collapseUnderscores,
	}
	return p.Apply(input)
}

func SanitizeID(id string) string {
	return strings.TrimSpace(id)
}

// SanitizeFreeText cleans customer notes. Line breaks survive, other control
// characters are dropped and the result is capped at maxFreeTextLength runes.
func SanitizeFreeText(input string) string {
	p := Pipeline{
		func(s string) string { return strings.ReplaceAll(s, "\r\n", "\n") },
		dropControl,
		trimLines,
		func(s string) string { return reBlankLines.ReplaceAllString(s, "\n\n") },
		strings.TrimSpace,
		truncate(maxFreeTextLength),
	}
	return p.Apply(input)
}

func dropControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = TrimAndNormalize(line)
	}
	return strings.Join(lines, "\n")
}

func truncate(limit int) Strategy {
	return func(s string) string {
		runes := []rune(s)
		if len(runes) <= limit {
			return s
		}
		return strings.TrimSpace(string(runes[:limit]))
	}
}
