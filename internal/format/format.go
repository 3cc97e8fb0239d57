// Package format rewrites plain text into the Unicode styles LinkedIn
// renders, since posts accept neither HTML nor Markdown.
package format

import (
	"regexp"
	"strconv"
	"strings"
)

// Mathematical Sans-Serif Bold and Italic blocks.
const (
	boldUpper   = 0x1D5D4
	boldLower   = 0x1D5EE
	boldDigit   = 0x1D7EC
	italicUpper = 0x1D608
	italicLower = 0x1D622
)

const Bullet = "• "

var numberedRe = regexp.MustCompile(`^\d+\.\s`)

// Bold maps ASCII letters and digits. Everything else is kept.
func Bold(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return boldLower + (r - 'a')
		case r >= 'A' && r <= 'Z':
			return boldUpper + (r - 'A')
		case r >= '0' && r <= '9':
			return boldDigit + (r - '0')
		}
		return r
	}, text)
}

// Italic maps ASCII letters. The italic block has no digits.
func Italic(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return italicLower + (r - 'a')
		case r >= 'A' && r <= 'Z':
			return italicUpper + (r - 'A')
		}
		return r
	}, text)
}

// BulletList prefixes every non-blank line with a bullet. Lines are trimmed
// and blank lines become empty.
func BulletList(text string) string {
	return mapLines(text, func(line string) string {
		if strings.HasPrefix(line, Bullet) {
			return line
		}
		return Bullet + line
	})
}

// NumberedList numbers non-blank lines from 1. Lines that already start
// with "N. " are kept and do not advance the counter.
func NumberedList(text string) string {
	n := 1
	return mapLines(text, func(line string) string {
		if numberedRe.MatchString(line) {
			return line
		}
		line = strconv.Itoa(n) + ". " + line
		n++
		return line
	})
}

// SpaceParagraphs doubles every line break.
func SpaceParagraphs(text string) string {
	return strings.ReplaceAll(text, "\n", "\n\n")
}

func mapLines(text string, fn func(string) string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			lines[i] = ""
			continue
		}
		lines[i] = fn(line)
	}
	return strings.Join(lines, "\n")
}
