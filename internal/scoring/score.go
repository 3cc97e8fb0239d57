// Package scoring rates a LinkedIn post body against a fixed set of
// engagement heuristics. Scoring is pure and deterministic.
package scoring

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Grades. GradeNone is only returned for empty content.
const (
	GradeAPlus = "A+"
	GradeA     = "A"
	GradeB     = "B"
	GradeC     = "C"
	GradeD     = "D"
	GradeF     = "F"
	GradeNone  = "-"
)

const (
	TipEmpty         = "Start writing your post!"
	TipHookStrong    = "Start with a strong hook (a question, bold statement, or story opener)"
	TipHookShort     = "Keep your opening line short and punchy (under 100 characters)"
	TipLengthMedium  = "Longer posts (800-1800 chars) tend to get more engagement"
	TipLengthShort   = "Your post is quite short, aim for at least 800 characters"
	TipLengthLong    = "Very long posts can lose attention, consider trimming to under 2500 chars"
	TipStructureMore = "Add more paragraph breaks for better readability"
	TipStructureNone = "Break your post into short paragraphs with blank lines between them"
	TipCTAMove       = "Move your call-to-action to the last line for maximum impact"
	TipCTAMissing    = "End with a question or call-to-action to drive engagement"
	TipHashtagsFew   = "Use 3-5 hashtags for optimal reach"
	TipHashtagsMany  = "Too many hashtags can look spammy, stick to 3-5"
	TipHashtagsNone  = "Add 3-5 relevant hashtags to increase discoverability"
	TipEmojiMany     = "Too many emojis can be distracting, use 1-5 strategically"
	TipEmojiNone     = "A few emojis can make your post more eye-catching"
	TipLinkMove      = "Links in the post body hurt reach, and you have a first comment, so move the link there"
	TipLinkNoComment = "Links in the post body reduce reach by ~40%, move links to the first comment instead"
)

const (
	maxHookLength = 100
	maxScore      = 100
)

var (
	hookStartRe  = regexp.MustCompile(`^(I |Here|Stop|This|What|How|Why|The |Most |Don't)`)
	hookEndRe    = regexp.MustCompile(`[?!:]$`)
	ctaRe        = regexp.MustCompile(`(?i)(\?$|comment|share|agree|thoughts|what do you think|let me know|drop a|tag someone|repost)`)
	hashtagRe    = regexp.MustCompile(`#\w+`)
	urlRe        = regexp.MustCompile(`https?://\S+`)
	paragraphsRe = regexp.MustCompile(`\n\s*\n`)
)

type Result struct {
	Score int      `json:"score"`
	Grade string   `json:"grade"`
	Tips  []string `json:"tips"`
}

// Score rates content. firstComment is the text that will be posted as the
// first comment; it earns a bonus and changes the advice about links.
func Score(content, firstComment string) Result {
	text := strings.TrimSpace(content)
	if text == "" {
		return Result{Score: 0, Grade: GradeNone, Tips: []string{TipEmpty}}
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	s := &scorer{tips: []string{}}
	s.hook(lines[0])
	s.length(utf8.RuneCountInString(text))
	s.structure(len(paragraphsRe.FindAllStringIndex(text, -1)))
	s.callToAction(text, lines[len(lines)-1])
	s.hashtags(len(hashtagRe.FindAllStringIndex(text, -1)))
	s.emoji(countEmoji(text))
	s.links(urlRe.MatchString(text), firstComment != "")
	if strings.TrimSpace(firstComment) != "" {
		s.points += 5
	}

	score := min(s.points, maxScore)
	return Result{Score: score, Grade: gradeFor(score), Tips: s.tips}
}

type scorer struct {
	points int
	tips   []string
}

func (s *scorer) add(points int, tip string) {
	s.points += points
	if tip != "" {
		s.tips = append(s.tips, tip)
	}
}

func (s *scorer) hook(firstLine string) {
	if utf8.RuneCountInString(firstLine) > maxHookLength {
		s.add(5, TipHookShort)
		return
	}
	s.add(10, "")
	if hookEndRe.MatchString(firstLine) || hookStartRe.MatchString(firstLine) {
		s.add(10, "")
		return
	}
	s.add(0, TipHookStrong)
}

func (s *scorer) length(chars int) {
	switch {
	case chars >= 800 && chars <= 1800:
		s.add(20, "")
	case chars >= 400 && chars < 800:
		s.add(15, TipLengthMedium)
	case chars < 400:
		s.add(8, TipLengthShort)
	case chars <= 2500:
		s.add(15, "")
	default:
		s.add(10, TipLengthLong)
	}
}

func (s *scorer) structure(breaks int) {
	switch {
	case breaks >= 2:
		s.add(15, "")
	case breaks == 1:
		s.add(10, TipStructureMore)
	default:
		s.add(3, TipStructureNone)
	}
}

func (s *scorer) callToAction(text, lastLine string) {
	switch {
	case ctaRe.MatchString(lastLine):
		s.add(15, "")
	case ctaRe.MatchString(text):
		s.add(10, TipCTAMove)
	default:
		s.add(0, TipCTAMissing)
	}
}

func (s *scorer) hashtags(n int) {
	switch {
	case n >= 3 && n <= 5:
		s.add(10, "")
	case n >= 1 && n <= 2:
		s.add(7, TipHashtagsFew)
	case n > 5:
		s.add(5, TipHashtagsMany)
	default:
		s.add(0, TipHashtagsNone)
	}
}

func (s *scorer) emoji(n int) {
	switch {
	case n >= 1 && n <= 5:
		s.add(5, "")
	case n > 5:
		s.add(2, TipEmojiMany)
	default:
		s.add(1, TipEmojiNone)
	}
}

func (s *scorer) links(hasURL, hasFirstComment bool) {
	switch {
	case !hasURL:
		s.add(10, "")
	case hasFirstComment:
		s.add(7, TipLinkMove)
	default:
		s.add(0, TipLinkNoComment)
	}
}

func gradeFor(score int) string {
	switch {
	case score >= 90:
		return GradeAPlus
	case score >= 80:
		return GradeA
	case score >= 70:
		return GradeB
	case score >= 60:
		return GradeC
	case score >= 40:
		return GradeD
	default:
		return GradeF
	}
}

func countEmoji(text string) int {
	n := 0
	for _, r := range text {
		if unicode.Is(pictographic, r) {
			n++
		}
	}
	return n
}
