package scoring

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paragraph = "We rebuilt our onboarding flow from scratch last quarter. "

// samplePost is ~1000 characters, opens with an attention word and ends
// with a question. It carries no emoji.
func samplePost(hashtags int, extraLine string) string {
	tags := make([]string, 0, hashtags)
	for i := 1; i <= hashtags; i++ {
		tags = append(tags, fmt.Sprintf("#tag%d", i))
	}
	return "Here is what we learned.\n\n" +
		strings.Repeat(paragraph, 16) + "\n\n" +
		"Tags: " + strings.Join(tags, " ") + "\n\n" +
		extraLine + "\n\n" +
		"What do you think?"
}

func TestScoreEmptyContent(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\t\n"} {
		for _, firstComment := range []string{"", "https://example.com"} {
			res := Score(content, firstComment)
			assert.Equal(t, Result{Score: 0, Grade: GradeNone, Tips: []string{TipEmpty}}, res)
		}
	}
}

func TestScoreShortPost(t *testing.T) {
	res := Score("Hello world", "")

	assert.Equal(t, 32, res.Score)
	assert.Equal(t, GradeF, res.Grade)
	assert.Equal(t, []string{
		TipHookStrong,
		TipLengthShort,
		TipStructureNone,
		TipCTAMissing,
		TipHashtagsNone,
		TipEmojiNone,
	}, res.Tips)
}

func TestScoreWellCraftedStory(t *testing.T) {
	content := strings.Join([]string{
		"Most founders get hiring wrong in their first year.",
		"",
		"I hired fast, trusted resumes, and skipped reference calls.",
		"It cost us six months and two great customers.",
		"",
		"Now we hire slow. #hiring #startups #leadership",
		"What would you add to this list?",
	}, "\n")

	res := Score(content, "Full checklist: https://example.com/hiring")

	assert.Equal(t, 84, res.Score)
	assert.Equal(t, GradeA, res.Grade)
	assert.Equal(t, []string{TipLengthShort, TipEmojiNone}, res.Tips)
}

func TestScoreIsDeterministic(t *testing.T) {
	content := samplePost(4, "Resources: https://example.com/guide 🚀")
	first := Score(content, "link below")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(content, "link below"))
	}
}

func TestScoreHashtagSweep(t *testing.T) {
	want := []int{81, 88, 88, 91, 91, 91, 86, 86}
	scores := make([]int, 0, len(want))
	for n := 0; n < len(want); n++ {
		scores = append(scores, Score(samplePost(n, "Resources: see the guide"), "").Score)
	}

	assert.Equal(t, want, scores)
	for _, inBand := range scores[3:6] {
		assert.Greater(t, inBand, scores[0])
		assert.Greater(t, inBand, scores[6])
		assert.Greater(t, inBand, scores[7])
	}
}

func TestScoreURLPenalty(t *testing.T) {
	withURL := samplePost(3, "Resources: https://example.com/guide")
	withoutURL := samplePost(3, "Resources: see the guide")

	for _, firstComment := range []string{"", "Guide: https://example.com/guide"} {
		a, b := Score(withURL, firstComment), Score(withoutURL, firstComment)
		assert.Less(t, a.Score, b.Score, "firstComment=%q", firstComment)
	}

	res := Score(withURL, "")
	assert.Contains(t, res.Tips, TipLinkNoComment)

	res = Score(withURL, "see comment")
	assert.Contains(t, res.Tips, TipLinkMove)
}

func TestScoreFirstCommentNeverLowers(t *testing.T) {
	contents := []string{
		"Hello world",
		samplePost(3, "Resources: https://example.com/guide"),
		samplePost(0, "Resources: see the guide"),
		"Check https://example.com now",
	}
	for _, content := range contents {
		base := Score(content, "").Score
		for _, fc := range []string{" ", "thanks", "https://example.com"} {
			assert.GreaterOrEqual(t, Score(content, fc).Score, base)
		}
	}
}

func TestScoreFirstCommentBonusNeedsText(t *testing.T) {
	content := samplePost(3, "Resources: see the guide")
	base := Score(content, "").Score

	assert.Equal(t, base, Score(content, "   ").Score)
	assert.Equal(t, base+5, Score(content, "More in the comments").Score)
}

func TestScoreHook(t *testing.T) {
	long := "This " + strings.Repeat("very ", 20) + "long opening line keeps going."
	require.Greater(t, len(long), maxHookLength)

	res := Score(long+"\n\nWhat do you think?", "")
	assert.Contains(t, res.Tips, TipHookShort)
	assert.NotContains(t, res.Tips, TipHookStrong)

	for _, opener := range []string{"Ever wondered why?", "Big news!", "Three lessons:", "Why I quit", "Don't do this"} {
		res := Score(opener+"\nbody", "")
		assert.NotContains(t, res.Tips, TipHookStrong, opener)
	}

	// Attention words are case sensitive and need the trailing space.
	res = Score("Images are hard\nbody", "")
	assert.Contains(t, res.Tips, TipHookStrong)
}

func TestScoreCallToAction(t *testing.T) {
	res := Score("Big news!\nLet me know your view.\nThat's all", "")
	assert.Contains(t, res.Tips, TipCTAMove)

	res = Score("Big news!\nThat's all\nDROP A like if useful", "")
	assert.NotContains(t, res.Tips, TipCTAMove)
	assert.NotContains(t, res.Tips, TipCTAMissing)
}

func TestScoreEmoji(t *testing.T) {
	base := Score(samplePost(3, "Resources: see the guide"), "").Score

	few := Score(samplePost(3, "Resources: see the guide 🚀💡✅"), "")
	many := Score(samplePost(3, "Resources: 🚀🚀🚀 see 🔥🔥🔥 the guide 👉"), "")

	assert.Equal(t, base+4, few.Score)
	assert.Equal(t, base+1, many.Score)
	assert.Contains(t, many.Tips, TipEmojiMany)
}

func TestScorerBands(t *testing.T) {
	lengths := []struct {
		chars  int
		points int
		tip    string
	}{
		{0, 8, TipLengthShort},
		{399, 8, TipLengthShort},
		{400, 15, TipLengthMedium},
		{799, 15, TipLengthMedium},
		{800, 20, ""},
		{1800, 20, ""},
		{1801, 15, ""},
		{2500, 15, ""},
		{2501, 10, TipLengthLong},
	}
	for _, tc := range lengths {
		s := &scorer{}
		s.length(tc.chars)
		assert.Equal(t, tc.points, s.points, "chars=%d", tc.chars)
		if tc.tip == "" {
			assert.Empty(t, s.tips, "chars=%d", tc.chars)
		} else {
			assert.Equal(t, []string{tc.tip}, s.tips, "chars=%d", tc.chars)
		}
	}

	structure := map[int]int{0: 3, 1: 10, 2: 15, 7: 15}
	for breaks, points := range structure {
		s := &scorer{}
		s.structure(breaks)
		assert.Equal(t, points, s.points, "breaks=%d", breaks)
	}

	emoji := map[int]int{0: 1, 1: 5, 5: 5, 6: 2}
	for n, points := range emoji {
		s := &scorer{}
		s.emoji(n)
		assert.Equal(t, points, s.points, "emoji=%d", n)
	}
}

func TestGradeFor(t *testing.T) {
	cases := map[int]string{
		100: GradeAPlus, 90: GradeAPlus, 89: GradeA, 80: GradeA, 79: GradeB, 70: GradeB,
		69: GradeC, 60: GradeC, 59: GradeD, 40: GradeD, 39: GradeF, 0: GradeF,
	}
	for score, grade := range cases {
		assert.Equal(t, grade, gradeFor(score), "score=%d", score)
	}
}

func TestScoreBounded(t *testing.T) {
	inputs := []string{
		"x",
		strings.Repeat("🚀", 3000),
		strings.Repeat("#a ", 500),
		samplePost(4, "🚀 https://example.com"),
	}
	for _, in := range inputs {
		res := Score(in, "comment")
		assert.GreaterOrEqual(t, res.Score, 0)
		assert.LessOrEqual(t, res.Score, 100)
	}
}
