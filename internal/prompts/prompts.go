// Package prompts builds the instructions sent to the LLM relay for each
// composer assistant action.
package prompts

import (
	"fmt"
	"sort"
	"strings"
)

// Prompt is a user prompt plus an optional system prompt.
type Prompt struct {
	User   string
	System string
}

func GeneratePost(topic string) Prompt {
	return Prompt{User: fmt.Sprintf(`Write a professional LinkedIn post about %q.

Requirements:
- 2-3 paragraphs
- Engaging, professional tone
- End with a call-to-action
- Follow LinkedIn best practices
- At most 3000 characters

Return only the post content.`, topic)}
}

func Hashtags(content string) Prompt {
	return Prompt{User: fmt.Sprintf(`Suggest 5-8 relevant LinkedIn hashtags for this post. Return only the hashtags, separated by spaces.

Post: %q`, content)}
}

func Rewrite(content, tone string) Prompt {
	if strings.TrimSpace(tone) == "" {
		tone = "professional"
	}
	return Prompt{User: fmt.Sprintf(`Rewrite this LinkedIn post in a %s tone. Keep the core message and adapt the wording and style.

Original: %q

Return only the rewritten post.`, tone, content)}
}

func Improve(content string) Prompt {
	return Prompt{User: fmt.Sprintf(`Improve this LinkedIn post for engagement. Work on:
1. The hook
2. The call-to-action
3. Formatting and readability
4. Emoji use

Post: %q

Return the improved version.`, content)}
}

func Ideas(topic string) Prompt {
	return Prompt{User: fmt.Sprintf(`Give 5 creative LinkedIn post ideas about %q.

Format:
1. [Idea 1]
2. [Idea 2]
3. [Idea 3]
4. [Idea 4]
5. [Idea 5]

Describe each idea in 1-2 sentences.`, topic)}
}

// FromFramework pairs the topic with a framework's system prompt.
func FromFramework(topic, systemPrompt string) Prompt {
	return Prompt{
		User: fmt.Sprintf(`Write a LinkedIn post about this topic or context:

%q

Follow the structure and rules in your system instructions exactly. Return only the post content.`, topic),
		System: systemPrompt,
	}
}

func FirstComment(content string) Prompt {
	return Prompt{User: fmt.Sprintf(`Write the first comment for this LinkedIn post. The comment should:
- Add value with an insight, extra context or a thought-provoking question
- Invite engagement
- Be 1-3 sentences

Post: %q

Return only the comment text.`, content)}
}

type Framework struct {
	ID           string
	Name         string
	SystemPrompt string
}

var frameworks = map[string]Framework{
	"contrarian-hot-take": {
		ID:   "contrarian-hot-take",
		Name: "Contrarian Take",
		SystemPrompt: `You write bold, well-reasoned contrarian LinkedIn posts.
Challenge the conventional wisdom about the given topic.

Structure:
- Hook: open with "Unpopular opinion:" or a bold statement against the norm
- The myth: what most people believe (1-2 lines)
- The reality: your counterpoint, stated with conviction (3-4 lines)
- Evidence: reasoning, experience or examples (3-4 lines)
- Nuance: acknowledge the complexity (1-2 lines)
- CTA: invite debate, for example "Agree or disagree?"

Rules: short punchy paragraphs, 1200-1800 characters, first person, provocative but respectful.

Return only the post text.`,
	},
	"personal-story": {
		ID:   "personal-story",
		Name: "Personal Story",
		SystemPrompt: `You write authentic personal stories for LinkedIn.
Tell a personal story about the given topic that ends in a clear lesson.

Structure:
- Hook: a vulnerable or surprising first line
- Setup: when and where, what was happening (2-3 lines)
- Conflict: the challenge, failure or turning point (3-4 lines)
- Resolution: what changed (2-3 lines)
- Lesson: a takeaway readers can apply (2-3 lines)
- CTA: ask readers to share a similar experience

Rules: one-sentence paragraphs, 1200-2000 characters, first person, specific rather than generic.

Return only the post text.`,
	},
	"data-backed": {
		ID:   "data-backed",
		Name: "Data Insights",
		SystemPrompt: `You make statistics and research compelling on LinkedIn.
Build a post around a data point, statistic or case study on the given topic.

Structure:
- Hook: the most surprising number (1 line)
- Context: where the data comes from and why it matters (2-3 lines)
- Analysis: what it means in practice (3-4 lines)
- Implications: what readers should do differently (2-3 lines)
- CTA: ask readers about their experience

Rules: numbers up front, 1200-1800 characters, first person, accessible rather than academic.

Return only the post text.`,
	},
	"listicle": {
		ID:   "listicle",
		Name: "Listicle",
		SystemPrompt: `You write highly saveable LinkedIn listicles.
Write a numbered, actionable post on the given topic.

Structure:
- Hook: a bold claim about what the reader will learn (1-2 lines)
- List: 5-7 numbered items, each a key phrase plus a one-sentence explanation
- Wrap-up: one line tying it together
- CTA: "Save this for later" or "Which one resonates most?"

Rules: one item per line with breaks between items, 1200-2000 characters, second person, specific and actionable.

Return only the post text.`,
	},
}

// LookupFramework returns the built-in framework with the given id.
func LookupFramework(id string) (Framework, bool) {
	f, ok := frameworks[id]
	return f, ok
}

// Frameworks lists the built-in frameworks ordered by id.
func Frameworks() []Framework {
	out := make([]Framework, 0, len(frameworks))
	for _, f := range frameworks {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
