package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildersEmbedInput(t *testing.T) {
	cases := map[string]Prompt{
		"generate":      GeneratePost("remote work"),
		"hashtags":      Hashtags("remote work"),
		"rewrite":       Rewrite("remote work", "casual"),
		"improve":       Improve("remote work"),
		"ideas":         Ideas("remote work"),
		"first-comment": FirstComment("remote work"),
	}
	for name, p := range cases {
		assert.Contains(t, p.User, `"remote work"`, name)
		assert.Empty(t, p.System, name)
	}
	assert.Contains(t, cases["rewrite"].User, "casual tone")
}

func TestRewriteDefaultsTone(t *testing.T) {
	assert.Contains(t, Rewrite("post", " ").User, "professional tone")
}

func TestInputIsQuoted(t *testing.T) {
	p := Improve("say \"hi\"\nthen leave")
	assert.Contains(t, p.User, `"say \"hi\"\nthen leave"`)
}

func TestFromFramework(t *testing.T) {
	f, ok := LookupFramework("listicle")
	require.True(t, ok)
	assert.Equal(t, "Listicle", f.Name)

	p := FromFramework("career tips", f.SystemPrompt)
	assert.Equal(t, f.SystemPrompt, p.System)
	assert.Contains(t, p.User, `"career tips"`)

	_, ok = LookupFramework("missing")
	assert.False(t, ok)
}

func TestFrameworksSorted(t *testing.T) {
	list := Frameworks()
	require.Len(t, list, 4)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}
