package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncAdapter(t *testing.T) {
	var gotText string
	var gotCandidates []string
	o := Func(func(_ context.Context, text string, candidates []string) (string, error) {
		gotText, gotCandidates = text, candidates
		return candidates[len(candidates)-1], nil
	})

	out, err := o.Choose(context.Background(), "hello", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "b", out)
	assert.Equal(t, "hello", gotText)
	assert.Equal(t, []string{"a", "b"}, gotCandidates)
}

func TestJoinCandidates(t *testing.T) {
	assert.Equal(t, "", JoinCandidates(nil))
	assert.Equal(t, "mammal", JoinCandidates([]string{"mammal"}))
	assert.Equal(t, "mammal,bird", JoinCandidates([]string{"mammal", "bird"}))
}

func TestUserPrompt(t *testing.T) {
	p := UserPrompt("the cat sat", []string{"mammal", "bird"})
	assert.Contains(t, p, "Labels: mammal,bird")
	assert.Contains(t, p, "Text: the cat sat")
}

func TestCleanAnswer(t *testing.T) {
	cases := map[string]string{
		"mammal":              "mammal",
		"  Mammal.  ":         "mammal",
		"\"bird\"":            "bird",
		"`dog`\nbecause woof": "dog",
		"":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanAnswer(in), "input %q", in)
	}
}

func TestKeywordChoosesFirstMentionedCandidate(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		candidates []string
		want       string
	}{
		{"single token", "My dog chased a bird", []string{"cat", "dog"}, "dog"},
		{"candidate order wins", "a bird and a dog", []string{"dog", "bird"}, "dog"},
		{"case insensitive text", "MAMMAL facts", []string{"bird", "mammal"}, "mammal"},
		{"whole token only", "dogs everywhere", []string{"dog"}, ""},
		{"phrase label", "new machine learning paper", []string{"web", "machine learning"}, "machine learning"},
		{"hyphenated label", "a state-of-the-art model", []string{"state-of-the-art"}, "state-of-the-art"},
		{"underscore joined text", "the_dog_barks", []string{"cat", "dog"}, "dog"},
		{"no mention", "nothing relevant", []string{"a", "b"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Keyword{}.Choose(context.Background(), tt.text, tt.candidates)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
