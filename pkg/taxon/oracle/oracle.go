// Package oracle defines the labeling capability consumed by trie.Classify and
// the backends and decorators that provide it.
package oracle

import (
	"context"
	"fmt"
	"strings"
)

// Oracle picks one label for text out of candidates. The answer is not
// required to be one of the candidates; callers validate it.
type Oracle interface {
	Choose(ctx context.Context, text string, candidates []string) (string, error)
}

// Func adapts an ordinary function to Oracle.
type Func func(ctx context.Context, text string, candidates []string) (string, error)

// Choose implements Oracle.
func (f Func) Choose(ctx context.Context, text string, candidates []string) (string, error) {
	return f(ctx, text, candidates)
}

// JoinCandidates is the wire form of a candidate list.
func JoinCandidates(candidates []string) string {
	return strings.Join(candidates, ",")
}

// SystemPrompt instructs a chat model to act as a labeling oracle.
const SystemPrompt = "You are a text classifier. Pick exactly one label from the list that best describes the text. " +
	"Reply with the label only, spelled exactly as given, with no punctuation or explanation."

// UserPrompt renders the request sent to chat-model backends.
func UserPrompt(text string, candidates []string) string {
	return fmt.Sprintf("Labels: %s\nText: %s\nLabel:", JoinCandidates(candidates), text)
}

// CleanAnswer normalizes a free-form model reply into a bare label.
func CleanAnswer(reply string) string {
	s := strings.TrimSpace(reply)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, " \t\"'`.")
	return strings.ToLower(s)
}
