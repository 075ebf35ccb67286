// Package shell implements the line-oriented command surface over a taxonomy
// tree. Input is read as whitespace-separated words: a command, followed by
// one argument for the commands that take one.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/cognicore/taxon/pkg/taxon/internalerr"
	"github.com/cognicore/taxon/pkg/taxon/oracle"
	"github.com/cognicore/taxon/pkg/taxon/snapshot"
	"github.com/cognicore/taxon/pkg/taxon/store"
	"github.com/cognicore/taxon/pkg/taxon/trie"
)

// Replies.
const (
	replySuccess = "success"
	replyFailure = "failure"
	replyIllegal = "illegal argument"
)

// Session executes commands against one tree.
type Session struct {
	Tree   *trie.Tree
	Oracle oracle.Oracle

	// Store and Snapshots back SAVE and RESTORE. Both may be nil, in which case
	// those commands fail.
	Store     store.Store
	Snapshots *snapshot.Builder

	Logger *zap.Logger
}

// takesArgument lists the commands followed by one argument word.
var takesArgument = map[string]bool{
	"LOAD":     true,
	"INSERT":   true,
	"CLASSIFY": true,
	"ERASE":    true,
	"SAVE":     true,
	"RESTORE":  true,
}

// Run reads commands from in until EXIT or end of input and writes one reply
// line per command to out.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	words := bufio.NewScanner(in)
	words.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	words.Split(bufio.ScanWords)

	w := bufio.NewWriter(out)
	defer w.Flush()

	for words.Scan() {
		cmd := words.Text()
		arg := ""
		if takesArgument[cmd] {
			if !words.Scan() {
				break
			}
			arg = words.Text()
		}
		if cmd == "EXIT" {
			break
		}

		reply, ok := s.Execute(ctx, cmd, arg)
		if !ok {
			s.logger().Debug("Ignoring unknown command", zap.String("command", cmd))
			continue
		}
		if _, err := fmt.Fprintln(w, reply); err != nil {
			return err
		}
		// Replies are flushed per command so an interactive peer sees them.
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return words.Err()
}

// Execute runs a single command and returns its reply line. ok is false for
// unknown commands and for EXIT, which have no reply.
func (s *Session) Execute(ctx context.Context, cmd, arg string) (reply string, ok bool) {
	logger := s.logger()
	logger.Debug("Executing command", zap.String("command", cmd), zap.String("argument", arg))

	switch cmd {
	case "LOAD":
		return s.load(arg), true
	case "INSERT":
		inserted, err := s.Tree.Insert(trie.ParsePath(arg))
		if err != nil {
			return replyIllegal, true
		}
		return outcome(inserted), true
	case "CLASSIFY":
		return s.classify(ctx, arg), true
	case "ERASE":
		path := trie.ParsePath(arg)
		for _, label := range path {
			if err := trie.ValidateLabel(label); err != nil {
				return replyIllegal, true
			}
		}
		return outcome(s.Tree.Erase(path)), true
	case "PRINT":
		return s.Tree.Print(), true
	case "EMPTY":
		if s.Tree.Empty() {
			return "empty 1", true
		}
		return "empty 0", true
	case "CLEAR":
		s.Tree.Clear()
		return replySuccess, true
	case "SIZE":
		return fmt.Sprintf("number of classifications is %d", s.Tree.Size()), true
	case "SAVE":
		return s.save(ctx, arg), true
	case "RESTORE":
		return s.restore(ctx, arg), true
	}
	return "", false
}

func (s *Session) load(filename string) string {
	n, err := s.Tree.LoadFile(filename)
	if err != nil {
		s.logger().Warn("Load failed", zap.String("file", filename), zap.Int("inserted", n), zap.Error(err))
		if errors.Is(err, internalerr.ErrInvalidLabel) {
			return replyIllegal
		}
		return replyFailure
	}
	s.logger().Info("Loaded taxonomy", zap.String("file", filename), zap.Int("inserted", n))
	return replySuccess
}

func (s *Session) classify(ctx context.Context, text string) string {
	if strings.IndexFunc(text, unicode.IsUpper) >= 0 {
		return replyIllegal
	}
	if s.Oracle == nil {
		s.logger().Warn("No oracle configured")
		return ""
	}
	path, err := s.Tree.Classify(ctx, text, s.Oracle)
	if err != nil {
		s.logger().Warn("Classification cut short", zap.Strings("path", path), zap.Error(err))
	}
	return trie.JoinPath(path)
}

func (s *Session) save(ctx context.Context, name string) string {
	if s.Store == nil || s.Snapshots == nil {
		s.logger().Warn("SAVE without a snapshot store")
		return replyFailure
	}
	snap := s.Snapshots.Take(name, s.Tree)
	if err := s.Store.SaveSnapshot(ctx, snap); err != nil {
		s.logger().Error("Saving snapshot failed", zap.String("name", name), zap.Error(err))
		return replyFailure
	}
	s.logger().Info("Saved snapshot", zap.String("name", name), zap.String("id", snap.ID), zap.Int("classifications", len(snap.Paths)))
	return replySuccess
}

func (s *Session) restore(ctx context.Context, name string) string {
	if s.Store == nil {
		s.logger().Warn("RESTORE without a snapshot store")
		return replyFailure
	}
	snap, found, err := s.Store.LatestSnapshot(ctx, name)
	if err != nil {
		s.logger().Error("Loading snapshot failed", zap.String("name", name), zap.Error(err))
		return replyFailure
	}
	if !found {
		return replyFailure
	}
	if err := snapshot.Restore(s.Tree, snap); err != nil {
		s.logger().Error("Restoring snapshot failed", zap.String("id", snap.ID), zap.Error(err))
		return replyFailure
	}
	return replySuccess
}

func (s *Session) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func outcome(ok bool) string {
	if ok {
		return replySuccess
	}
	return replyFailure
}
