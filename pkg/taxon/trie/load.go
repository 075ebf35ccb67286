package trie

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cognicore/taxon/pkg/taxon/internalerr"
)

type loadOptions struct {
	onInvalid func(line int, err error)
}

// LoadOption tunes Load and LoadFile.
type LoadOption func(*loadOptions)

// SkipInvalid makes a bulk load report invalid lines to fn and carry on
// instead of aborting at the first one.
func SkipInvalid(fn func(line int, err error)) LoadOption {
	return func(o *loadOptions) {
		if fn == nil {
			fn = func(int, error) {}
		}
		o.onInvalid = fn
	}
}

// Load inserts one classification per line of r. Lines are comma-joined
// label paths; blank lines are ignored. It returns the number of paths that
// were newly registered.
//
// By default the first line failing label validation aborts the load and the
// paths inserted before it stay in the tree.
func (t *Tree) Load(r io.Reader, opts ...LoadOption) (int, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	scanner := bufio.NewScanner(r)
	inserted := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		ok, err := t.Insert(ParsePath(line))
		if err != nil {
			if o.onInvalid != nil && errors.Is(err, internalerr.ErrInvalidLabel) {
				o.onInvalid(lineNo, err)
				continue
			}
			return inserted, fmt.Errorf("trie: load line %d: %w", lineNo, err)
		}
		if ok {
			inserted++
		}
	}
	if err := scanner.Err(); err != nil {
		return inserted, fmt.Errorf("trie: load: %w", err)
	}
	return inserted, nil
}

// LoadFile is Load over the contents of the named file.
func (t *Tree) LoadFile(path string, opts ...LoadOption) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return t.Load(f, opts...)
}
