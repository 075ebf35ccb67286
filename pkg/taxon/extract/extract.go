// Package extract turns documents into the plain text handed to an oracle.
package extract

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/sync/errgroup"
)

// Document is a named piece of plain text.
type Document struct {
	Name string
	Text string
}

// HTML returns the visible text of an HTML document with whitespace
// collapsed. Script, style and template contents are dropped.
func HTML(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var parts []string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Template, atom.Noscript:
				return
			}
		}
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), nil
}

// Plain collapses whitespace in a plain-text document.
func Plain(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(string(data)), " "), nil
}

// File extracts the text of the named file. .html and .htm files are parsed
// as HTML; everything else is read as plain text.
func File(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()

	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = HTML(f)
	default:
		text, err = Plain(f)
	}
	if err != nil {
		return Document{}, err
	}
	return Document{Name: path, Text: text}, nil
}

// ReadFiles extracts every file concurrently, at most limit at a time
// (limit <= 0 means unbounded). Results keep the order of paths. The first
// failure cancels the remaining reads.
func ReadFiles(ctx context.Context, paths []string, limit int) ([]Document, error) {
	docs := make([]Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := File(path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
