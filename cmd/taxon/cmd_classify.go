package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/taxon/pkg/taxon/extract"
	"github.com/cognicore/taxon/pkg/taxon/oracle"
	"github.com/cognicore/taxon/pkg/taxon/trie"
)

var (
	classifyFiles       []string
	classifyConcurrency int
)

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Classify text or documents against the configured taxonomy",
	Long: `Classifies the words given as arguments as one text, and each --file
document (.txt or .html) separately. Prints one "name<TAB>path" line per input.`,
	Example: `  taxon classify --config taxon.yaml "the dog barked at the cat"
  taxon classify --file page.html --file notes.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && len(classifyFiles) == 0 {
			return errors.New("nothing to classify: pass text or --file")
		}
		ctx := cmd.Context()

		docs, err := extract.ReadFiles(ctx, classifyFiles, classifyConcurrency)
		if err != nil {
			return err
		}
		if len(args) > 0 {
			docs = append([]extract.Document{{Name: "-", Text: strings.Join(args, " ")}}, docs...)
		}

		comp, cleanup, err := buildComponents(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		return classifyDocuments(cmd, comp.Tree, comp.Oracle, docs)
	},
}

func init() {
	classifyCmd.Flags().StringArrayVarP(&classifyFiles, "file", "f", nil, "Document to classify (repeatable)")
	classifyCmd.Flags().IntVar(&classifyConcurrency, "concurrency", 4, "Documents read in parallel")
}

// classifyDocuments runs docs through tr one at a time. Oracle failures are
// logged and the partial path is still printed.
func classifyDocuments(cmd *cobra.Command, tr *trie.Tree, o oracle.Oracle, docs []extract.Document) error {
	out := cmd.OutOrStdout()
	for _, doc := range docs {
		path, err := tr.Classify(cmd.Context(), strings.ToLower(doc.Text), o)
		if err != nil {
			if ctxErr := cmd.Context().Err(); ctxErr != nil {
				return ctxErr
			}
			logger.Warn("Classification cut short", zap.String("doc", doc.Name), zap.Error(err))
		}
		if err := writeResult(out, doc.Name, path); err != nil {
			return err
		}
	}
	return nil
}

func writeResult(w io.Writer, name string, path []string) error {
	_, err := fmt.Fprintf(w, "%s\t%s\n", name, trie.JoinPath(path))
	return err
}
