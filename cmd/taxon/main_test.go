package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cognicore/taxon/pkg/taxon/extract"
	"github.com/cognicore/taxon/pkg/taxon/oracle"
	"github.com/cognicore/taxon/pkg/taxon/trie"
)

const testConfig = `
oracle:
  provider: keyword
taxonomy:
  classifications:
    - animal,mammal,dog
    - animal,mammal
    - animal,bird
    - animal
    - plant
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func newTestCommand(in string) (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetIn(strings.NewReader(in))
	cmd.SetOut(&out)
	return cmd, &out
}

func TestReadConfigFallsBackToEnv(t *testing.T) {
	configPath = ""
	t.Setenv("TAXON_CONFIG", writeConfig(t, testConfig))

	cfg, err := readConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"animal,mammal,dog", "animal,mammal", "animal,bird", "animal", "plant"}, cfg.Taxonomy.Classifications)
}

func TestReadConfigDefaults(t *testing.T) {
	configPath = ""
	t.Setenv("TAXON_CONFIG", "")

	cfg, err := readConfig()
	require.NoError(t, err)
	assert.Equal(t, "keyword", cfg.Oracle.Provider)
}

func TestRunShellUsesConfiguredTaxonomy(t *testing.T) {
	logger = zap.NewNop()
	configPath = writeConfig(t, testConfig)
	t.Cleanup(func() { configPath = "" })

	cmd, out := newTestCommand("SIZE\nCLASSIFY a-bird-animal\nEXIT\n")
	require.NoError(t, runShell(cmd, nil))
	assert.Equal(t, "number of classifications is 5\nanimal,bird\n", out.String())
}

func TestExportPrintsTaxonomy(t *testing.T) {
	logger = zap.NewNop()
	configPath = writeConfig(t, testConfig)
	exportSnapshot = ""
	t.Cleanup(func() { configPath = "" })

	cmd, out := newTestCommand("")
	require.NoError(t, exportCmd.RunE(cmd, nil))
	assert.Equal(t, "animal,mammal,dog\nanimal,mammal\nanimal,bird\nanimal\nplant\n", out.String())
}

func TestExportFeedsLoad(t *testing.T) {
	logger = zap.NewNop()
	configPath = writeConfig(t, testConfig)
	exportSnapshot = ""
	t.Cleanup(func() { configPath = "" })

	cmd, exported := newTestCommand("")
	require.NoError(t, exportCmd.RunE(cmd, nil))
	file := filepath.Join(t.TempDir(), "taxonomy.txt")
	require.NoError(t, os.WriteFile(file, exported.Bytes(), 0o644))

	configPath = writeConfig(t, "oracle:\n  provider: keyword\n")
	cmd, out := newTestCommand("LOAD " + file + "\nSIZE\nPRINT\n")
	require.NoError(t, runShell(cmd, nil))
	assert.Equal(t, "success\nnumber of classifications is 5\n"+
		"animal_animal,mammal_animal,mammal,dog_animal,bird_plant_\n", out.String())
}

func TestExportMissingSnapshot(t *testing.T) {
	logger = zap.NewNop()
	configPath = writeConfig(t, testConfig)
	exportSnapshot = "nightly"
	t.Cleanup(func() {
		configPath = ""
		exportSnapshot = ""
	})

	cmd, _ := newTestCommand("")
	err := exportCmd.RunE(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nightly")
}

func TestClassifyDocuments(t *testing.T) {
	logger = zap.NewNop()
	tr := trie.New()
	// Deepest first so every ancestor stays a classification.
	for _, p := range []string{"animal,mammal,dog", "animal,mammal", "animal,bird", "animal", "plant"} {
		_, err := tr.Insert(trie.ParsePath(p))
		require.NoError(t, err)
	}

	docs := []extract.Document{
		{Name: "a.txt", Text: "Every Animal here is a Bird"},
		{Name: "b.txt", Text: "nothing relevant"},
	}
	cmd, out := newTestCommand("")
	require.NoError(t, classifyDocuments(cmd, tr, oracle.Keyword{}, docs))
	assert.Equal(t, "a.txt\tanimal,bird\nb.txt\t\n", out.String())
}

func TestClassifyRequiresInput(t *testing.T) {
	classifyFiles = nil
	cmd, _ := newTestCommand("")
	require.Error(t, classifyCmd.RunE(cmd, nil))
}
