package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tome/pkg/book"
	"github.com/aretw0/tome/pkg/core"
)

// setupSite writes a minimal project: tome.yaml, a JSON sidebars file and two pages.
func setupSite(t *testing.T, sidebars string) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"tome.yaml":          "docs_dir: docs\nsidebars: sidebars.json\n",
		"sidebars.json":      sidebars,
		"docs/intro.md":      "---\ntitle: Welcome\n---\n# Welcome\n",
		"docs/part1/next.md": "---\nsidebar_position: 1\n---\n# Next\n",
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return filepath.Join(root, "tome.yaml")
}

func run(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCheckCommand(t *testing.T) {
	cfgPath := setupSite(t, `{"main": ["intro", {"type": "category", "label": "Part I", "items": ["part1/next"]}]}`)
	assert.NoError(t, run("check", "--config", cfgPath))

	cfgPath = setupSite(t, `{"main": ["intro", "part1/missing"]}`)
	err := run("check", "--config", cfgPath)
	assert.True(t, errors.Is(err, errFailed), "got %v", err)
}

func TestCheckCommandJSONListsProblems(t *testing.T) {
	cfgPath := setupSite(t, `{"main": ["intro", "intro", "part1/next"]}`)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	err := run("check", "--config", cfgPath, "--json")
	checkJSON = false
	assert.True(t, errors.Is(err, errFailed), "got %v", err)

	var report struct {
		Problems []struct {
			Path    string `json:"path"`
			Message string `json:"message"`
		} `json:"problems"`
		Documents int `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report), out.String())
	require.Len(t, report.Problems, 1)
	assert.Equal(t, "main[1]", report.Problems[0].Path)
	assert.Contains(t, report.Problems[0].Message, "intro")
	assert.Equal(t, 2, report.Documents)
}

func TestFmtCommandWritesOtherFormat(t *testing.T) {
	cfgPath := setupSite(t, `{"main": ["intro", "part1/next"]}`)
	out := filepath.Join(filepath.Dir(cfgPath), "sidebars.yaml")

	require.NoError(t, run("fmt", "--config", cfgPath, "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "main:\n  - intro\n  - part1/next\n", string(data))
	fmtOut = ""
}

func TestRenderSidebar(t *testing.T) {
	got := renderSidebar(book.Guide())

	assert.Contains(t, got, book.SidebarName)
	assert.Contains(t, got, book.PartII)
	assert.Contains(t, got, "part2/chapter06-replication")
	assert.Equal(t, 1, strings.Count(got, "interactive-demo"))
}

func TestEventKinds(t *testing.T) {
	kinds, err := eventKinds([]string{"create", " Delete"})
	require.NoError(t, err)
	assert.Equal(t, []core.EventType{core.EventCreate, core.EventDelete}, kinds)

	_, err = eventKinds([]string{"rename"})
	assert.Error(t, err)
}
