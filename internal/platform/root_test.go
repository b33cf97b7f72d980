package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindRoot(t *testing.T) {
	// /tmp/
	//   site/ (docusaurus.config.ts)
	//     docs/
	//       part1/
	//   book/ (tome.yaml)
	//   empty/

	baseDir := t.TempDir()
	siteDir := filepath.Join(baseDir, "site")
	docsDir := filepath.Join(siteDir, "docs")
	nestedDir := filepath.Join(docsDir, "part1")
	bookDir := filepath.Join(baseDir, "book")
	emptyDir := filepath.Join(baseDir, "empty")

	for _, dir := range []string{nestedDir, bookDir, emptyDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(siteDir, "docusaurus.config.ts"), []byte("export default {};\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bookDir, "tome.yaml"), []byte("docs_dir: docs\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{
			name:      "Start at Root",
			startPath: siteDir,
			wantRoot:  siteDir,
		},
		{
			name:      "Start in Docs",
			startPath: docsDir,
			wantRoot:  siteDir,
		},
		{
			name:      "Start Nested Deeply",
			startPath: nestedDir,
			wantRoot:  siteDir,
		},
		{
			name:      "Config File Marker",
			startPath: bookDir,
			wantRoot:  bookDir,
		},
		{
			name:      "No Root Found",
			startPath: emptyDir,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("FindRoot() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, ErrRootNotFound) {
					t.Errorf("expected ErrRootNotFound, got %v", err)
				}
				return
			}
			if filepath.Clean(got) != filepath.Clean(tt.wantRoot) {
				t.Errorf("FindRoot() = %v, want %v", got, tt.wantRoot)
			}
		})
	}
}
