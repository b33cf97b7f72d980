package tome_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/tome"
)

// Example_check builds a small docs tree and checks a sidebar against it.
func Example_check() {
	tmpDir, err := os.MkdirTemp("", "tome-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	svc, err := tome.New(filepath.Join(tmpDir, "docs"), tome.WithAutoInit(true))
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	if err := svc.SaveDocument(ctx, "intro", "# Welcome", tome.Metadata{"title": "Welcome"}); err != nil {
		log.Fatal(err)
	}
	if err := svc.SaveDocument(ctx, "part1/basics", "# Basics", nil); err != nil {
		log.Fatal(err)
	}

	sidebars := tome.Sidebars{{
		Name: "guide",
		Items: []tome.Item{
			tome.Doc("intro"),
			tome.Cat("Part I", tome.Doc("part1/basics"), tome.Doc("part1/advanced")),
		},
	}}

	report, err := svc.Check(ctx, sidebars)
	if err != nil {
		log.Fatal(err)
	}
	for _, ref := range report.Dangling {
		fmt.Printf("missing page: %s\n", ref.ID)
	}
	// Output:
	// missing page: part1/advanced
}

// ExampleWriteSidebars round-trips the guide through a YAML file.
func ExampleWriteSidebars() {
	tmpDir, err := os.MkdirTemp("", "tome-sidebars-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "sidebars.yaml")
	if err := tome.WriteSidebars(path, tome.Guide()); err != nil {
		log.Fatal(err)
	}

	sbs, err := tome.ReadSidebars(path)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(sbs.Names())
	fmt.Println(len(sbs.DocIDs()))
	// Output:
	// [guideSidebar]
	// 16
}
