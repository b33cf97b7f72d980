// Package book holds the navigation and chapter catalogue of the
// "Designing Data-Intensive Applications" study guide site.
package book

import (
	"fmt"

	"github.com/aretw0/tome/pkg/core"
)

// SidebarName is the key under which the guide sidebar is published.
const SidebarName = "guideSidebar"

// Part labels, as shown in the site navigation.
const (
	PartI   = "Part I: Foundations of Data Systems"
	PartII  = "Part II: Distributed Data"
	PartIII = "Part III: Derived Data"
)

var guide = core.Sidebars{{
	Name: SidebarName,
	Items: []core.Item{
		core.Doc("intro"),
		core.Cat(PartI, core.Docs(
			"part1/chapter01-tradeoffs",
			"part1/chapter02-nonfunctional-requirements",
			"part1/chapter03-data-models",
			"part1/chapter04-storage-retrieval",
			"part1/chapter05-encoding-evolution",
		)...),
		core.Cat(PartII, core.Docs(
			"part2/chapter06-replication",
			"part2/chapter07-sharding",
			"part2/chapter08-transactions",
			"part2/chapter09-distributed-systems",
			"part2/chapter10-consistency-consensus",
		)...),
		core.Cat(PartIII, core.Docs(
			"part3/chapter11-batch-processing",
			"part3/chapter12-stream-processing",
			"part3/chapter13-streaming-philosophy",
			"part3/chapter14-ethics",
		)...),
		core.Doc("interactive-demo"),
	},
}}

// Sidebars returns a copy of the site sidebars. Callers may modify it freely.
func Sidebars() core.Sidebars {
	return guide.Clone()
}

// Guide returns a copy of the guide sidebar.
func Guide() core.Sidebar {
	sb, _ := guide.Get(SidebarName)
	return sb.Clone()
}

// Chapter describes one chapter page of the guide and how it is produced.
type Chapter struct {
	Number      int
	Title       string
	DocID       string
	Source      string // raw dump file name, e.g. "chapter6.md"
	Description string
}

// Heading returns the page heading, e.g. "Chapter 6. Replication".
func (c Chapter) Heading() string {
	return fmt.Sprintf("Chapter %d. %s", c.Number, c.Title)
}

var chapters = []Chapter{
	chapter(1, "Trade-offs in Data Systems Architecture", "part1/chapter01-tradeoffs",
		"Weighing the trade-offs behind analytical, operational, cloud and distributed data systems"),
	chapter(2, "Defining Nonfunctional Requirements", "part1/chapter02-nonfunctional-requirements",
		"Describing performance, reliability, scalability and maintainability of data systems"),
	chapter(3, "Data Models and Query Languages", "part1/chapter03-data-models",
		"Exploring different data models including relational, document, graph, and their trade-offs"),
	chapter(4, "Storage and Retrieval", "part1/chapter04-storage-retrieval",
		"How databases store data and retrieve it efficiently using indexes and storage engines"),
	chapter(5, "Encoding and Evolution", "part1/chapter05-encoding-evolution",
		"Data encoding formats and schema evolution for maintaining compatibility across versions"),
	chapter(6, "Replication", "part2/chapter06-replication",
		"Keeping copies of the same data on multiple machines with leaders, followers and quorums"),
	chapter(7, "Sharding", "part2/chapter07-sharding",
		"Splitting large datasets across nodes and routing requests to the right shard"),
	chapter(8, "Transactions", "part2/chapter08-transactions",
		"Understanding database transactions and their guarantees"),
	chapter(9, "The Trouble with Distributed Systems", "part2/chapter09-distributed-systems",
		"Understanding the fundamental challenges in distributed systems"),
	chapter(10, "Consistency and Consensus", "part2/chapter10-consistency-consensus",
		"Exploring consistency models and consensus algorithms in distributed systems"),
	chapter(11, "Batch Processing", "part3/chapter11-batch-processing",
		"Learn about batch processing systems, MapReduce, and distributed data processing"),
	chapter(12, "Stream Processing", "part3/chapter12-stream-processing",
		"Explore stream processing systems, event streams, and real-time data processing"),
	chapter(13, "A Philosophy of Streaming Systems", "part3/chapter13-streaming-philosophy",
		"Understand the philosophy and principles behind modern streaming architectures"),
	chapter(14, "Doing the Right Thing", "part3/chapter14-ethics",
		"Examine the ethical implications and responsibilities in data systems"),
}

func chapter(n int, title, id, desc string) Chapter {
	return Chapter{
		Number:      n,
		Title:       title,
		DocID:       id,
		Source:      fmt.Sprintf("chapter%d.md", n),
		Description: desc,
	}
}

// Chapters returns the chapter catalogue in reading order.
func Chapters() []Chapter {
	return append([]Chapter(nil), chapters...)
}

// ChapterByNumber looks up a chapter.
func ChapterByNumber(n int) (Chapter, bool) {
	for _, c := range chapters {
		if c.Number == n {
			return c, true
		}
	}
	return Chapter{}, false
}

// ChapterByID looks up a chapter by document ID.
func ChapterByID(id string) (Chapter, bool) {
	for _, c := range chapters {
		if c.DocID == id {
			return c, true
		}
	}
	return Chapter{}, false
}
