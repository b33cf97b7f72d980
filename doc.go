// Package tome is the composition root of the tome toolkit: the sidebar
// model of a Docusaurus book site and the docs tree behind it.
//
// It wires the core model (sidebars, pages, checks) to the filesystem adapter
// the same way for the library and for the tome command.
//
// Features:
//
//   - **Sidebar model**: documents and nested categories, with the site
//     generator's defaults and structural validation.
//   - **Formats**: sidebars read from and written to JSON, YAML and
//     TypeScript/JavaScript modules.
//   - **Docs tree**: pages with frontmatter, category metadata, transactions
//     and a debounced watcher.
//   - **Checks**: dangling references and pages missing from every sidebar.
//   - **Chapter pipeline**: raw dumps turned into numbered pages with a
//     table of contents and previous/next links.
//
// Usage:
//
//	svc, err := tome.New("./docs", tome.WithReadOnly(true))
//	if err != nil {
//		return err
//	}
//	report, err := svc.Check(ctx, tome.Guide())
//	if err != nil {
//		return err
//	}
//	return report.Err()
package tome
