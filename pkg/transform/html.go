package transform

import (
	"fmt"
	"io"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// articleSelectors are tried in order; the first match is the chapter body.
var articleSelectors = []string{"main article", "article", "main", "[role=main]", "body"}

// chromeSelectors are removed before conversion.
const chromeSelectors = "nav, header, footer, aside, script, style, noscript, iframe, form, button"

func newChapterPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "section")
	policy.AllowElements("figure", "figcaption")
	return policy
}

// FromHTML converts a scraped chapter page into markdown. Only the article
// body is kept; navigation and scripts are dropped and the markup is
// sanitized before conversion.
func FromHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var article *goquery.Selection
	for _, sel := range articleSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			article = s
			break
		}
	}
	if article == nil {
		return "", fmt.Errorf("no article content found")
	}
	article.Find(chromeSelectors).Remove()

	raw, err := article.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render article: %w", err)
	}
	clean := newChapterPolicy().Sanitize(raw)

	md, err := htmltomarkdown.ConvertString(clean)
	if err != nil {
		return "", fmt.Errorf("failed to convert to markdown: %w", err)
	}
	return strings.TrimSpace(md) + "\n", nil
}
