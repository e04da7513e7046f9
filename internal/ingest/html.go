package ingest

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

const blockSelector = "h1,h2,h3,h4,h5,h6,p,li,blockquote,pre,td"

// parseHTML keeps the main content of a saved web page. When readability
// finds nothing useful the whole body is used.
func parseHTML(raw []byte) (string, error) {
	base, _ := url.Parse("file:///submission.html")
	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(bytes.NewReader(raw), base)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		if text, blockErr := blockText(strings.NewReader(article.Content)); blockErr == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
	}

	text, err := blockText(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no extractable text found in html")
	}
	return text, nil
}

func blockText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	doc.Find("script,style,noscript,nav,footer").Remove()

	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are reported by their innermost element.
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			blocks = append(blocks, text)
		}
	})
	if len(blocks) == 0 {
		if body := strings.Join(strings.Fields(doc.Find("body").Text()), " "); body != "" {
			blocks = append(blocks, body)
		}
	}
	return strings.Join(blocks, "\n\n"), nil
}
