package resolve

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/docseek-io/filing-lookup/adapter/fetcher"
	"github.com/docseek-io/filing-lookup/adapter/logger"
	"golang.org/x/net/html"
)

const (
	archiveBase = "https://www.sec.gov/Archives/edgar/data/%s/%s/"
	indexFile   = "index.html"
)

type Service struct {
	fetcher fetcher.Fetcher
	logger  logger.Logger
}

func New(f fetcher.Fetcher, l logger.Logger) *Service {
	return &Service{fetcher: f, logger: l}
}

// Resolve picks the primary document of a filing from its listing page and
// returns its URL. It never fails: when the page cannot be fetched or holds
// no usable candidate the listing page URL itself is the result.
func (s *Service) Resolve(ctx context.Context, cik, accessionStripped string) string {

	baseURL := fmt.Sprintf(archiveBase, cik, accessionStripped)
	indexURL := baseURL + indexFile

	res, err := s.fetcher.Fetch(ctx, indexURL)
	if err != nil {
		s.logger.Log(fmt.Sprintf("Fetch error for listing page '%s': %s", indexURL, err.Error()))
		return indexURL
	}
	if !res.Success() {
		s.logger.Log(fmt.Sprintf("Got status code %d for listing page '%s'", res.StatusCode, indexURL))
		return indexURL
	}

	document, err := html.Parse(bytes.NewReader(res.Body))
	if err != nil {
		s.logger.Log(fmt.Sprintf("Parse error for listing page '%s': %s", indexURL, err.Error()))
		return indexURL
	}

	// amendments and cover documents are conventionally listed after the
	// primary filing document, so among equals the last entry wins
	lastCandidate := ""
	lastIndexNamed := ""
	for _, href := range hrefs(document) {
		if !isCandidate(href) {
			continue
		}
		if strings.ToLower(href) == indexFile {
			lastIndexNamed = href
			continue
		}
		lastCandidate = href
	}

	if len(lastCandidate) > 0 {
		return baseURL + lastCandidate
	}
	if len(lastIndexNamed) > 0 {
		return baseURL + lastIndexNamed
	}
	return indexURL
}

// isCandidate accepts file names that look like a document in the filing's
// own folder
func isCandidate(href string) bool {
	lower := strings.ToLower(href)
	if !strings.HasSuffix(lower, ".htm") && !strings.HasSuffix(lower, ".html") {
		return false
	}
	// links into subdirectories are other filings, not files of this one
	if strings.Contains(href, "/") {
		return false
	}
	// guard against differently suffixed artifacts slipping through
	if strings.HasSuffix(lower, ".txt") {
		return false
	}
	return true
}

// hrefs collects the trimmed href value of every anchor in the document
func hrefs(document *html.Node) []string {
	links := []string{}

	var crawler func(node *html.Node)
	crawler = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" {
			for _, a := range node.Attr {
				if a.Key == "href" {
					links = append(links, strings.TrimSpace(a.Val))
					break
				}
			}
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			crawler(child)
		}
	}
	crawler(document)

	return links
}
