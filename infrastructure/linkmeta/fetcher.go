package linkmeta

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"boardcore/application/ports"
	pkgerrors "boardcore/pkg/errors"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fetcher implements ports.LinkMetadataFetcher by fetching the page and
// reading its Open Graph, Twitter Card, and standard HTML metadata.
type Fetcher struct {
	client *http.Client
	logger *zap.Logger
}

// NewFetcher creates a metadata fetcher. The caller bounds each fetch with a
// context deadline; the client itself carries no timeout.
func NewFetcher(client *http.Client, logger *zap.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch resolves a link preview for the URL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*ports.LinkMetadata, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, pkgerrors.NewValidationError("invalid url: " + rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch url: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	meta := &ports.LinkMetadata{
		Title: firstNonEmpty(
			doc.Find("title").First().Text(),
			metaContent(doc, `meta[property="og:title"]`),
			metaContent(doc, `meta[name="twitter:title"]`),
		),
		Description: firstNonEmpty(
			metaContent(doc, `meta[name="description"]`),
			metaContent(doc, `meta[property="og:description"]`),
			metaContent(doc, `meta[name="twitter:description"]`),
		),
		Image: firstNonEmpty(
			metaContent(doc, `meta[property="og:image"]`),
			metaContent(doc, `meta[name="twitter:image"]`),
			metaContent(doc, `meta[name="twitter:image:src"]`),
		),
	}

	favicon := firstNonEmpty(
		linkHref(doc, `link[rel="icon"]`),
		linkHref(doc, `link[rel="shortcut icon"]`),
		"/favicon.ico",
	)
	meta.Favicon = absolutize(parsed, favicon)

	f.logger.Debug("link metadata fetched",
		zap.String("url", rawURL),
		zap.String("title", meta.Title),
	)
	return meta, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return content
}

func linkHref(doc *goquery.Document, selector string) string {
	href, _ := doc.Find(selector).First().Attr("href")
	return href
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// absolutize resolves a possibly relative favicon path against the page URL
func absolutize(page *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return page.ResolveReference(parsed).String()
}
