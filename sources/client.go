// backend/sources/client.go
package sources

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/certihub/backend/config"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// newHTTPClient builds the shared adapter client. Some of the portals
// reject default Go user agents, so every request goes out with a
// browser UA via uaTransport.
func newHTTPClient() *http.Client {
	timeout := config.AppConfig.HTTP.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: uaTransport{base: http.DefaultTransport},
	}
}

type uaTransport struct {
	base http.RoundTripper
}

func (t uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	// RoundTrippers must not mutate the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", browserUserAgent)
	return t.base.RoundTrip(clone)
}

// fetchJSON GETs url and decodes the body into out.
func fetchJSON(client *http.Client, url string, out interface{}) error {
	res, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to get URL %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to get URL %s: status code %d", url, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode JSON from %s: %w", url, err)
	}
	return nil
}

// fetchDocument GETs url and parses the body as an HTML document.
func fetchDocument(client *http.Client, url string) (*goquery.Document, error) {
	res, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to get URL %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get URL %s: status code %d", url, res.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", url, err)
	}
	return doc, nil
}

// probeURL issues a HEAD request and reports whether the page answers
// with a non-error status. Used by the always-open vendor adapters where
// "the registration page is alive" is the signal being collected.
func probeURL(client *http.Client, url string) (bool, error) {
	res, err := client.Head(url)
	if err != nil {
		return false, fmt.Errorf("failed to probe URL %s: %w", url, err)
	}
	defer res.Body.Close()
	return res.StatusCode < 400, nil
}
