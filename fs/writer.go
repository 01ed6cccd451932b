// Package fs writes crawl results to disk as markdown files.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/distill"
	"gopkg.in/yaml.v3"
)

// URLToPath maps a page URL to a relative markdown path under its host.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", distill.Errorf(distill.EINVALID, "invalid url %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", distill.Errorf(distill.EINVALID, "url %q has no host", rawURL)
	}
	host := strings.ReplaceAll(u.Host, ":", "_")

	p := strings.TrimPrefix(u.Path, "/")
	switch {
	case p == "":
		p = "index.md"
	case strings.HasSuffix(p, "/"):
		p += "index.md"
	default:
		p = strings.TrimSuffix(p, filepath.Ext(p)) + ".md"
	}
	return filepath.Join(host, filepath.FromSlash(p)), nil
}

type frontMatter struct {
	URL         string    `yaml:"url"`
	Title       string    `yaml:"title,omitempty"`
	ID          string    `yaml:"id"`
	ContentHash string    `yaml:"content_hash"`
	Crawled     time.Time `yaml:"crawled"`
	Filtered    bool      `yaml:"filtered"`
}

var _ distill.ResultWriter = (*Writer)(nil)

// Writer writes each successful result as a markdown file with YAML front
// matter, optionally next to the full result as JSON.
type Writer struct {
	baseDir string

	// JSON also writes <path>.json holding the whole result.
	JSON bool

	// Now returns the crawl timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewWriter creates a new Writer rooted at baseDir.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir, Now: time.Now}
}

// Format renders a result as front matter followed by its best markdown:
// the filtered rendition when present, otherwise the cited markdown and
// its references.
func (w *Writer) Format(result *distill.CrawlResult) (string, error) {
	fm := frontMatter{
		URL:         result.URL,
		Title:       result.Title,
		ID:          result.ID,
		ContentHash: result.ContentHash,
		Crawled:     w.Now().UTC().Truncate(time.Second),
	}
	var body string
	if md := result.Markdown; md != nil {
		if md.FitMarkdown != "" {
			fm.Filtered = true
			body = md.FitMarkdown
		} else {
			body = md.MarkdownWithCitations + md.ReferencesMarkdown
		}
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", distill.Errorf(distill.EINTERNAL, "encode front matter: %v", err)
	}
	if err := enc.Close(); err != nil {
		return "", distill.Errorf(distill.EINTERNAL, "encode front matter: %v", err)
	}
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimSpace(body))
	buf.WriteString("\n")
	return buf.String(), nil
}

// WriteResult writes result under the writer's base directory.
// Failed results are rejected.
func (w *Writer) WriteResult(_ context.Context, result *distill.CrawlResult) error {
	if !result.Success {
		return distill.Errorf(distill.EINVALID, "cannot write failed result for %s", result.URL)
	}
	rel, err := URLToPath(result.URL)
	if err != nil {
		return err
	}
	full := filepath.Join(w.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}

	content, err := w.Format(result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return err
	}

	if !w.JSON {
		return nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return distill.Errorf(distill.EINTERNAL, "encode result: %v", err)
	}
	return os.WriteFile(strings.TrimSuffix(full, ".md")+".json", data, 0o644)
}
