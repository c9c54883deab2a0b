// Package fonts downloads and caches the TrueType fonts the book renderer
// embeds. Missing fonts are tolerated: the renderer substitutes the PDF core
// fonts for any family that could not be fetched.
package fonts

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// fontURLs maps cached file names to their download sources.
var fontURLs = map[string]string{
	"Raleway-Regular.ttf":    "https://cdn.jsdelivr.net/fontsource/fonts/raleway@latest/latin-400-normal.ttf",
	"Raleway-Bold.ttf":       "https://cdn.jsdelivr.net/fontsource/fonts/raleway@latest/latin-700-normal.ttf",
	"Raleway-Italic.ttf":     "https://cdn.jsdelivr.net/fontsource/fonts/raleway@latest/latin-400-italic.ttf",
	"EBGaramond-Regular.ttf": "https://cdn.jsdelivr.net/fontsource/fonts/eb-garamond@latest/latin-400-normal.ttf",
	"EBGaramond-Bold.ttf":    "https://cdn.jsdelivr.net/fontsource/fonts/eb-garamond@latest/latin-700-normal.ttf",
	"DejaVuSans.ttf":         "https://cdn.jsdelivr.net/npm/dejavu-fonts-ttf@2.37.3/ttf/DejaVuSans.ttf",
	"DejaVuSans-Bold.ttf":    "https://cdn.jsdelivr.net/npm/dejavu-fonts-ttf@2.37.3/ttf/DejaVuSans-Bold.ttf",
}

// Families maps logical family names to their cached file names.
var Families = map[string]string{
	"Raleway":         "Raleway-Regular.ttf",
	"Raleway-Bold":    "Raleway-Bold.ttf",
	"Raleway-Italic":  "Raleway-Italic.ttf",
	"EBGaramond":      "EBGaramond-Regular.ttf",
	"EBGaramond-Bold": "EBGaramond-Bold.ttf",
	"DejaVuSans":      "DejaVuSans.ttf",
	"DejaVuSans-Bold": "DejaVuSans-Bold.ttf",
}

// Cache downloads fonts into a local directory once and reuses them after.
type Cache struct {
	dir    string
	client *http.Client
}

// NewCache creates a cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{
		dir:    dir,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// EnsurePresent downloads any missing font files and returns the families
// that are available on disk, keyed by family name with absolute paths as
// values. Download failures are logged and the family is omitted.
func (c *Cache) EnsurePresent(ctx context.Context) map[string]string {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		log.Printf("[fonts] cannot create font dir %s: %v", c.dir, err)
		return map[string]string{}
	}

	for name, url := range fontURLs {
		path := filepath.Join(c.dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := c.download(ctx, url, path); err != nil {
			log.Printf("[fonts] download %s failed: %v", name, err)
		}
	}

	available := make(map[string]string, len(Families))
	for family, file := range Families {
		path := filepath.Join(c.dir, file)
		if _, err := os.Stat(path); err == nil {
			available[family] = path
		}
	}
	return available
}

func (c *Cache) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching font: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching font: status %d", resp.StatusCode)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating font file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing font file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing font file: %w", err)
	}
	return os.Rename(tmp, path)
}
