package resources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ManifestName is the optional catalogue file inside a resource directory.
const ManifestName = "manifest.yaml"

// manifest is the YAML layout of ManifestName.
type manifest struct {
	Resources []Item `yaml:"resources"`
}

// DirProvider serves the catalogue from a local directory. When the
// directory holds a manifest.yaml its entries are used, and entries may
// point at remote http(s) URIs; otherwise every regular file is an item.
type DirProvider struct {
	dir      string
	cacheDir string
	client   *http.Client
	logger   *zap.Logger
}

// DirOption configures a DirProvider.
type DirOption func(*DirProvider)

// WithHTTPClient sets the client used for remote downloads.
func WithHTTPClient(c *http.Client) DirOption {
	return func(p *DirProvider) { p.client = c }
}

// WithCacheDir sets where remote downloads are stored.
func WithCacheDir(dir string) DirOption {
	return func(p *DirProvider) { p.cacheDir = dir }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) DirOption {
	return func(p *DirProvider) { p.logger = l }
}

// NewDirProvider returns a provider rooted at dir.
func NewDirProvider(dir string, opts ...DirOption) *DirProvider {
	p := &DirProvider{
		dir:      dir,
		cacheDir: filepath.Join(os.TempDir(), "studyflow-resources"),
		client:   &http.Client{Timeout: 2 * time.Minute},
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *DirProvider) List(_ context.Context) ([]Item, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, ManifestName))
	switch {
	case err == nil:
		var m manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", ManifestName, err)
		}
		return m.Resources, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", ManifestName, err)
	}

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("read resource dir: %w", err)
	}

	var items []Item
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(e.Name())), ".")
		items = append(items, Item{
			Title:      strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			ContentURI: e.Name(),
			Type:       ext,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Title < items[j].Title })
	return items, nil
}

// Download returns a local path holding the item's content. Local entries
// resolve relative to the provider directory; http(s) entries are fetched
// into the cache directory.
func (p *DirProvider) Download(ctx context.Context, item Item) (string, error) {
	u, err := url.Parse(item.ContentURI)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return p.fetch(ctx, u)
	}

	path := item.ContentURI
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.dir, path)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, item.ContentURI)
	}
	return path, nil
}

func (p *DirProvider) fetch(ctx context.Context, u *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", u, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrNotFound, u)
	case resp.StatusCode >= 300:
		return "", fmt.Errorf("download %s: status %d", u, resp.StatusCode)
	}

	if err := os.MkdirAll(p.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	name := filepath.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "resource"
	}
	f, err := os.CreateTemp(p.cacheDir, "*-"+name)
	if err != nil {
		return "", fmt.Errorf("create download file: %w", err)
	}

	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("save %s: %w", u, err)
	}

	p.logger.Debug("resource downloaded",
		zap.String("url", u.String()),
		zap.String("path", f.Name()),
		zap.Int64("bytes", n))
	return f.Name(), nil
}
