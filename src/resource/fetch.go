// Package resource fetches the external files a chart needs at start: fonts and remote data.
//
// A location is an http(s) URL, a file:// URL, or a plain filesystem path. Any failure is a
// *vizerr.ResourceError; nothing falls back to a substitute.
package resource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iafilius/DataVizDesign/src/vizerr"
	"github.com/iafilius/DataVizDesign/src/vizlog"
)

// DefaultTimeout bounds a single remote fetch when the caller does not supply a client.
const DefaultTimeout = 30 * time.Second

// MaxBytes caps a single resource. Fonts and the example CSVs are well below this.
const MaxBytes = 64 << 20

// Fetcher loads resources by location. The zero value is usable.
type Fetcher struct {
	Client *http.Client
	// CacheDir, when set, keeps a copy of every remote resource keyed by the SHA-256 of its URL.
	CacheDir string
}

// IsRemote reports whether loc is an http or https URL.
func IsRemote(loc string) bool {
	l := strings.ToLower(strings.TrimSpace(loc))
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Fetch returns the bytes at loc.
func (f *Fetcher) Fetch(ctx context.Context, loc string) ([]byte, error) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return nil, &vizerr.ResourceError{URL: loc, Err: fmt.Errorf("empty location")}
	}
	if !IsRemote(loc) {
		return f.readLocal(loc)
	}
	if b, ok := f.fromCache(loc); ok {
		vizlog.Debugf("[resource] cache hit %s", loc)
		return b, nil
	}
	defer vizlog.TimeTrack(time.Now(), "fetch "+loc)
	b, err := f.get(ctx, loc)
	if err != nil {
		return nil, &vizerr.ResourceError{URL: loc, Err: err}
	}
	f.toCache(loc, b)
	return b, nil
}

func (f *Fetcher) client() *http.Client {
	if f != nil && f.Client != nil {
		return f.Client
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func (f *Fetcher) get(ctx context.Context, loc string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(b) > MaxBytes {
		return nil, fmt.Errorf("resource exceeds %d bytes", MaxBytes)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	return b, nil
}

func (f *Fetcher) readLocal(loc string) ([]byte, error) {
	path := loc
	if strings.HasPrefix(strings.ToLower(loc), "file://") {
		u, err := url.Parse(loc)
		if err != nil {
			return nil, &vizerr.ResourceError{URL: loc, Err: err}
		}
		path = u.Path
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &vizerr.ResourceError{URL: loc, Err: err}
	}
	return b, nil
}

func (f *Fetcher) cachePath(loc string) string {
	sum := sha256.Sum256([]byte(loc))
	name := hex.EncodeToString(sum[:])
	if ext := filepath.Ext(strings.SplitN(loc, "?", 2)[0]); ext != "" && len(ext) <= 6 {
		name += ext
	}
	return filepath.Join(f.CacheDir, name)
}

func (f *Fetcher) fromCache(loc string) ([]byte, bool) {
	if f == nil || f.CacheDir == "" {
		return nil, false
	}
	b, err := os.ReadFile(f.cachePath(loc))
	if err != nil || len(b) == 0 {
		return nil, false
	}
	return b, true
}

// toCache is best effort: a cache write failure only costs a refetch next run.
func (f *Fetcher) toCache(loc string, b []byte) {
	if f == nil || f.CacheDir == "" {
		return
	}
	if err := os.MkdirAll(f.CacheDir, 0o755); err != nil {
		vizlog.Warnf("[resource] cache dir %s: %v", f.CacheDir, err)
		return
	}
	p := f.cachePath(loc)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		vizlog.Warnf("[resource] cache write %s: %v", p, err)
		return
	}
	if err := os.Rename(tmp, p); err != nil {
		vizlog.Warnf("[resource] cache rename %s: %v", p, err)
	}
}
