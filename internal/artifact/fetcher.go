package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"loom/internal/objectstore"
)

// Fetcher downloads remote objects (parser descriptors and programs) into a
// local cache directory. Cache file names are deterministic per remote path;
// concurrent runs sharing the cache are unsupported, a single active run is
// assumed.
type Fetcher struct {
	store    objectstore.Store
	cacheDir string
}

func NewFetcher(store objectstore.Store) *Fetcher {
	return &Fetcher{store: store, cacheDir: os.TempDir()}
}

// NewFetcherAt pins the cache directory, used by tests.
func NewFetcherAt(store objectstore.Store, dir string) *Fetcher {
	return &Fetcher{store: store, cacheDir: dir}
}

// Fetch downloads bucket/key to its cache path and returns the local path.
// Errors pass through the objectstore sentinels so callers can distinguish
// missing credentials and missing objects from transport failures.
func (f *Fetcher) Fetch(ctx context.Context, bucket, key string) (string, error) {
	if f == nil || f.store == nil {
		return "", fmt.Errorf("artifact: %w", objectstore.ErrCredentialsMissing)
	}
	if bucket == "" || key == "" {
		return "", errors.New("artifact: bucket and key are required")
	}
	body, err := f.store.Get(ctx, bucket, key)
	if err != nil {
		return "", err
	}
	defer body.Close()

	// Cache files are plain data; the resolver marks a fetched program
	// executable itself.
	local := f.cachePath(bucket, key)
	out, err := os.OpenFile(local, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return local, nil
}

func (f *Fetcher) cachePath(bucket, key string) string {
	sum := sha256.Sum256([]byte(bucket + "/" + key))
	name := fmt.Sprintf("loom_fetch_%s_%s", hex.EncodeToString(sum[:8]), filepath.Base(key))
	return filepath.Join(f.cacheDir, name)
}
