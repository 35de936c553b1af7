package artifact

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loom/internal/objectstore"
)

func TestResolve_StoreRef(t *testing.T) {
	l := NewLocator("/data")
	got, err := l.Resolve("store://incoming/report.xml")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := filepath.Join("/data", "incoming", "report.xml")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	l := NewLocator("/data")
	first, err := l.Resolve("store://out/")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := l.Resolve(first)
	if err != nil {
		t.Fatalf("Resolve resolved path: %v", err)
	}
	if first != second {
		t.Fatalf("resolution not idempotent: %q vs %q", first, second)
	}
}

func TestResolve_Malformed(t *testing.T) {
	l := NewLocator("/data")
	for _, ref := range []string{"", "   ", "store://", "store:///"} {
		if _, err := l.Resolve(ref); err == nil {
			t.Fatalf("expected error for ref %q", ref)
		}
	}
}

/*──────── fetcher ───────*/

type fakeStore struct {
	objects map[string]string
	err     error
}

func (f *fakeStore) Get(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, objectstore.ErrObjectNotFound
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (f *fakeStore) Put(context.Context, string, string, io.Reader, int64, string) error {
	return nil
}

func TestFetch_WritesDeterministicCachePath(t *testing.T) {
	dir := t.TempDir()
	st := &fakeStore{objects: map[string]string{"scripts/parsers/x.yaml": "classname: X"}}
	f := NewFetcherAt(st, dir)

	first, err := f.Fetch(context.Background(), "scripts", "parsers/x.yaml")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	second, err := f.Fetch(context.Background(), "scripts", "parsers/x.yaml")
	if err != nil {
		t.Fatalf("Fetch again: %v", err)
	}
	if first != second {
		t.Fatalf("cache path not deterministic: %q vs %q", first, second)
	}
	got, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read cache file: %v", err)
	}
	if string(got) != "classname: X" {
		t.Fatalf("unexpected content %q", got)
	}
	info, err := os.Stat(first)
	if err != nil {
		t.Fatalf("stat cache file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("cache files must not be executable, got mode %o", perm)
	}
}

func TestFetch_NotFoundPassesThrough(t *testing.T) {
	f := NewFetcherAt(&fakeStore{objects: map[string]string{}}, t.TempDir())
	_, err := f.Fetch(context.Background(), "scripts", "missing.yaml")
	if !errors.Is(err, objectstore.ErrObjectNotFound) {
		t.Fatalf("want ErrObjectNotFound, got %v", err)
	}
}

func TestFetch_NoStoreMeansNoCredentials(t *testing.T) {
	f := NewFetcherAt(nil, t.TempDir())
	_, err := f.Fetch(context.Background(), "scripts", "x.yaml")
	if !errors.Is(err, objectstore.ErrCredentialsMissing) {
		t.Fatalf("want ErrCredentialsMissing, got %v", err)
	}
}
