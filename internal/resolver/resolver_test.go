package resolver

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"loom/internal/artifact"
	"loom/internal/objectstore"
	"loom/internal/plugin"
	"loom/parser"
)

type stubParser struct{}

func (stubParser) Configure(parser.Job) error                 { return nil }
func (stubParser) Process(context.Context) error              { return nil }
func (stubParser) Operations() []string                       { return []string{"process"} }
func (stubParser) RunOperation(context.Context, string) error { return nil }

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

func remoteOver(t *testing.T, st objectstore.Store) *Remote {
	t.Helper()
	return NewRemote(artifact.NewFetcherAt(st, t.TempDir()))
}

func scriptKwargs() map[string]any {
	return map[string]any{
		KwargScriptsBucket: "loom-scripts",
		KwargScriptsPath:   "parsers/",
	}
}

func TestResolve_RemoteWins(t *testing.T) {
	st := &fakeStore{objects: map[string]string{
		"loom-scripts/parsers/gzip_file_parser.yaml": "schema_version: v1\nclassname: GzipFileParser\noperations: [gunzip]\nprogram: gzip_file_parser\n",
		"loom-scripts/parsers/gzip_file_parser":      "#!/bin/sh\necho '{\"ok\": true}'\n",
	}}
	parser.Register("gzip_file_parser", "GzipFileParser", func() parser.Parser { return stubParser{} })

	cacheDir := t.TempDir()
	r := New(NewRemote(artifact.NewFetcherAt(st, cacheDir)), Local{})
	f, err := r.Resolve(context.Background(), "GzipFileParser", scriptKwargs())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := f().(*plugin.ExecParser); !ok {
		t.Fatalf("expected remote exec variant, got %T", f())
	}

	// Only the fetched program carries the execute bit; the descriptor
	// stays plain data.
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			t.Fatalf("stat %s: %v", e.Name(), err)
		}
		perm := info.Mode().Perm()
		switch {
		case strings.HasSuffix(e.Name(), ".yaml"):
			if perm&0o111 != 0 {
				t.Fatalf("descriptor %s must not be executable, mode %o", e.Name(), perm)
			}
		default:
			if perm&0o100 == 0 {
				t.Fatalf("program %s must be executable, mode %o", e.Name(), perm)
			}
		}
	}
}

func TestResolve_RemoteFailureFallsBackToLocal(t *testing.T) {
	parser.Register("csv_trim_parser", "CsvTrimParser", func() parser.Parser { return stubParser{} })

	for _, storeErr := range []error{objectstore.ErrCredentialsMissing, objectstore.ErrObjectNotFound} {
		r := New(remoteOver(t, &fakeStore{err: storeErr}), Local{})
		f, err := r.Resolve(context.Background(), "CsvTrimParser", scriptKwargs())
		if err != nil {
			t.Fatalf("Resolve with remote error %v: %v", storeErr, err)
		}
		if _, ok := f().(stubParser); !ok {
			t.Fatalf("expected local variant, got %T", f())
		}
	}
}

func TestResolve_DescriptorClassMismatchFallsBack(t *testing.T) {
	st := &fakeStore{objects: map[string]string{
		"loom-scripts/parsers/tar_file_parser.yaml": "classname: SomethingElse\nprogram: tar_file_parser\n",
	}}
	parser.Register("tar_file_parser", "TarFileParser", func() parser.Parser { return stubParser{} })

	r := New(remoteOver(t, st), Local{})
	f, err := r.Resolve(context.Background(), "TarFileParser", scriptKwargs())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := f().(stubParser); !ok {
		t.Fatalf("expected local variant after descriptor mismatch, got %T", f())
	}
}

func TestResolve_NeitherStrategy(t *testing.T) {
	r := New(remoteOver(t, &fakeStore{objects: map[string]string{}}), Local{})
	_, err := r.Resolve(context.Background(), "UnknownParser", scriptKwargs())
	if !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("want ErrVariantNotFound, got %v", err)
	}
}

func TestResolve_EmptyClass(t *testing.T) {
	r := New(nil, Local{})
	_, err := r.Resolve(context.Background(), "  ", nil)
	if !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("want ErrVariantNotFound, got %v", err)
	}
}

func TestResolve_AcronymRunAgainstRegistry(t *testing.T) {
	parser.Register("html_parser_v2", "HTMLParserV2", func() parser.Parser { return stubParser{} })

	r := New(nil, Local{})
	f, err := r.Resolve(context.Background(), "HTMLParserV2", nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := f().(stubParser); !ok {
		t.Fatalf("expected registry variant, got %T", f())
	}
}

func TestRemote_RequiresScriptsLocation(t *testing.T) {
	rem := remoteOver(t, &fakeStore{objects: map[string]string{}})
	if _, err := rem.Resolve(context.Background(), "AnyParser", "any_parser", nil); err == nil {
		t.Fatal("expected error without scripts_bucket/scripts_path")
	}
}
