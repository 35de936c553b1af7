// Package zipfile extracts ZIP archives into the transformation's output
// directory.
package zipfile

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"loom/parser"
)

const OpUnzip = "unzip"

type Parser struct {
	job parser.Job
}

func New() parser.Parser { return &Parser{} }

func (p *Parser) Configure(job parser.Job) error {
	if job.Source == "" || job.OutputDir == "" {
		return errors.New("zipfile: source and output directory are required")
	}
	p.job = job
	return nil
}

func (p *Parser) Operations() []string { return []string{OpUnzip} }

func (p *Parser) Process(ctx context.Context) error { return p.unzip(ctx) }

func (p *Parser) RunOperation(ctx context.Context, name string) error {
	if name != OpUnzip {
		return parser.Unsupported(name, p.Operations())
	}
	return p.unzip(ctx)
}

func (p *Parser) unzip(_ context.Context) error {
	// archive/zip has no decryption support; reject rather than silently
	// extract garbage.
	if pw, ok := p.job.Options["password"]; ok && pw != "" {
		return errors.New("zipfile: encrypted archives are not supported")
	}

	r, err := zip.OpenReader(p.job.Source)
	if err != nil {
		return fmt.Errorf("zipfile: %s is not a valid ZIP file: %w", p.job.Source, err)
	}
	defer r.Close()

	if err := os.MkdirAll(p.job.OutputDir, 0o755); err != nil {
		return fmt.Errorf("zipfile: create output dir: %w", err)
	}
	for _, f := range r.File {
		if err := extractOne(f, p.job.OutputDir); err != nil {
			return err
		}
	}
	return nil
}

func extractOne(f *zip.File, outDir string) error {
	dest := filepath.Join(outDir, filepath.Clean(f.Name))
	if !strings.HasPrefix(dest, filepath.Clean(outDir)+string(os.PathSeparator)) {
		return fmt.Errorf("zipfile: entry %q escapes output directory", f.Name)
	}
	if f.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
