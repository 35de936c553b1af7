// Package xmlcsv converts flat XML documents to CSV: first-level children of
// the document root are records, their children are columns.
package xmlcsv

import (
	"context"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"loom/parser"
)

const OpXMLToCSV = "xml_to_csv"

type Parser struct {
	job parser.Job
}

func New() parser.Parser { return &Parser{} }

func (p *Parser) Configure(job parser.Job) error {
	if job.Source == "" || job.OutputDir == "" {
		return errors.New("xmlcsv: source and output directory are required")
	}
	p.job = job
	return nil
}

func (p *Parser) Operations() []string { return []string{OpXMLToCSV} }

func (p *Parser) Process(ctx context.Context) error { return p.convert(ctx) }

func (p *Parser) RunOperation(ctx context.Context, name string) error {
	if name != OpXMLToCSV {
		return parser.Unsupported(name, p.Operations())
	}
	return p.convert(ctx)
}

/*──────── conversion ───────*/

type element struct {
	tag      string
	text     string
	children []*element
}

func (p *Parser) convert(_ context.Context) error {
	f, err := os.Open(p.job.Source)
	if err != nil {
		return fmt.Errorf("xmlcsv: open source: %w", err)
	}
	defer f.Close()

	root, err := decodeRoot(xml.NewDecoder(f))
	if err != nil {
		return fmt.Errorf("xmlcsv: %s is not valid XML: %w", p.job.Source, err)
	}
	if len(root.children) == 0 {
		return fmt.Errorf("xmlcsv: %s has no data elements", p.job.Source)
	}

	if err := os.MkdirAll(p.job.OutputDir, 0o755); err != nil {
		return fmt.Errorf("xmlcsv: create output dir: %w", err)
	}
	outPath := filepath.Join(p.job.OutputDir, outputName(p.job.Source))
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("xmlcsv: create output: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	header := make([]string, 0, len(root.children[0].children))
	for _, col := range root.children[0].children {
		header = append(header, col.tag)
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range root.children {
		row := make([]string, 0, len(rec.children))
		for _, col := range rec.children {
			row = append(row, col.text)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// outputName mirrors the source file name with a .csv extension.
func outputName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".csv"
}

func decodeRoot(dec *xml.Decoder) (*element, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return decodeElement(dec, start)
		}
	}
}

func decodeElement(dec *xml.Decoder, start xml.StartElement) (*element, error) {
	el := &element{tag: start.Name.Local}
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			el.children = append(el.children, child)
		case xml.CharData:
			el.text += strings.TrimSpace(string(t))
		case xml.EndElement:
			return el, nil
		}
	}
}
