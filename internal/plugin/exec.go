// Package plugin runs remotely fetched parser programs as subprocesses.
// The engine never loads remote code in-process; the child reads one JSON
// request on stdin and writes one JSON reply on stdout.
package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"

	"loom/parser"
)

// Request is the wire form handed to a plugin program.
type Request struct {
	Source    string         `json:"source"`
	OutputDir string         `json:"output_dir"`
	Operation string         `json:"operation,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
}

// Reply is what a plugin program reports back.
type Reply struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// ExecParser satisfies the parser contract by delegating every operation to
// an external program. The declared operation set comes from the variant
// descriptor, not from the program itself.
type ExecParser struct {
	program string
	ops     []string
	job     parser.Job
}

func NewExecParser(program string, operations []string) *ExecParser {
	return &ExecParser{program: program, ops: operations}
}

func (p *ExecParser) Configure(job parser.Job) error {
	if job.Source == "" || job.OutputDir == "" {
		return errors.New("plugin: source and output directory are required")
	}
	if _, err := os.Stat(p.program); err != nil {
		return fmt.Errorf("plugin: program missing: %w", err)
	}
	p.job = job
	return nil
}

func (p *ExecParser) Operations() []string {
	if len(p.ops) == 0 {
		return []string{"process"}
	}
	return slices.Clone(p.ops)
}

func (p *ExecParser) Process(ctx context.Context) error {
	return p.invoke(ctx, "")
}

func (p *ExecParser) RunOperation(ctx context.Context, name string) error {
	if !slices.Contains(p.Operations(), name) {
		return parser.Unsupported(name, p.Operations())
	}
	return p.invoke(ctx, name)
}

func (p *ExecParser) invoke(ctx context.Context, operation string) error {
	if err := os.MkdirAll(p.job.OutputDir, 0o755); err != nil {
		return fmt.Errorf("plugin: create output dir: %w", err)
	}
	req, err := json.Marshal(Request{
		Source:    p.job.Source,
		OutputDir: p.job.OutputDir,
		Operation: operation,
		Options:   p.job.Options,
	})
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, p.program)
	// Scope the child to the output directory; it receives explicit paths
	// for everything else.
	cmd.Dir = p.job.OutputDir
	cmd.Stdin = bytes.NewReader(req)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("plugin %s: %w (stderr: %s)", p.program, err, stderr.String())
	}
	var reply Reply
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &reply); err != nil {
		return fmt.Errorf("plugin %s: unreadable reply: %w", p.program, err)
	}
	if !reply.OK {
		if reply.Message == "" {
			reply.Message = "plugin reported failure"
		}
		return fmt.Errorf("plugin %s: %s", p.program, reply.Message)
	}
	return nil
}
