// Command wnlmf inspects, validates, and converts WN-LMF wordnet documents.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/FocuswithJustin/wnlmf/core/lmf"
	"github.com/FocuswithJustin/wnlmf/core/xml"
	"github.com/FocuswithJustin/wnlmf/internal/archive"
	"github.com/FocuswithJustin/wnlmf/internal/logging"
	"github.com/FocuswithJustin/wnlmf/internal/textdiff"
)

const version = "0.1.0"

// CLI defines the command-line interface for wnlmf.
var CLI struct {
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"warn" enum:"debug,info,warn,warning,error"`
	LogFormat string `name:"log-format" help:"Log format (json, text)" default:"text" enum:"json,text"`

	Header  HeaderCmd  `cmd:"" help:"Print the schema version declared by a document"`
	Scan    ScanCmd    `cmd:"" help:"Summarize lexicons without loading them"`
	Load    LoadCmd    `cmd:"" help:"Load a document fully and report its contents"`
	Convert ConvertCmd `cmd:"" help:"Rewrite a document in canonical form"`
	Digest  DigestCmd  `cmd:"" help:"Fingerprint the canonical form of a document"`
	Diff    DiffCmd    `cmd:"" help:"Compare the canonical forms of two documents"`
	Query   QueryCmd   `cmd:"" help:"Evaluate an XPath expression against a document"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// env is bound into every command's Run method.
type env struct {
	ctx context.Context
	out io.Writer
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

// HeaderCmd prints a document's schema version.
type HeaderCmd struct {
	Path string `arg:"" help:"Path to document" type:"existingfile"`
}

func (c *HeaderCmd) Run(e *env) error {
	v, err := lmf.HeaderFile(c.Path)
	if err != nil {
		return err
	}
	e.printf("%s\n", v)
	return nil
}

// ScanCmd summarizes the lexicons of a document.
type ScanCmd struct {
	Path string `arg:"" help:"Path to document" type:"existingfile"`
	JSON bool   `name:"json" help:"Print the full scan as JSON"`
}

type scanRecord struct {
	Attrs   map[string]string `json:"attrs"`
	Counts  map[string]int    `json:"counts"`
	Extends *lmf.Dependency   `json:"extends,omitempty"`
}

func (c *ScanCmd) Run(e *env) error {
	infos, err := lmf.ScanFile(c.Path)
	if err != nil {
		return err
	}
	if c.JSON {
		records := make([]scanRecord, len(infos))
		for i, info := range infos {
			records[i] = scanRecord{Attrs: info.Attrs, Counts: info.Counts, Extends: info.Extends}
		}
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEXICON\tVERSION\tENTRIES\tSYNSETS\tEXTENDS")
	for _, info := range infos {
		ext := "-"
		if info.Extends != nil {
			ext = info.Extends.ID + ":" + info.Extends.Version
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			info.Attrs["id"], info.Attrs["version"], info.Entries(), info.Synsets(), ext)
	}
	return tw.Flush()
}

// LoadCmd loads a document and prints what it contains.
type LoadCmd struct {
	Path   string `arg:"" help:"Path to document" type:"existingfile"`
	Strict bool   `help:"Fail when the document produces any diagnostic"`
}

func (c *LoadCmd) Run(e *env) error {
	lexicons, diags, err := loadWithDiagnostics(e, c.Path)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEXICON\tVERSION\tENTRIES\tSENSES\tSYNSETS\tFRAMES")
	for _, lex := range lexicons {
		senses := 0
		for _, entry := range lex.Entries {
			senses += len(entry.Senses)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
			lex.ID, lex.Version, len(lex.Entries), senses, len(lex.Synsets), len(lex.SyntacticBehaviours))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(diags) > 0 {
		e.printf("%d diagnostics\n", len(diags))
		for _, kind := range sortedKinds(diags) {
			e.printf("  %s: %d\n", kind, diags[kind])
		}
		if c.Strict {
			return fmt.Errorf("%s: %d diagnostics", c.Path, total(diags))
		}
	}
	return nil
}

// loadWithDiagnostics loads path, logging each diagnostic and counting them
// by kind.
func loadWithDiagnostics(e *env, path string) ([]*lmf.Lexicon, map[lmf.DiagnosticKind]int, error) {
	logger := logging.LoggerFromContext(e.ctx)
	diags := map[lmf.DiagnosticKind]int{}
	lexicons, err := lmf.LoadFile(path,
		lmf.WithContext(e.ctx),
		lmf.WithDiagnosticHandler(func(d lmf.Diagnostic) {
			diags[d.Kind]++
			logging.Diagnostic(logger, string(d.Kind), d.Element, d.Value, d.Message,
				"lexicon", d.Lexicon, "attribute", d.Attribute, "path", path)
		}),
	)
	return lexicons, diags, err
}

func sortedKinds(m map[lmf.DiagnosticKind]int) []lmf.DiagnosticKind {
	kinds := make([]lmf.DiagnosticKind, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func total(m map[lmf.DiagnosticKind]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// ConvertCmd rewrites a document in canonical form, optionally changing its
// schema version or compression.
type ConvertCmd struct {
	Input  string `arg:"" help:"Path to source document" type:"existingfile"`
	Output string `arg:"" help:"Path to write (.gz, .xz, .tar.gz and .tar.xz compress)"`
	To     string `name:"to" help:"Target schema version (default: source version)"`
	Force  bool   `help:"Overwrite an existing output file"`
}

func (c *ConvertCmd) Run(e *env) error {
	if !c.Force {
		if _, err := os.Stat(c.Output); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", c.Output)
		}
	}
	target := c.To
	if target == "" {
		v, err := lmf.HeaderFile(c.Input)
		if err != nil {
			return err
		}
		target = v
	}
	lexicons, _, err := loadWithDiagnostics(e, c.Input)
	if err != nil {
		return err
	}
	if err := lmf.DumpFile(c.Output, lexicons, target, lmf.WithContext(e.ctx)); err != nil {
		return err
	}
	e.printf("wrote %s (WN-LMF %s, %d lexicons)\n", c.Output, target, len(lexicons))
	return nil
}

// DigestCmd prints a fingerprint of a document's canonical form, so that
// documents differing only in formatting compare equal.
type DigestCmd struct {
	Paths []string `arg:"" help:"Paths to documents" type:"existingfile"`
	To    string   `name:"to" help:"Schema version of the canonical form (default: source version)"`
}

func (c *DigestCmd) Run(e *env) error {
	for _, path := range c.Paths {
		target := c.To
		if target == "" {
			v, err := lmf.HeaderFile(path)
			if err != nil {
				return err
			}
			target = v
		}
		lexicons, _, err := loadWithDiagnostics(e, path)
		if err != nil {
			return err
		}
		sum, err := lmf.Digest(lexicons, target)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		e.printf("blake3:%s  sha256:%s  %s\n", sum.BLAKE3, sum.SHA256, path)
	}
	return nil
}

// DiffCmd compares two documents after canonicalization, so formatting
// differences are ignored.
type DiffCmd struct {
	Old      string `arg:"" help:"Path to the original document" type:"existingfile"`
	New      string `arg:"" help:"Path to the changed document" type:"existingfile"`
	To       string `name:"to" help:"Schema version of the canonical form (default: version of the original)"`
	Context  int    `short:"U" help:"Lines of context around each change" default:"3"`
	Color    string `help:"Colorize output (auto, always, never)" default:"auto" enum:"auto,always,never"`
	ExitCode bool   `name:"exit-code" help:"Fail when the documents differ"`
}

func (c *DiffCmd) Run(e *env) error {
	target := c.To
	if target == "" {
		v, err := lmf.HeaderFile(c.Old)
		if err != nil {
			return err
		}
		target = v
	}
	a, err := canonical(e, c.Old, target)
	if err != nil {
		return err
	}
	b, err := canonical(e, c.New, target)
	if err != nil {
		return err
	}
	lines := textdiff.Lines(a, b)
	if !textdiff.Changed(lines) {
		return nil
	}
	if err := textdiff.Write(e.out, lines, textdiff.Options{
		Context: c.Context,
		Color:   colorEnabled(c.Color, e.out),
	}); err != nil {
		return err
	}
	if c.ExitCode {
		return fmt.Errorf("%s and %s differ", c.Old, c.New)
	}
	return nil
}

// canonical loads path and returns its dump as version.
func canonical(e *env, path, version string) (string, error) {
	lexicons, _, err := loadWithDiagnostics(e, path)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := lmf.Dump(&buf, lexicons, version, lmf.WithContext(e.ctx)); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return buf.String(), nil
}

func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// QueryCmd evaluates an XPath expression against a document.
type QueryCmd struct {
	Path string `arg:"" help:"Path to document" type:"existingfile"`
	Expr string `arg:"" help:"XPath expression, e.g. //Synset[@ili='i1']"`
	Attr string `help:"Print this attribute of each matched element instead of its XML"`
}

func (c *QueryCmd) Run(e *env) error {
	rc, err := archive.Open(c.Path)
	if err != nil {
		return err
	}
	defer rc.Close()
	doc, err := xml.ParseReader(rc)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Path, err)
	}
	result, err := doc.Evaluate(c.Expr)
	if err != nil {
		return err
	}
	switch v := result.(type) {
	case []*xml.Node:
		for _, n := range v {
			if c.Attr != "" {
				e.printf("%s\n", n.Attr(c.Attr))
			} else {
				e.printf("%s\n", strings.TrimSpace(n.OutputXML()))
			}
		}
	default:
		e.printf("%v\n", v)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(e *env) error {
	e.printf("wnlmf version %s (WN-LMF %s)\n", version, strings.Join(lmf.Versions(), ", "))
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("wnlmf"),
		kong.Description("Read, check, and convert WN-LMF wordnet documents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLoggerWithWriter(os.Stderr, logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	runCtx := logging.WithRunID(context.Background(), uuid.NewString())
	logging.LoggerFromContext(runCtx).Debug("command_started", "command", ctx.Command())
	err := ctx.Run(&env{ctx: runCtx, out: os.Stdout})
	ctx.FatalIfErrorf(err)
}
