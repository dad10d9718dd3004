// Package textdiff renders line-oriented differences between two texts,
// such as the canonical dumps of two wordnet documents.
package textdiff

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the edit applied to a line.
type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

// Line is one line of an edit script, without its line terminator.
type Line struct {
	Op   Op
	Text string
}

// Lines returns the line-level edit script that turns a into b.
func Lines(a, b string) []Line {
	dmp := diffpatch.New()
	ca, cb, table := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), table)

	var out []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffpatch.DiffInsert:
			op = Insert
		case diffpatch.DiffDelete:
			op = Delete
		}
		for _, text := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out = append(out, Line{Op: op, Text: text})
		}
	}
	return out
}

// Changed reports whether the script contains any insertion or deletion.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

// Options controls Write.
type Options struct {
	// Context is the number of unchanged lines shown around each change.
	Context int
	// Color enables ANSI colors regardless of the terminal.
	Color bool
}

type hunk struct {
	start, end int // half-open range into the script
}

// Write renders lines as unified-diff hunks. Nothing is written when the
// script has no changes.
func Write(w io.Writer, lines []Line, opts Options) error {
	// pos[i] holds the number of old and new lines preceding lines[i].
	type position struct{ a, b int }
	pos := make([]position, len(lines)+1)
	for i, l := range lines {
		pos[i+1] = pos[i]
		if l.Op != Insert {
			pos[i+1].a++
		}
		if l.Op != Delete {
			pos[i+1].b++
		}
	}

	header := paint(color.FgCyan, opts.Color)
	added := paint(color.FgGreen, opts.Color)
	removed := paint(color.FgRed, opts.Color)

	bw := bufio.NewWriter(w)
	for _, h := range hunks(lines, opts.Context) {
		first, last := pos[h.start], pos[h.end]
		fmt.Fprintln(bw, header.Sprintf("@@ -%s +%s @@",
			span(first.a, last.a-first.a), span(first.b, last.b-first.b)))
		for _, l := range lines[h.start:h.end] {
			switch l.Op {
			case Insert:
				fmt.Fprintln(bw, added.Sprint("+"+l.Text))
			case Delete:
				fmt.Fprintln(bw, removed.Sprint("-"+l.Text))
			default:
				fmt.Fprintln(bw, " "+l.Text)
			}
		}
	}
	return bw.Flush()
}

// hunks groups changed lines with their context, merging groups that touch.
func hunks(lines []Line, context int) []hunk {
	if context < 0 {
		context = 0
	}
	var out []hunk
	for i, l := range lines {
		if l.Op == Equal {
			continue
		}
		start := max(i-context, 0)
		end := min(i+context+1, len(lines))
		if n := len(out); n > 0 && start <= out[n-1].end {
			out[n-1].end = max(out[n-1].end, end)
			continue
		}
		out = append(out, hunk{start, end})
	}
	return out
}

// span formats a hunk range. An empty range names the line before it.
func span(before, n int) string {
	if n == 0 {
		return fmt.Sprintf("%d,0", before)
	}
	if n == 1 {
		return fmt.Sprintf("%d", before+1)
	}
	return fmt.Sprintf("%d,%d", before+1, n)
}

func paint(attr color.Attribute, enabled bool) *color.Color {
	c := color.New(attr)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
