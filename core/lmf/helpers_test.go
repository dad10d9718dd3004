package lmf

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testLexiconOpen = `<Lexicon id="t" label="T" language="en" email="t@example.com" license="MIT" version="1">`

// document wraps body in the preamble and root element of version.
func document(version, body string) string {
	s := schemas[version]
	return XMLDeclaration + "\n" + s.DocType() + "\n" +
		`<LexicalResource xmlns:dc="` + s.DCNamespace + `">` + body + "</LexicalResource>\n"
}

// lexicon wraps body in a plain Lexicon element.
func lexicon(body string) string {
	return testLexiconOpen + body + "</Lexicon>"
}

// extension wraps body in a LexiconExtension extending lexicon t.
func extension(body string) string {
	return `<LexiconExtension id="x" label="X" language="en" email="x@example.com" license="MIT" version="1">` +
		`<Extends id="t" version="1"/>` + body + "</LexiconExtension>"
}

// entry builds a noun entry with the given sense elements.
func entry(id, senses string) string {
	return `<LexicalEntry id="` + id + `"><Lemma writtenForm="` + id + `" partOfSpeech="n"/>` + senses + "</LexicalEntry>"
}

type collector struct {
	diags []Diagnostic
}

func (c *collector) option() Option {
	return WithDiagnosticHandler(func(d Diagnostic) { c.diags = append(c.diags, d) })
}

func loadString(t *testing.T, doc string, opts ...Option) []*Lexicon {
	t.Helper()
	lexicons, err := Load(strings.NewReader(doc), opts...)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return lexicons
}

func dumpString(t *testing.T, lexicons []*Lexicon, version string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Dump(&buf, lexicons, version, WithLogger(discardLogger)); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	return buf.String()
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(data)
}

func loadFixture(t *testing.T, name string) []*Lexicon {
	t.Helper()
	var c collector
	lexicons := loadString(t, readFixture(t, name), c.option())
	if len(c.diags) > 0 {
		t.Fatalf("fixture %s produced diagnostics: %v", name, c.diags)
	}
	return lexicons
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
