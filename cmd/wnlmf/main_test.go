package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Test helper functions

func testEnv() (*env, *bytes.Buffer) {
	var out bytes.Buffer
	return &env{ctx: context.Background(), out: &out}, &out
}

func fixture(name string) string {
	return filepath.Join("..", "..", "core", "lmf", "testdata", name)
}

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

const countDiagnosticDoc = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE LexicalResource SYSTEM "http://globalwordnet.github.io/schemas/WN-LMF-1.0.dtd">
<LexicalResource xmlns:dc="http://purl.org/dc/elements/1.1/">
  <Lexicon id="t" label="T" language="en" email="t@example.com" license="MIT" version="1">
    <LexicalEntry id="e1">
      <Lemma writtenForm="w" partOfSpeech="n" />
      <Sense id="e1-s1" synset="s1" adjposition="nowhere">
        <Count>many</Count>
      </Sense>
    </LexicalEntry>
    <Synset id="s1" partOfSpeech="n" />
  </Lexicon>
</LexicalResource>
`

func TestHeaderCmd_Run(t *testing.T) {
	tests := []struct {
		fixture string
		want    string
	}{
		{"mini-lmf-1.0.xml", "1.0\n"},
		{"mini-lmf-1.1.xml", "1.1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			e, out := testEnv()
			cmd := &HeaderCmd{Path: fixture(tt.fixture)}
			if err := cmd.Run(e); err != nil {
				t.Fatalf("HeaderCmd.Run() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestScanCmd_Run(t *testing.T) {
	e, out := testEnv()
	cmd := &ScanCmd{Path: fixture("mini-lmf-1.1.xml")}
	if err := cmd.Run(e); err != nil {
		t.Fatalf("ScanCmd.Run() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out.String())
	}
	if fields := strings.Fields(lines[2]); len(fields) != 5 || fields[0] != "test-en-ext" || fields[4] != "test-en:1" {
		t.Errorf("extension row = %q", lines[2])
	}
}

func TestScanCmd_JSON(t *testing.T) {
	e, out := testEnv()
	cmd := &ScanCmd{Path: fixture("mini-lmf-1.0.xml"), JSON: true}
	if err := cmd.Run(e); err != nil {
		t.Fatalf("ScanCmd.Run() error = %v", err)
	}
	var records []scanRecord
	if err := json.Unmarshal(out.Bytes(), &records); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Attrs["dc:publisher"] != "Example & Co." {
		t.Errorf("attrs = %v", records[0].Attrs)
	}
	if records[0].Counts["Synset"] != 5 || records[0].Extends != nil {
		t.Errorf("record = %+v", records[0])
	}
}

func TestLoadCmd_Run(t *testing.T) {
	e, out := testEnv()
	cmd := &LoadCmd{Path: fixture("mini-lmf-1.0.xml")}
	if err := cmd.Run(e); err != nil {
		t.Fatalf("LoadCmd.Run() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out.String())
	}
	if got := strings.Join(strings.Fields(lines[1]), " "); got != "test-en 1 4 5 5 2" {
		t.Errorf("row = %q", got)
	}
}

func TestLoadCmd_Diagnostics(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "diag.xml", countDiagnosticDoc)

	e, out := testEnv()
	if err := (&LoadCmd{Path: path}).Run(e); err != nil {
		t.Fatalf("LoadCmd.Run() error = %v", err)
	}
	for _, want := range []string{"2 diagnostics", "count: 1", "literal: 1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	e, _ = testEnv()
	err := (&LoadCmd{Path: path, Strict: true}).Run(e)
	if err == nil || !strings.Contains(err.Error(), "2 diagnostics") {
		t.Errorf("strict LoadCmd.Run() error = %v", err)
	}
}

func TestLoadCmd_Invalid(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "bad.xml", "not a wordnet\n")
	e, _ := testEnv()
	if err := (&LoadCmd{Path: path}).Run(e); err == nil {
		t.Error("LoadCmd.Run() expected error for malformed header")
	}
}

func TestConvertCmd_Run(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		to      string
		wantErr bool
	}{
		{name: "same version", input: "mini-lmf-1.1.xml", output: "out.xml"},
		{name: "compressed", input: "mini-lmf-1.0.xml", output: "out.xml.gz"},
		{name: "package", input: "mini-lmf-1.1.xml", output: "out.tar.xz"},
		{name: "frames to 1.1", input: "mini-lmf-1.0.xml", output: "out.xml", to: "1.1", wantErr: true},
		{name: "extension to 1.0", input: "mini-lmf-1.1.xml", output: "out.xml", to: "1.0", wantErr: true},
		{name: "unknown version", input: "mini-lmf-1.0.xml", output: "out.xml", to: "3.0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := filepath.Join(t.TempDir(), tt.output)
			e, out := testEnv()
			cmd := &ConvertCmd{Input: fixture(tt.input), Output: output, To: tt.to}
			err := cmd.Run(e)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ConvertCmd.Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			_, statErr := os.Stat(output)
			if tt.wantErr {
				if !os.IsNotExist(statErr) {
					t.Error("output created despite error")
				}
				return
			}
			if statErr != nil {
				t.Fatalf("output not created: %v", statErr)
			}
			if !strings.HasPrefix(out.String(), "wrote ") {
				t.Errorf("output = %q", out.String())
			}

			// The canonical fixture converts to a byte-identical document.
			if tt.output == "out.xml" {
				got, _ := os.ReadFile(output)
				want, _ := os.ReadFile(fixture(tt.input))
				if !bytes.Equal(got, want) {
					t.Error("converted document differs from canonical fixture")
				}
			}
		})
	}
}

func TestConvertCmd_Force(t *testing.T) {
	dir := t.TempDir()
	output := createTestFile(t, dir, "out.xml", "existing")

	e, _ := testEnv()
	cmd := &ConvertCmd{Input: fixture("mini-lmf-1.0.xml"), Output: output}
	if err := cmd.Run(e); err == nil {
		t.Fatal("ConvertCmd.Run() should refuse to overwrite")
	}
	cmd.Force = true
	if err := cmd.Run(e); err != nil {
		t.Fatalf("ConvertCmd.Run() with force error = %v", err)
	}
	if data, _ := os.ReadFile(output); string(data) == "existing" {
		t.Error("output was not overwritten")
	}
}

func TestDigestCmd_Run(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(fixture("mini-lmf-1.0.xml"))
	if err != nil {
		t.Fatal(err)
	}
	// Same content, different layout.
	flat := createTestFile(t, dir, "flat.xml", strings.ReplaceAll(string(data), "\n    ", "\n"))

	e, out := testEnv()
	cmd := &DigestCmd{Paths: []string{fixture("mini-lmf-1.0.xml"), flat}}
	if err := cmd.Run(e); err != nil {
		t.Fatalf("DigestCmd.Run() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	a, b := strings.Fields(lines[0]), strings.Fields(lines[1])
	if a[0] != b[0] || a[1] != b[1] {
		t.Errorf("digests differ:\n%s\n%s", lines[0], lines[1])
	}
	if !strings.HasPrefix(a[0], "blake3:") || !strings.HasPrefix(a[1], "sha256:") {
		t.Errorf("line format = %q", lines[0])
	}

	e, _ = testEnv()
	if err := (&DigestCmd{Paths: []string{flat}, To: "1.1"}).Run(e); err == nil {
		t.Error("DigestCmd.Run() expected error for frames under 1.1")
	}
}

func TestQueryCmd_Run(t *testing.T) {
	tests := []struct {
		name string
		cmd  QueryCmd
		want string
	}{
		{
			name: "attribute",
			cmd:  QueryCmd{Expr: "//Synset[@partOfSpeech='v']", Attr: "ili"},
			want: "i29639\ni29640\n",
		},
		{
			name: "count",
			cmd:  QueryCmd{Expr: "count(//Sense)"},
			want: "5\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, out := testEnv()
			cmd := tt.cmd
			cmd.Path = fixture("mini-lmf-1.0.xml")
			if err := cmd.Run(e); err != nil {
				t.Fatalf("QueryCmd.Run() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestQueryCmd_Element(t *testing.T) {
	e, out := testEnv()
	cmd := &QueryCmd{Path: fixture("mini-lmf-1.0.xml"), Expr: "//Synset[@id='test-en-0002-n']/Definition"}
	if err := cmd.Run(e); err != nil {
		t.Fatalf("QueryCmd.Run() error = %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "<Definition") || !strings.Contains(got, `sourceSense="test-en-example-n-0002-01"`) {
		t.Errorf("output = %q", got)
	}
}

func TestQueryCmd_InvalidExpression(t *testing.T) {
	e, _ := testEnv()
	cmd := &QueryCmd{Path: fixture("mini-lmf-1.0.xml"), Expr: "//Synset["}
	if err := cmd.Run(e); err == nil {
		t.Error("QueryCmd.Run() expected error for invalid expression")
	}
}

func TestVersionCmd_Run(t *testing.T) {
	e, out := testEnv()
	if err := (&VersionCmd{}).Run(e); err != nil {
		t.Fatalf("VersionCmd.Run() error = %v", err)
	}
	if want := "wnlmf version " + version + " (WN-LMF 1.0, 1.1)\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestDiffCmd_Run(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(fixture("mini-lmf-1.0.xml"))
	if err != nil {
		t.Fatal(err)
	}
	flat := createTestFile(t, dir, "flat.xml", strings.ReplaceAll(string(data), "\n    ", "\n"))
	edited := createTestFile(t, dir, "edited.xml",
		strings.Replace(string(data), "be characteristic of", "be typical of", 1))

	e, out := testEnv()
	if err := (&DiffCmd{Old: fixture("mini-lmf-1.0.xml"), New: flat, Context: 3, Color: "never", ExitCode: true}).Run(e); err != nil {
		t.Fatalf("DiffCmd.Run() error = %v for reformatted document", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output for equivalent documents, got:\n%s", out.String())
	}

	e, out = testEnv()
	cmd := &DiffCmd{Old: fixture("mini-lmf-1.0.xml"), New: edited, Context: 0, Color: "never"}
	if err := cmd.Run(e); err != nil {
		t.Fatalf("DiffCmd.Run() error = %v", err)
	}
	want := "-      <Definition>be characteristic of</Definition>\n" +
		"+      <Definition>be typical of</Definition>\n"
	if !strings.HasPrefix(out.String(), "@@ ") || !strings.HasSuffix(out.String(), want) {
		t.Errorf("output =\n%s", out.String())
	}

	e, _ = testEnv()
	cmd.ExitCode = true
	if err := cmd.Run(e); err == nil || !strings.Contains(err.Error(), "differ") {
		t.Errorf("DiffCmd.Run() with exit code error = %v", err)
	}
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		mode string
		want bool
	}{
		{"always", true},
		{"never", false},
		{"auto", false},
	}
	for _, tt := range tests {
		if got := colorEnabled(tt.mode, &buf); got != tt.want {
			t.Errorf("colorEnabled(%q) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}
