package xml

import (
	"strings"
	"testing"
)

const testDoc = `<?xml version="1.0" encoding="UTF-8"?>
<LexicalResource>
  <Lexicon id="test" label="Test" language="en" email="a@example.com" license="MIT" version="1">
    <LexicalEntry id="e1">
      <Lemma writtenForm="dog" partOfSpeech="n" />
      <Sense id="e1-s1" synset="s1" />
      <Sense id="e1-s2" synset="s2" />
    </LexicalEntry>
    <Synset id="s1" ili="i1" partOfSpeech="n">
      <Definition>a domesticated canid</Definition>
      <SynsetRelation target="s2" relType="hypernym" />
    </Synset>
    <Synset id="s2" partOfSpeech="n" />
  </Lexicon>
</LexicalResource>`

func mustParse(t *testing.T, data string) *Document {
	t.Helper()
	doc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func TestParseInvalidXML(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"unclosed tag", "<root><element></root>"},
		{"mismatched tags", "<root></other>"},
		{"invalid chars", "<root>\x00</root>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.xml)); err == nil {
				t.Error("Parse should fail for invalid XML")
			}
		})
	}
}

func TestParseReader(t *testing.T) {
	doc, err := ParseReader(strings.NewReader(testDoc))
	if err != nil {
		t.Fatalf("ParseReader failed: %v", err)
	}
	if got := doc.Root().Name(); got != "LexicalResource" {
		t.Errorf("Root().Name() = %q, want LexicalResource", got)
	}
}

func TestXPath(t *testing.T) {
	doc := mustParse(t, testDoc)

	tests := []struct {
		expr string
		want int
	}{
		{"//Synset", 2},
		{"//Sense", 2},
		{"//Synset[@ili]", 1},
		{"//Sense[@synset='s2']", 1},
		{"//ExternalSynset", 0},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			nodes, err := doc.XPath(tt.expr)
			if err != nil {
				t.Fatalf("XPath(%q): %v", tt.expr, err)
			}
			if len(nodes) != tt.want {
				t.Errorf("XPath(%q) returned %d nodes, want %d", tt.expr, len(nodes), tt.want)
			}
		})
	}
}

func TestXPathInvalidExpression(t *testing.T) {
	doc := mustParse(t, testDoc)
	if _, err := doc.XPath("//["); err == nil {
		t.Error("XPath should fail for invalid expression")
	}
	if _, err := doc.XPathFirst("//["); err == nil {
		t.Error("XPathFirst should fail for invalid expression")
	}
	if _, err := doc.Evaluate("//["); err == nil {
		t.Error("Evaluate should fail for invalid expression")
	}
	if _, err := doc.Count("//["); err == nil {
		t.Error("Count should fail for invalid expression")
	}
}

func TestXPathFirst(t *testing.T) {
	doc := mustParse(t, testDoc)

	node, err := doc.XPathFirst("//Synset[@id='s1']/Definition")
	if err != nil {
		t.Fatalf("XPathFirst: %v", err)
	}
	if node == nil {
		t.Fatal("XPathFirst returned nil")
	}
	if got := node.Text(); got != "a domesticated canid" {
		t.Errorf("Text() = %q", got)
	}

	node, err = doc.XPathFirst("//Synset[@id='missing']")
	if err != nil {
		t.Fatalf("XPathFirst: %v", err)
	}
	if node != nil {
		t.Errorf("XPathFirst for missing node = %v, want nil", node)
	}
}

func TestEvaluate(t *testing.T) {
	doc := mustParse(t, testDoc)

	tests := []struct {
		expr string
		want any
	}{
		{"count(//Sense)", float64(2)},
		{"string(//Lemma/@writtenForm)", "dog"},
		{"boolean(//Synset[@ili='i1'])", true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := doc.Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v (%T), want %v", tt.expr, got, got, tt.want)
			}
		})
	}

	got, err := doc.Evaluate("//Synset")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	nodes, ok := got.([]*Node)
	if !ok || len(nodes) != 2 {
		t.Fatalf("Evaluate(//Synset) = %v, want 2 nodes", got)
	}
	if nodes[1].Attr("id") != "s2" {
		t.Errorf("second synset id = %q, want s2", nodes[1].Attr("id"))
	}
}

func TestCount(t *testing.T) {
	doc := mustParse(t, testDoc)
	n, err := doc.Count("//SynsetRelation[@relType='hypernym']")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestNodeChildren(t *testing.T) {
	doc := mustParse(t, testDoc)
	entry, err := doc.XPathFirst("//LexicalEntry")
	if err != nil || entry == nil {
		t.Fatalf("XPathFirst: %v", err)
	}
	var names []string
	for _, c := range entry.Children() {
		names = append(names, c.Name())
	}
	if got := strings.Join(names, ","); got != "Lemma,Sense,Sense" {
		t.Errorf("children = %s, want Lemma,Sense,Sense", got)
	}
}

func TestNodeAttributes(t *testing.T) {
	doc := mustParse(t, testDoc)
	lemma, err := doc.XPathFirst("//Lemma")
	if err != nil || lemma == nil {
		t.Fatalf("XPathFirst: %v", err)
	}
	attrs := lemma.Attributes()
	if attrs["writtenForm"] != "dog" || attrs["partOfSpeech"] != "n" {
		t.Errorf("Attributes() = %v", attrs)
	}
	if got := strings.Join(lemma.AttrNames(), ","); got != "writtenForm,partOfSpeech" {
		t.Errorf("AttrNames() = %s", got)
	}
	if got := lemma.Attr("script"); got != "" {
		t.Errorf("Attr(missing) = %q, want empty", got)
	}
}

func TestNodeOutputXML(t *testing.T) {
	doc := mustParse(t, testDoc)
	rel, err := doc.XPathFirst("//SynsetRelation")
	if err != nil || rel == nil {
		t.Fatalf("XPathFirst: %v", err)
	}
	out := rel.OutputXML()
	if !strings.Contains(out, `target="s2"`) || !strings.HasPrefix(out, "<SynsetRelation") {
		t.Errorf("OutputXML() = %q", out)
	}
}

func TestNilNode(t *testing.T) {
	var n Node
	if n.Name() != "" || n.Text() != "" || n.OutputXML() != "" || n.Attr("x") != "" {
		t.Error("nil node accessors should return empty strings")
	}
	if n.Children() != nil || n.Attributes() != nil || n.AttrNames() != nil {
		t.Error("nil node accessors should return nil collections")
	}
	if (&Document{}).Root() != nil {
		t.Error("Root() of empty document should be nil")
	}
}
