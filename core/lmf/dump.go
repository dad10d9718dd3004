package lmf

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/FocuswithJustin/wnlmf/core/encoding"
	"github.com/FocuswithJustin/wnlmf/core/errors"
	"github.com/FocuswithJustin/wnlmf/internal/logging"
)

type attr struct {
	name  string
	value string
}

// element is a detached subtree built for one entry or synset and written
// out before the next one is built.
type element struct {
	tag      string
	attrs    []attr
	text     string
	children []*element
}

func newElement(tag string, attrs ...attr) *element {
	return &element{tag: tag, attrs: attrs}
}

func (e *element) add(children ...*element) *element {
	e.children = append(e.children, children...)
	return e
}

// optional appends name=value when value is not empty.
func optional(attrs []attr, name, value string) []attr {
	if value == "" {
		return attrs
	}
	return append(attrs, attr{name, value})
}

// Dump writes lexicons as a WN-LMF document of the given schema version.
// Nothing is written when the lexicons use features the version cannot
// express.
func Dump(w io.Writer, lexicons []*Lexicon, version string, opts ...Option) error {
	o := newOptions(opts)
	schema, err := LookupSchema(version)
	if err != nil {
		return err
	}
	for _, lex := range lexicons {
		if err := checkDumpable(lex, schema); err != nil {
			return errors.Wrapf(err, "lexicon %s", lex.ID)
		}
	}

	began := time.Now()
	cw := &countingWriter{w: w}
	d := &dumper{w: bufio.NewWriter(cw), schema: schema}
	d.line(0, XMLDeclaration)
	d.line(0, schema.DocType())
	d.line(0, `<LexicalResource xmlns:`+dcPrefix+`=`+encoding.QuoteAttr(schema.DCNamespace)+`>`)
	for _, lex := range lexicons {
		d.lexicon(lex)
	}
	d.line(0, `</LexicalResource>`)
	if err := d.w.Flush(); err != nil {
		return errors.NewIO("write", "", err)
	}
	logging.DocumentWritten(o.logger, schema.Version, len(lexicons), cw.n, time.Since(began))
	return nil
}

// checkDumpable rejects content that would be lost or malformed under schema.
func checkDumpable(lex *Lexicon, schema *Schema) error {
	if !schema.InlineFrames && len(lex.SyntacticBehaviours) > 0 {
		return errors.NewUnsupported("SyntacticBehaviour", "placement is not implemented for schema "+schema.Version)
	}
	if schema.InlineFrames {
		if err := checkFramePlacement(lex, schema); err != nil {
			return err
		}
	}
	if !schema.Extensions {
		if lex.Extends != nil {
			return errors.NewUnsupported("LexiconExtension", "requires schema 1.1")
		}
		if len(lex.Requires) > 0 {
			return errors.NewUnsupported("Requires", "requires schema 1.1")
		}
	}
	for i := range lex.Entries {
		e := &lex.Entries[i]
		if e.External && !schema.Extensions {
			return errors.NewUnsupported("ExternalLexicalEntry", "requires schema 1.1")
		}
		if e.External && lex.Extends == nil {
			return errors.NewStructure("external entry %s outside a lexicon extension", e.ID)
		}
		if !e.External && e.Lemma == nil {
			return errors.NewStructure("entry %s has no lemma", e.ID)
		}
		if !schema.Pronunciations && hasPronunciations(e) {
			return errors.NewUnsupported("Pronunciation", "requires schema 1.1")
		}
		for j := range e.Senses {
			if e.Senses[j].External && !e.External {
				return errors.NewStructure("external sense %s in entry %s", e.Senses[j].ID, e.ID)
			}
		}
	}
	for i := range lex.Synsets {
		if lex.Synsets[i].External && lex.Extends == nil {
			return errors.NewStructure("external synset %s outside a lexicon extension", lex.Synsets[i].ID)
		}
	}
	return nil
}

// checkFramePlacement rejects frames that cannot be placed inside an entry:
// frames without senses, frames naming a sense no entry holds, and frame ids.
func checkFramePlacement(lex *Lexicon, schema *Schema) error {
	if len(lex.SyntacticBehaviours) == 0 {
		return nil
	}
	held := make(map[string]bool)
	for i := range lex.Entries {
		for _, s := range lex.Entries[i].Senses {
			held[s.ID] = true
		}
	}
	for _, sb := range lex.SyntacticBehaviours {
		if sb.ID != "" {
			return errors.NewUnsupported("SyntacticBehaviour id", "frame "+sb.ID+" requires schema 1.1")
		}
		if len(sb.Senses) == 0 {
			return errors.NewUnsupported("SyntacticBehaviour",
				"frame "+strconv.Quote(sb.Frame)+" lists no senses to place it under schema "+schema.Version)
		}
		for _, id := range sb.Senses {
			if !held[id] {
				return errors.NewUnsupported("SyntacticBehaviour",
					"frame "+strconv.Quote(sb.Frame)+" names sense "+id+", which no entry holds")
			}
		}
	}
	return nil
}

func hasPronunciations(e *LexicalEntry) bool {
	if e.Lemma != nil && len(e.Lemma.Pronunciations) > 0 {
		return true
	}
	for _, f := range e.Forms {
		if len(f.Pronunciations) > 0 {
			return true
		}
	}
	return false
}

type dumper struct {
	w      *bufio.Writer
	schema *Schema
	// frames maps sense ids to indexes into the current lexicon's frames.
	frames map[string][]int
	lex    *Lexicon
}

func (d *dumper) line(level int, s string) {
	d.w.WriteString(strings.Repeat("  ", level))
	d.w.WriteString(s)
	d.w.WriteByte('\n')
}

func (d *dumper) lexicon(lex *Lexicon) {
	d.lex = lex
	tag := tagLexicon
	if lex.Extends != nil {
		tag = tagLexiconExtension
	}
	attrs := []attr{
		{"id", lex.ID},
		{"label", lex.Label},
		{"language", lex.Language},
		{"email", lex.Email},
		{"license", lex.License},
		{"version", lex.Version},
	}
	attrs = optional(attrs, "url", lex.URL)
	attrs = optional(attrs, "citation", lex.Citation)
	attrs = appendMeta(attrs, lex.Meta)

	// Attributes go one per line, aligned under the first.
	delim := "\n" + strings.Repeat(" ", len("  <"+tag+" "))
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = a.name + "=" + encoding.QuoteAttr(a.value)
	}
	d.line(1, "<"+tag+" "+strings.Join(parts, delim)+">")

	if lex.Extends != nil {
		d.element(dependency(tagExtends, *lex.Extends), 2)
	}
	for _, dep := range lex.Requires {
		d.element(dependency(tagRequires, dep), 2)
	}

	d.frames = nil
	if d.schema.InlineFrames {
		d.frames = make(map[string][]int)
		for i, sb := range lex.SyntacticBehaviours {
			for _, id := range sb.Senses {
				d.frames[id] = append(d.frames[id], i)
			}
		}
	}
	for i := range lex.Entries {
		d.element(d.entry(&lex.Entries[i]), 2)
	}
	for i := range lex.Synsets {
		d.element(synset(&lex.Synsets[i]), 2)
	}
	d.line(1, "</"+tag+">")
}

func dependency(tag string, dep Dependency) *element {
	attrs := []attr{{"id", dep.ID}, {"version", dep.Version}}
	return newElement(tag, optional(attrs, "url", dep.URL)...)
}

func (d *dumper) entry(e *LexicalEntry) *element {
	if e.External {
		elem := newElement(tagExternalLexicalEntry, attr{"id", e.ID})
		for i := range e.Forms {
			elem.add(form(&e.Forms[i]))
		}
		for i := range e.Senses {
			elem.add(sense(&e.Senses[i]))
		}
		return elem
	}
	elem := newElement(tagLexicalEntry, appendMeta([]attr{{"id", e.ID}}, e.Meta)...)
	elem.add(lemma(e.Lemma))
	for i := range e.Forms {
		elem.add(form(&e.Forms[i]))
	}
	for i := range e.Senses {
		elem.add(sense(&e.Senses[i]))
	}
	if d.schema.InlineFrames {
		elem.add(d.entryFrames(e)...)
	}
	return elem
}

// entryFrames regroups the lexicon's frames onto e: each frame that names
// one of e's senses is emitted once with the sorted subset of e's senses it
// lists.
func (d *dumper) entryFrames(e *LexicalEntry) []*element {
	ids := make(map[string]bool, len(e.Senses))
	for _, s := range e.Senses {
		ids[s.ID] = true
	}
	var out []*element
	seenIndex := map[int]bool{}
	seenKey := map[string]bool{}
	for _, s := range e.Senses {
		for _, idx := range d.frames[s.ID] {
			if seenIndex[idx] {
				continue
			}
			seenIndex[idx] = true
			sb := d.lex.SyntacticBehaviours[idx]
			var senses []string
			for _, id := range sb.Senses {
				if ids[id] {
					senses = append(senses, id)
				}
			}
			sort.Strings(senses)
			senses = dedupe(senses)
			joined := strings.Join(senses, " ")
			key := sb.Frame + "\x00" + joined
			if seenKey[key] {
				continue
			}
			seenKey[key] = true
			out = append(out, newElement(tagSyntacticBehaviour,
				attr{"subcategorizationFrame", sb.Frame},
				attr{"senses", joined}))
		}
	}
	return out
}

// dedupe removes adjacent duplicates from a sorted slice.
func dedupe(ss []string) []string {
	out := ss[:0]
	for i, s := range ss {
		if i == 0 || s != ss[i-1] {
			out = append(out, s)
		}
	}
	return out
}

func lemma(l *Lemma) *element {
	attrs := optional([]attr{{"writtenForm", l.WrittenForm}}, "script", l.Script)
	elem := newElement(tagLemma, append(attrs, attr{"partOfSpeech", l.PartOfSpeech})...)
	addPronunciations(elem, l.Pronunciations)
	addTags(elem, l.Tags)
	return elem
}

func form(f *Form) *element {
	elem := newElement(tagForm, optional([]attr{{"writtenForm", f.WrittenForm}}, "script", f.Script)...)
	addPronunciations(elem, f.Pronunciations)
	addTags(elem, f.Tags)
	return elem
}

func addPronunciations(elem *element, prons []Pronunciation) {
	for _, p := range prons {
		attrs := optional(nil, "variety", p.Variety)
		attrs = optional(attrs, "notation", p.Notation)
		if !p.Phonemic {
			attrs = append(attrs, attr{"phonemic", "false"})
		}
		attrs = optional(attrs, "audio", p.Audio)
		child := newElement(tagPronunciation, attrs...)
		child.text = p.Text
		elem.add(child)
	}
}

func addTags(elem *element, tags []Tag) {
	for _, t := range tags {
		child := newElement(tagTag, attr{"category", t.Category})
		child.text = t.Text
		elem.add(child)
	}
}

func sense(s *Sense) *element {
	var elem *element
	if s.External {
		elem = newElement(tagExternalSense, attr{"id", s.ID})
	} else {
		attrs := []attr{{"id", s.ID}, {"synset", s.Synset}}
		if !s.Lexicalized {
			attrs = append(attrs, attr{"lexicalized", "false"})
		}
		attrs = optional(attrs, "adjposition", s.AdjPosition)
		elem = newElement(tagSense, appendMeta(attrs, s.Meta)...)
	}
	for _, r := range s.Relations {
		elem.add(newElement(tagSenseRelation,
			appendMeta([]attr{{"target", r.Target}, {"relType", r.RelType}}, r.Meta)...))
	}
	addExamples(elem, s.Examples)
	for _, c := range s.Counts {
		child := newElement(tagCount, appendMeta(nil, c.Meta)...)
		child.text = strconv.Itoa(c.Value)
		elem.add(child)
	}
	return elem
}

func addExamples(elem *element, examples []Example) {
	for _, ex := range examples {
		child := newElement(tagExample, appendMeta(optional(nil, "language", ex.Language), ex.Meta)...)
		child.text = ex.Text
		elem.add(child)
	}
}

func synset(s *Synset) *element {
	var elem *element
	if s.External {
		elem = newElement(tagExternalSynset, attr{"id", s.ID})
	} else {
		attrs := optional([]attr{{"id", s.ID}}, "ili", s.ILI)
		attrs = optional(attrs, "partOfSpeech", s.PartOfSpeech)
		if !s.Lexicalized {
			attrs = append(attrs, attr{"lexicalized", "false"})
		}
		elem = newElement(tagSynset, appendMeta(attrs, s.Meta)...)
	}
	for _, def := range s.Definitions {
		attrs := optional(nil, "language", def.Language)
		attrs = optional(attrs, "sourceSense", def.SourceSense)
		child := newElement(tagDefinition, appendMeta(attrs, def.Meta)...)
		child.text = def.Text
		elem.add(child)
	}
	if s.ILIDefinition != nil && !s.External {
		child := newElement(tagILIDefinition, appendMeta(nil, s.ILIDefinition.Meta)...)
		child.text = s.ILIDefinition.Text
		elem.add(child)
	}
	for _, r := range s.Relations {
		elem.add(newElement(tagSynsetRelation,
			appendMeta([]attr{{"target", r.Target}, {"relType", r.RelType}}, r.Meta)...))
	}
	addExamples(elem, s.Examples)
	return elem
}

// element writes e at the given nesting level. Childless elements without
// text are self-closed.
func (d *dumper) element(e *element, level int) {
	w := d.w
	w.WriteString(strings.Repeat("  ", level))
	w.WriteByte('<')
	w.WriteString(e.tag)
	for _, a := range e.attrs {
		w.WriteByte(' ')
		w.WriteString(a.name)
		w.WriteByte('=')
		w.WriteString(encoding.QuoteAttr(a.value))
	}
	switch {
	case len(e.children) > 0:
		w.WriteString(">\n")
		for _, c := range e.children {
			d.element(c, level+1)
		}
		w.WriteString(strings.Repeat("  ", level))
		w.WriteString("</" + e.tag + ">\n")
	case e.text != "":
		w.WriteByte('>')
		w.WriteString(encoding.EscapeXMLText(e.text))
		w.WriteString("</" + e.tag + ">\n")
	default:
		w.WriteString(" />\n")
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
