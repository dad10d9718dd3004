package lmf

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/wnlmf/core/errors"
	"github.com/FocuswithJustin/wnlmf/internal/logging"
)

// Element names.
const (
	tagResource             = "LexicalResource"
	tagLexicon              = "Lexicon"
	tagLexiconExtension     = "LexiconExtension"
	tagExtends              = "Extends"
	tagRequires             = "Requires"
	tagLexicalEntry         = "LexicalEntry"
	tagExternalLexicalEntry = "ExternalLexicalEntry"
	tagLemma                = "Lemma"
	tagForm                 = "Form"
	tagPronunciation        = "Pronunciation"
	tagTag                  = "Tag"
	tagSense                = "Sense"
	tagExternalSense        = "ExternalSense"
	tagSenseRelation        = "SenseRelation"
	tagExample              = "Example"
	tagCount                = "Count"
	tagSyntacticBehaviour   = "SyntacticBehaviour"
	tagSynset               = "Synset"
	tagExternalSynset       = "ExternalSynset"
	tagDefinition           = "Definition"
	tagILIDefinition        = "ILIDefinition"
	tagSynsetRelation       = "SynsetRelation"
)

// Load reads a WN-LMF document and returns all of its lexicons. The whole
// load fails on the first structural problem.
func Load(r io.Reader, opts ...Option) ([]*Lexicon, error) {
	o := newOptions(opts)
	br := bufio.NewReaderSize(r, maxHeaderLine)
	schema, head, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	l := &loader{
		cur:    newCursor(newDecoder(io.MultiReader(bytes.NewReader(head), br))),
		schema: schema,
		opts:   o,
	}
	return l.loadResource()
}

func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	// No entity expansion beyond the predefined XML entities.
	dec.Entity = map[string]string{}
	return dec
}

type loader struct {
	cur    *cursor
	schema *Schema
	opts   *options
	// lexicon is the id of the lexicon being loaded, for diagnostics.
	lexicon string
}

func (l *loader) lexiconTags() []string {
	if l.schema.Extensions {
		return []string{tagLexicon, tagLexiconExtension}
	}
	return []string{tagLexicon}
}

func (l *loader) loadResource() ([]*Lexicon, error) {
	if _, err := l.cur.start(tagResource); err != nil {
		return nil, err
	}
	var lexicons []*Lexicon
	for l.cur.starts(l.lexiconTags()...) {
		lex, err := l.loadLexicon()
		if err != nil {
			if lex != nil && lex.ID != "" {
				return nil, errors.Wrapf(err, "lexicon %s", lex.ID)
			}
			return nil, err
		}
		lexicons = append(lexicons, lex)
		l.cur.release()
	}
	if _, err := l.cur.end(tagResource); err != nil {
		return nil, err
	}
	if err := l.cur.drain(); err != nil {
		return nil, err
	}
	return lexicons, nil
}

// loadLexicon returns the partially built lexicon alongside an error so the
// caller can name it.
func (l *loader) loadLexicon() (*Lexicon, error) {
	ev, err := l.cur.start(l.lexiconTags()...)
	if err != nil {
		return nil, err
	}
	a := required(ev)
	lex := &Lexicon{
		ID:       a.get("id"),
		Label:    a.get("label"),
		Language: a.get("language"),
		Email:    a.get("email"),
		License:  a.get("license"),
		Version:  a.get("version"),
	}
	if a.err != nil {
		return lex, a.err
	}
	l.lexicon = lex.ID
	lex.URL, _ = ev.attr("url")
	lex.Citation, _ = ev.attr("citation")
	lex.Meta = l.metadata(ev)

	extension := ev.name == tagLexiconExtension
	if extension {
		dep, err := l.loadDependency(tagExtends)
		if err != nil {
			return lex, err
		}
		lex.Extends = &dep
	}
	if l.schema.Extensions {
		for l.cur.starts(tagRequires) {
			dep, err := l.loadDependency(tagRequires)
			if err != nil {
				return lex, err
			}
			lex.Requires = append(lex.Requires, dep)
		}
	}

	if lex.Entries, lex.SyntacticBehaviours, err = l.loadLexicalEntries(extension); err != nil {
		return lex, err
	}
	if lex.Synsets, err = l.loadSynsets(extension); err != nil {
		return lex, err
	}
	if l.schema.Extensions {
		frames, err := l.loadSyntacticBehaviours()
		if err != nil {
			return lex, err
		}
		lex.SyntacticBehaviours = append(lex.SyntacticBehaviours, frames...)
	}
	if _, err := l.cur.end(ev.name); err != nil {
		return lex, err
	}

	logging.LexiconLoaded(l.opts.logger, lex.ID, lex.Version, len(lex.Entries), len(lex.Synsets),
		"schema_version", l.schema.Version)
	return lex, nil
}

func (l *loader) loadDependency(tag string) (Dependency, error) {
	ev, err := l.cur.leaf(tag)
	if err != nil {
		return Dependency{}, err
	}
	a := required(ev)
	dep := Dependency{ID: a.get("id"), Version: a.get("version")}
	dep.URL, _ = ev.attr("url")
	return dep, a.err
}

func (l *loader) loadLexicalEntries(extension bool) ([]LexicalEntry, []SyntacticBehaviour, error) {
	var entries []LexicalEntry
	var frames []SyntacticBehaviour
	for {
		var tag string
		switch {
		case l.cur.starts(tagLexicalEntry):
			tag = tagLexicalEntry
		case extension && l.cur.starts(tagExternalLexicalEntry):
			tag = tagExternalLexicalEntry
		default:
			return entries, frames, nil
		}
		entry, sbs, err := l.loadLexicalEntry(tag)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
		frames = append(frames, sbs...)
		l.cur.release()
	}
}

func (l *loader) loadLexicalEntry(tag string) (LexicalEntry, []SyntacticBehaviour, error) {
	ev, err := l.cur.start(tag)
	if err != nil {
		return LexicalEntry{}, nil, err
	}
	a := required(ev)
	entry := LexicalEntry{ID: a.get("id"), External: tag == tagExternalLexicalEntry}
	if a.err != nil {
		return entry, nil, a.err
	}
	if !entry.External {
		entry.Meta = l.metadata(ev)
		if entry.Lemma, err = l.loadLemma(); err != nil {
			return entry, nil, err
		}
	}
	if entry.Forms, err = l.loadForms(); err != nil {
		return entry, nil, err
	}
	if entry.Senses, err = l.loadSenses(entry.External); err != nil {
		return entry, nil, err
	}
	frames, err := l.loadSyntacticBehaviours()
	if err != nil {
		return entry, nil, err
	}
	if _, err := l.cur.end(tag); err != nil {
		return entry, nil, err
	}
	return entry, frames, nil
}

func (l *loader) loadLemma() (*Lemma, error) {
	ev, err := l.cur.start(tagLemma)
	if err != nil {
		return nil, err
	}
	a := required(ev)
	lemma := &Lemma{
		WrittenForm:  a.get("writtenForm"),
		PartOfSpeech: a.get("partOfSpeech"),
	}
	if a.err != nil {
		return nil, a.err
	}
	l.checkLiteral(ev, "partOfSpeech", PartsOfSpeech)
	lemma.Script, _ = ev.attr("script")
	if lemma.Pronunciations, err = l.loadPronunciations(); err != nil {
		return nil, err
	}
	if lemma.Tags, err = l.loadTags(); err != nil {
		return nil, err
	}
	if _, err := l.cur.end(tagLemma); err != nil {
		return nil, err
	}
	return lemma, nil
}

func (l *loader) loadForms() ([]Form, error) {
	var forms []Form
	for l.cur.starts(tagForm) {
		ev, err := l.cur.start(tagForm)
		if err != nil {
			return nil, err
		}
		a := required(ev)
		form := Form{WrittenForm: a.get("writtenForm")}
		if a.err != nil {
			return nil, a.err
		}
		form.Script, _ = ev.attr("script")
		if form.Pronunciations, err = l.loadPronunciations(); err != nil {
			return nil, err
		}
		if form.Tags, err = l.loadTags(); err != nil {
			return nil, err
		}
		if _, err := l.cur.end(tagForm); err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

func (l *loader) loadPronunciations() ([]Pronunciation, error) {
	if !l.schema.Pronunciations {
		return nil, nil
	}
	var prons []Pronunciation
	for l.cur.starts(tagPronunciation) {
		ev, err := l.cur.leaf(tagPronunciation)
		if err != nil {
			return nil, err
		}
		p := Pronunciation{
			Text:     ev.text,
			Phonemic: l.boolean(ev, "phonemic", true),
		}
		p.Variety, _ = ev.attr("variety")
		p.Notation, _ = ev.attr("notation")
		p.Audio, _ = ev.attr("audio")
		prons = append(prons, p)
	}
	return prons, nil
}

func (l *loader) loadTags() ([]Tag, error) {
	var tags []Tag
	for l.cur.starts(tagTag) {
		ev, err := l.cur.leaf(tagTag)
		if err != nil {
			return nil, err
		}
		a := required(ev)
		tag := Tag{Text: ev.text, Category: a.get("category")}
		if a.err != nil {
			return nil, a.err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (l *loader) loadSenses(external bool) ([]Sense, error) {
	var senses []Sense
	for {
		var tag string
		switch {
		case l.cur.starts(tagSense):
			tag = tagSense
		case external && l.cur.starts(tagExternalSense):
			tag = tagExternalSense
		default:
			return senses, nil
		}
		sense, err := l.loadSense(tag)
		if err != nil {
			return nil, err
		}
		senses = append(senses, sense)
	}
}

func (l *loader) loadSense(tag string) (Sense, error) {
	ev, err := l.cur.start(tag)
	if err != nil {
		return Sense{}, err
	}
	a := required(ev)
	sense := Sense{ID: a.get("id"), Lexicalized: true, External: tag == tagExternalSense}
	if !sense.External {
		sense.Synset = a.get("synset")
	}
	if a.err != nil {
		return sense, a.err
	}
	if !sense.External {
		sense.Lexicalized = l.boolean(ev, "lexicalized", true)
		sense.AdjPosition = l.checkLiteral(ev, "adjposition", AdjPositions)
		sense.Meta = l.metadata(ev)
	}
	if sense.Relations, err = l.loadSenseRelations(); err != nil {
		return sense, err
	}
	if sense.Examples, err = l.loadExamples(); err != nil {
		return sense, err
	}
	if sense.Counts, err = l.loadCounts(); err != nil {
		return sense, err
	}
	if _, err := l.cur.end(tag); err != nil {
		return sense, err
	}
	return sense, nil
}

func (l *loader) loadSenseRelations() ([]SenseRelation, error) {
	var rels []SenseRelation
	for l.cur.starts(tagSenseRelation) {
		ev, err := l.cur.leaf(tagSenseRelation)
		if err != nil {
			return nil, err
		}
		a := required(ev)
		rel := SenseRelation{Target: a.get("target"), RelType: a.get("relType")}
		if a.err != nil {
			return nil, a.err
		}
		if !SenseRelations.Has(rel.RelType) && !SenseSynsetRelations.Has(rel.RelType) {
			return nil, errors.NewRelation("sense", rel.RelType)
		}
		rel.Meta = l.metadata(ev)
		rels = append(rels, rel)
	}
	return rels, nil
}

func (l *loader) loadExamples() ([]Example, error) {
	var examples []Example
	for l.cur.starts(tagExample) {
		ev, err := l.cur.leaf(tagExample)
		if err != nil {
			return nil, err
		}
		ex := Example{Text: ev.text, Meta: l.metadata(ev)}
		ex.Language, _ = ev.attr("language")
		examples = append(examples, ex)
	}
	return examples, nil
}

func (l *loader) loadCounts() ([]Count, error) {
	var counts []Count
	for l.cur.starts(tagCount) {
		ev, err := l.cur.leaf(tagCount)
		if err != nil {
			return nil, err
		}
		value, err := strconv.Atoi(strings.TrimSpace(ev.text))
		if err != nil {
			value = -1
			l.diagnose(DiagnosticCount, ev, "", ev.text, "count must be an integer: "+strconv.Quote(ev.text))
		}
		counts = append(counts, Count{Value: value, Meta: l.metadata(ev)})
	}
	return counts, nil
}

func (l *loader) loadSyntacticBehaviours() ([]SyntacticBehaviour, error) {
	var frames []SyntacticBehaviour
	for l.cur.starts(tagSyntacticBehaviour) {
		ev, err := l.cur.leaf(tagSyntacticBehaviour)
		if err != nil {
			return nil, err
		}
		a := required(ev)
		sb := SyntacticBehaviour{Frame: a.get("subcategorizationFrame")}
		if a.err != nil {
			return nil, a.err
		}
		sb.ID, _ = ev.attr("id")
		if senses, ok := ev.attr("senses"); ok {
			sb.Senses = strings.Fields(senses)
		}
		frames = append(frames, sb)
	}
	return frames, nil
}

func (l *loader) loadSynsets(extension bool) ([]Synset, error) {
	var synsets []Synset
	for {
		var tag string
		switch {
		case l.cur.starts(tagSynset):
			tag = tagSynset
		case extension && l.cur.starts(tagExternalSynset):
			tag = tagExternalSynset
		default:
			return synsets, nil
		}
		synset, err := l.loadSynset(tag)
		if err != nil {
			return nil, err
		}
		synsets = append(synsets, synset)
		l.cur.release()
	}
}

func (l *loader) loadSynset(tag string) (Synset, error) {
	ev, err := l.cur.start(tag)
	if err != nil {
		return Synset{}, err
	}
	a := required(ev)
	synset := Synset{ID: a.get("id"), Lexicalized: true, External: tag == tagExternalSynset}
	if a.err != nil {
		return synset, a.err
	}
	if !synset.External {
		synset.ILI, _ = ev.attr("ili")
		synset.PartOfSpeech = l.checkLiteral(ev, "partOfSpeech", PartsOfSpeech)
		synset.Lexicalized = l.boolean(ev, "lexicalized", true)
		synset.Meta = l.metadata(ev)
	}
	if synset.Definitions, err = l.loadDefinitions(); err != nil {
		return synset, err
	}
	if !synset.External {
		if synset.ILIDefinition, err = l.loadILIDefinition(); err != nil {
			return synset, err
		}
	}
	if synset.Relations, err = l.loadSynsetRelations(); err != nil {
		return synset, err
	}
	if synset.Examples, err = l.loadExamples(); err != nil {
		return synset, err
	}
	if _, err := l.cur.end(tag); err != nil {
		return synset, err
	}
	return synset, nil
}

func (l *loader) loadDefinitions() ([]Definition, error) {
	var defs []Definition
	for l.cur.starts(tagDefinition) {
		ev, err := l.cur.leaf(tagDefinition)
		if err != nil {
			return nil, err
		}
		def := Definition{Text: ev.text, Meta: l.metadata(ev)}
		def.Language, _ = ev.attr("language")
		def.SourceSense, _ = ev.attr("sourceSense")
		defs = append(defs, def)
	}
	return defs, nil
}

func (l *loader) loadILIDefinition() (*ILIDefinition, error) {
	if !l.cur.starts(tagILIDefinition) {
		return nil, nil
	}
	ev, err := l.cur.leaf(tagILIDefinition)
	if err != nil {
		return nil, err
	}
	return &ILIDefinition{Text: ev.text, Meta: l.metadata(ev)}, nil
}

func (l *loader) loadSynsetRelations() ([]SynsetRelation, error) {
	var rels []SynsetRelation
	for l.cur.starts(tagSynsetRelation) {
		ev, err := l.cur.leaf(tagSynsetRelation)
		if err != nil {
			return nil, err
		}
		a := required(ev)
		rel := SynsetRelation{Target: a.get("target"), RelType: a.get("relType")}
		if a.err != nil {
			return nil, a.err
		}
		if !SynsetRelations.Has(rel.RelType) {
			return nil, errors.NewRelation("synset", rel.RelType)
		}
		rel.Meta = l.metadata(ev)
		rels = append(rels, rel)
	}
	return rels, nil
}

// checkLiteral returns the attribute value, reporting it when present but
// outside vocab.
func (l *loader) checkLiteral(ev *event, attr string, vocab Vocabulary) string {
	v, ok := ev.attr(attr)
	if ok && !vocab.Has(v) {
		l.diagnose(DiagnosticLiteral, ev, attr, v,
			strconv.Quote(v)+" is not a permitted "+vocab.Name())
	}
	return v
}

// boolean reads a true/false attribute case-insensitively. Values outside
// the literals are reported and read as false.
func (l *loader) boolean(ev *event, attr string, def bool) bool {
	v, ok := ev.attr(attr)
	if !ok {
		return def
	}
	v = strings.ToLower(v)
	if !booleans.Has(v) {
		l.diagnose(DiagnosticLiteral, ev, attr, v,
			strconv.Quote(v)+" is not a permitted "+booleans.Name())
	}
	return v == "true"
}

func (l *loader) diagnose(kind DiagnosticKind, ev *event, attr, value, msg string) {
	l.opts.report(Diagnostic{
		Kind:      kind,
		Lexicon:   l.lexicon,
		Element:   ev.name,
		Attribute: attr,
		Value:     value,
		Message:   msg,
	})
}

// attrReader collects the first missing required attribute of an element.
type attrReader struct {
	ev  *event
	err error
}

func required(ev *event) *attrReader {
	return &attrReader{ev: ev}
}

func (a *attrReader) get(name string) string {
	v, ok := a.ev.attr(name)
	if !ok && a.err == nil {
		a.err = errors.NewStructure("missing required attribute %q on <%s>", name, a.ev.name)
	}
	return v
}
