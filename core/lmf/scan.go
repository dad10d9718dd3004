package lmf

import (
	"encoding/xml"
	"io"

	"github.com/FocuswithJustin/wnlmf/core/errors"
)

// xmlNamespace is the namespace implicitly bound to the xml prefix.
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// LexiconInfo summarizes one lexicon without loading it.
type LexiconInfo struct {
	// Attrs holds the lexicon element's attributes. Namespaced attributes are
	// keyed by their declared prefix, as in "dc:title".
	Attrs map[string]string
	// Counts holds the number of start tags of each name inside the lexicon.
	Counts map[string]int
	// Extends is set for lexicon extensions.
	Extends *Dependency
}

// Entries returns the number of lexical entries, external ones included.
func (i LexiconInfo) Entries() int {
	return i.Counts[tagLexicalEntry] + i.Counts[tagExternalLexicalEntry]
}

// Synsets returns the number of synsets, external ones included.
func (i LexiconInfo) Synsets() int {
	return i.Counts[tagSynset] + i.Counts[tagExternalSynset]
}

// Scan makes a single pass over a document and reports each lexicon's
// attributes and element counts. The preamble is not checked.
func Scan(r io.Reader) ([]LexiconInfo, error) {
	dec := newDecoder(r)
	s := scanner{prefixes: map[string]string{xmlNamespace: "xml"}}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return s.infos, nil
		}
		if err != nil {
			return nil, &errors.ParseError{Format: "WN-LMF", Message: err.Error(), Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			s.start(t)
		case xml.EndElement:
			s.end()
		}
	}
}

type scanner struct {
	infos []LexiconInfo
	// prefixes maps namespace URLs to the prefixes declared for them.
	prefixes map[string]string
	depth    int
	// open is the depth of the current lexicon element, or 0 outside one.
	open int
}

func (s *scanner) start(t xml.StartElement) {
	s.depth++
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" {
			s.prefixes[a.Value] = a.Name.Local
		}
	}
	name := t.Name.Local
	switch {
	case s.open == 0 && (name == tagLexicon || name == tagLexiconExtension):
		s.open = s.depth
		s.infos = append(s.infos, LexiconInfo{
			Attrs:  s.attrs(t.Attr),
			Counts: map[string]int{},
		})
	case s.open == 0:
	case name == tagExtends && s.depth == s.open+1:
		info := &s.infos[len(s.infos)-1]
		info.Extends = &Dependency{}
		for _, a := range t.Attr {
			switch {
			case a.Name.Space != "":
			case a.Name.Local == "id":
				info.Extends.ID = a.Value
			case a.Name.Local == "version":
				info.Extends.Version = a.Value
			case a.Name.Local == "url":
				info.Extends.URL = a.Value
			}
		}
	default:
		s.infos[len(s.infos)-1].Counts[name]++
	}
}

func (s *scanner) end() {
	if s.depth == s.open {
		s.open = 0
	}
	s.depth--
}

func (s *scanner) attrs(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[s.key(a.Name)] = a.Value
	}
	return m
}

func (s *scanner) key(n xml.Name) string {
	switch {
	case n.Space == "":
		return n.Local
	case n.Space == "xmlns":
		return "xmlns:" + n.Local
	}
	if p, ok := s.prefixes[n.Space]; ok {
		return p + ":" + n.Local
	}
	// An undeclared prefix is left as written.
	return n.Space + ":" + n.Local
}
