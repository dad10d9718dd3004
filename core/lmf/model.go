package lmf

// Metadata holds the descriptive attributes shared by most elements.
// A nil *Metadata means the element carried none of them.
type Metadata struct {
	Contributor string
	Coverage    string
	Creator     string
	Date        string
	Description string
	Format      string
	Identifier  string
	Publisher   string
	Relation    string
	Rights      string
	Source      string
	Subject     string
	Title       string
	Type        string
	Status      string
	Note        string
	// Confidence is nil when no valid score in [0,1] was given.
	Confidence *float64
}

// dcFields lists the Dublin Core attributes in serialization order.
var dcFields = []struct {
	name  string
	field func(*Metadata) *string
}{
	{"contributor", func(m *Metadata) *string { return &m.Contributor }},
	{"coverage", func(m *Metadata) *string { return &m.Coverage }},
	{"creator", func(m *Metadata) *string { return &m.Creator }},
	{"date", func(m *Metadata) *string { return &m.Date }},
	{"description", func(m *Metadata) *string { return &m.Description }},
	{"format", func(m *Metadata) *string { return &m.Format }},
	{"identifier", func(m *Metadata) *string { return &m.Identifier }},
	{"publisher", func(m *Metadata) *string { return &m.Publisher }},
	{"relation", func(m *Metadata) *string { return &m.Relation }},
	{"rights", func(m *Metadata) *string { return &m.Rights }},
	{"source", func(m *Metadata) *string { return &m.Source }},
	{"subject", func(m *Metadata) *string { return &m.Subject }},
	{"title", func(m *Metadata) *string { return &m.Title }},
	{"type", func(m *Metadata) *string { return &m.Type }},
}

// Dependency names another lexicon by id and version.
type Dependency struct {
	ID      string
	Version string
	URL     string
}

// Lexicon is one wordnet within a document.
type Lexicon struct {
	ID       string
	Label    string
	Language string
	Email    string
	License  string
	Version  string
	URL      string
	Citation string
	Meta     *Metadata

	Entries             []LexicalEntry
	Synsets             []Synset
	SyntacticBehaviours []SyntacticBehaviour

	// Extends is set only for lexicon extensions (schema 1.1).
	Extends  *Dependency
	Requires []Dependency
}

// IsExtension reports whether the lexicon extends another one.
func (l *Lexicon) IsExtension() bool {
	return l.Extends != nil
}

// LexicalEntry groups the senses of one lemma.
type LexicalEntry struct {
	ID string
	// Lemma is nil for external entries.
	Lemma    *Lemma
	Forms    []Form
	Senses   []Sense
	Meta     *Metadata
	External bool
}

// Lemma is the canonical written form of an entry.
type Lemma struct {
	WrittenForm    string
	PartOfSpeech   string
	Script         string
	Pronunciations []Pronunciation
	Tags           []Tag
}

// Form is an alternative written form of an entry.
type Form struct {
	WrittenForm    string
	Script         string
	Pronunciations []Pronunciation
	Tags           []Tag
}

// Pronunciation is a spoken form of a Lemma or Form (schema 1.1).
type Pronunciation struct {
	Text     string
	Variety  string
	Notation string
	Phonemic bool
	Audio    string
}

// Tag is a free-text annotation with a category.
type Tag struct {
	Text     string
	Category string
}

// Sense links an entry to a synset.
//
// Lexicalized defaults to true when loading; code building senses directly
// must set it.
type Sense struct {
	ID          string
	Synset      string
	Relations   []SenseRelation
	Examples    []Example
	Counts      []Count
	Lexicalized bool
	AdjPosition string
	Meta        *Metadata
	External    bool
}

// SenseRelation is a typed link from a sense to a sense or synset id.
type SenseRelation struct {
	Target  string
	RelType string
	Meta    *Metadata
}

// SynsetRelation is a typed link between synsets.
type SynsetRelation struct {
	Target  string
	RelType string
	Meta    *Metadata
}

// Example is a usage example of a sense or synset.
type Example struct {
	Text     string
	Language string
	Meta     *Metadata
}

// Count is a corpus frequency. Value is -1 when the source text was not an
// integer.
type Count struct {
	Value int
	Meta  *Metadata
}

// Synset is a set of synonymous senses.
type Synset struct {
	ID            string
	ILI           string
	PartOfSpeech  string
	Definitions   []Definition
	ILIDefinition *ILIDefinition
	Relations     []SynsetRelation
	Examples      []Example
	Lexicalized   bool
	Meta          *Metadata
	External      bool
}

// Definition is a gloss of a synset.
type Definition struct {
	Text        string
	Language    string
	SourceSense string
	Meta        *Metadata
}

// ILIDefinition is the definition proposed for a new ILI entry.
type ILIDefinition struct {
	Text string
	Meta *Metadata
}

// SyntacticBehaviour is a subcategorization frame and the senses it applies to.
type SyntacticBehaviour struct {
	ID     string
	Frame  string
	Senses []string
}
