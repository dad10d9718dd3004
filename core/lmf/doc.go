// Package lmf reads and writes wordnets encoded in the WN-LMF XML format.
//
// Documents start with a fixed two-line preamble (XML declaration and one of
// the known document types) that selects the schema version, "1.0" or "1.1".
// Version 1.1 adds the extension dialect: a LexiconExtension extends a base
// lexicon and may carry external stubs (ExternalLexicalEntry, ExternalSense,
// ExternalSynset) that layer relations, examples, counts, and definitions onto
// entities defined in the base.
//
// Four entry points cover the format:
//
//   - ReadHeader resolves the schema version from the preamble.
//   - Scan walks a document once and reports per-lexicon attributes and
//     element counts without building entities.
//   - Load builds the full entity graph with a lookahead recursive-descent
//     parser over the XML token stream. Only the entry or synset being parsed
//     is held beyond the lexicon's own collections.
//   - Dump writes lexicons back out in canonical form: fixed attribute order,
//     two-space indentation, self-closed empty elements.
//
// Relation targets, sense synsets, and definition source senses are plain
// identifier strings. Resolving them is left to the caller.
//
// Out-of-vocabulary enumerated values, malformed counts, and bad confidence
// scores do not stop a load; they are reported as Diagnostic values. Every
// other problem is fatal and no partial result is returned.
package lmf
