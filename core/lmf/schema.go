package lmf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/FocuswithJustin/wnlmf/core/errors"
	"github.com/FocuswithJustin/wnlmf/internal/archive"
)

// XMLDeclaration is the only XML declaration a document may start with.
const XMLDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

const docTypeFormat = `<!DOCTYPE LexicalResource SYSTEM "%s">`

// maxHeaderLine bounds how much is read while looking for a preamble line.
const maxHeaderLine = 4096

// Schema collects everything that differs between schema versions.
type Schema struct {
	Version string
	// DTD is the system identifier named by the document type.
	DTD string
	// DCNamespace is the namespace of the Dublin Core metadata attributes.
	DCNamespace string
	// Extensions enables LexiconExtension, Requires, and external stubs.
	Extensions bool
	// Pronunciations enables Pronunciation children of Lemma and Form.
	Pronunciations bool
	// InlineFrames places SyntacticBehaviour elements inside each entry on dump.
	InlineFrames bool
}

// DocType returns the document type declaration for the schema.
func (s *Schema) DocType() string {
	return fmt.Sprintf(docTypeFormat, s.DTD)
}

var schemas = map[string]*Schema{
	"1.0": {
		Version:      "1.0",
		DTD:          "http://globalwordnet.github.io/schemas/WN-LMF-1.0.dtd",
		DCNamespace:  "http://purl.org/dc/elements/1.1/",
		InlineFrames: true,
	},
	"1.1": {
		Version:        "1.1",
		DTD:            "http://globalwordnet.github.io/schemas/WN-LMF-1.1.dtd",
		DCNamespace:    "http://globalwordnet.github.io/schemas/dc/",
		Extensions:     true,
		Pronunciations: true,
	},
}

// docTypes maps each known document type line to its schema.
var docTypes = func() map[string]*Schema {
	m := make(map[string]*Schema, len(schemas))
	for _, s := range schemas {
		m[s.DocType()] = s
	}
	return m
}()

// LookupSchema returns the schema for a version string.
func LookupSchema(version string) (*Schema, error) {
	s, ok := schemas[version]
	if !ok {
		return nil, errors.NewUnsupported("schema version", version)
	}
	return s, nil
}

// Versions returns the supported schema versions in ascending order.
func Versions() []string {
	vs := make([]string, 0, len(schemas))
	for v := range schemas {
		vs = append(vs, v)
	}
	sort.Strings(vs)
	return vs
}

// ReadHeader reads the two preamble lines from r and returns the schema
// version they declare. r is read through a buffer, so it should not be
// reused afterwards.
func ReadHeader(r io.Reader) (string, error) {
	s, _, err := readHeader(bufio.NewReaderSize(r, maxHeaderLine))
	if err != nil {
		return "", err
	}
	return s.Version, nil
}

// IsLMF reports whether the file at path starts with a WN-LMF preamble.
func IsLMF(path string) bool {
	rc, err := archive.Open(path)
	if err != nil {
		return false
	}
	defer rc.Close()
	_, err = ReadHeader(rc)
	return err == nil
}

// readHeader matches the preamble and returns its schema plus the raw bytes
// consumed, so the caller can replay them to the tokenizer.
func readHeader(br *bufio.Reader) (*Schema, []byte, error) {
	var raw []byte

	decl, n, err := readHeaderLine(br)
	raw = append(raw, n...)
	if err != nil {
		return nil, nil, errors.NewHeader(1, "", err.Error())
	}
	if string(decl) != XMLDeclaration {
		return nil, nil, errors.NewHeader(1, string(decl), "invalid or missing XML declaration")
	}

	doctype, n, err := readHeaderLine(br)
	raw = append(raw, n...)
	if err != nil {
		return nil, nil, errors.NewHeader(2, "", err.Error())
	}
	s, ok := docTypes[string(doctype)]
	if !ok {
		return nil, nil, errors.NewHeader(2, string(doctype), "invalid or missing DOCTYPE declaration")
	}
	return s, raw, nil
}

// readHeaderLine returns one line with trailing whitespace removed and
// single quotes normalized to double quotes, along with the raw bytes read.
func readHeaderLine(br *bufio.Reader) ([]byte, []byte, error) {
	line, err := br.ReadSlice('\n')
	switch {
	case err == bufio.ErrBufferFull:
		return nil, nil, fmt.Errorf("line exceeds %d bytes", maxHeaderLine)
	case err == io.EOF && len(line) == 0:
		return nil, nil, fmt.Errorf("unexpected end of input")
	case err != nil && err != io.EOF:
		return nil, nil, err
	}
	raw := append([]byte(nil), line...)
	norm := bytes.ReplaceAll(bytes.TrimRight(line, " \t\r\n\v\f"), []byte("'"), []byte(`"`))
	return norm, raw, nil
}
