package lmf

import (
	"github.com/FocuswithJustin/wnlmf/core/digest"
	"github.com/FocuswithJustin/wnlmf/core/errors"
	"github.com/FocuswithJustin/wnlmf/internal/archive"
)

// LoadFile loads the document at path. Compressed files and tar packages
// holding one document are accepted.
func LoadFile(path string, opts ...Option) ([]*Lexicon, error) {
	rc, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	lexicons, err := Load(rc, opts...)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return lexicons, nil
}

// ScanFile scans the document at path.
func ScanFile(path string) ([]LexiconInfo, error) {
	rc, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	infos, err := Scan(rc)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return infos, nil
}

// HeaderFile returns the schema version declared by the document at path.
func HeaderFile(path string) (string, error) {
	rc, err := archive.Open(path)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return ReadHeader(rc)
}

// DumpFile writes lexicons to path, compressed according to its suffix.
// Nothing is created when the lexicons cannot be written as version.
func DumpFile(path string, lexicons []*Lexicon, version string, opts ...Option) error {
	schema, err := LookupSchema(version)
	if err != nil {
		return err
	}
	for _, lex := range lexicons {
		if err := checkDumpable(lex, schema); err != nil {
			return errors.Wrapf(err, "lexicon %s", lex.ID)
		}
	}
	w, err := archive.Create(path)
	if err != nil {
		return err
	}
	if err := Dump(w, lexicons, version, opts...); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Digest fingerprints the canonical dump of lexicons as version. Equal
// graphs always produce equal digests.
func Digest(lexicons []*Lexicon, version string) (*digest.HashResult, error) {
	h := digest.NewHasher()
	if err := Dump(h, lexicons, version, WithLogger(discardLogger)); err != nil {
		return nil, err
	}
	return h.Sum(), nil
}
