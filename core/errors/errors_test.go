package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestHeaderError(t *testing.T) {
	tests := []struct {
		name    string
		err     *HeaderError
		wantMsg string
	}{
		{
			name:    "with content",
			err:     NewHeader(1, `<?xml version="1.1"?>`, "invalid or missing XML declaration"),
			wantMsg: `malformed header line 1: invalid or missing XML declaration: "<?xml version=\"1.1\"?>"`,
		},
		{
			name:    "empty line",
			err:     NewHeader(2, "", "invalid or missing DOCTYPE declaration"),
			wantMsg: "malformed header line 2: invalid or missing DOCTYPE declaration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrMalformedHeader) {
				t.Errorf("errors.Is(%v, ErrMalformedHeader) = false", tt.err)
			}
			if errors.Is(tt.err, ErrStructure) {
				t.Error("header errors must not be structural")
			}
		})
	}
}

func TestHeaderErrorTruncates(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	err := NewHeader(2, string(long), "bad")
	if len(err.Error()) > 130 {
		t.Errorf("Error() not truncated: %d bytes", len(err.Error()))
	}
}

func TestStructureError(t *testing.T) {
	tests := []struct {
		name    string
		err     *StructureError
		wantMsg string
	}{
		{
			name:    "single expected",
			err:     NewMismatch("</LexicalEntry>", "<Lemma>"),
			wantMsg: "expected <Lemma>, got </LexicalEntry>",
		},
		{
			name:    "alternatives",
			err:     NewMismatch("<Foo>", "<Lexicon>", "<LexiconExtension>"),
			wantMsg: "expected <Lexicon>|<LexiconExtension>, got <Foo>",
		},
		{
			name:    "message",
			err:     NewStructure("missing required attribute %q on <%s>", "id", "Sense"),
			wantMsg: `missing required attribute "id" on <Sense>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrStructure) {
				t.Error("StructureError should match ErrStructure")
			}
		})
	}
}

func TestRelationError(t *testing.T) {
	err := NewRelation("synset", "bogus-type")
	if got, want := err.Error(), "invalid synset relation: bogus-type"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidRelation) {
		t.Error("RelationError should match ErrInvalidRelation")
	}
	if !errors.Is(err, ErrStructure) {
		t.Error("RelationError should match ErrStructure")
	}
}

func TestParseError(t *testing.T) {
	t.Run("with path", func(t *testing.T) {
		err := &ParseError{Format: "WN-LMF", Path: "wn.xml", Message: "unexpected EOF", Err: io.ErrUnexpectedEOF}
		if got, want := err.Error(), "failed to parse WN-LMF at wn.xml: unexpected EOF"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Error("ParseError should unwrap to underlying error")
		}
		if !errors.Is(err, ErrStructure) {
			t.Error("ParseError should match ErrStructure")
		}
	})

	t.Run("without path", func(t *testing.T) {
		err := NewParse("WN-LMF", "", "bad token")
		if got, want := err.Error(), "failed to parse WN-LMF: bad token"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
		if err.Unwrap() != nil {
			t.Error("Unwrap() should be nil without underlying error")
		}
	})
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name    string
		err     *NotFoundError
		wantMsg string
	}{
		{"with ID", NewNotFound("archive member", "*.xml"), "archive member not found: *.xml"},
		{"without ID", &NotFoundError{Resource: "schema"}, "schema not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrNotFound) {
				t.Error("NotFoundError should match ErrNotFound")
			}
		})
	}

	t.Run("with underlying error", func(t *testing.T) {
		underlying := fmt.Errorf("disk error")
		err := &NotFoundError{Resource: "file", ID: "wn.xml", Err: underlying}
		if got := err.Unwrap(); got != underlying {
			t.Errorf("Unwrap() = %v, want %v", got, underlying)
		}
	})
}

func TestIOError(t *testing.T) {
	underlying := errors.New("permission denied")
	tests := []struct {
		name    string
		err     *IOError
		wantMsg string
	}{
		{"with path", NewIO("open", "/tmp/wn.xml", underlying), "failed to open /tmp/wn.xml: permission denied"},
		{"without path", NewIO("write", "", underlying), "failed to write: permission denied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if tt.err.Unwrap() != underlying {
				t.Error("Unwrap() should return the underlying error")
			}
		})
	}
}

func TestUnsupportedError(t *testing.T) {
	err := NewUnsupported("schema version", "2.0")
	if got, want := err.Error(), "unsupported schema version: 2.0"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrUnsupported) {
		t.Error("UnsupportedError should match ErrUnsupported")
	}
	bare := &UnsupportedError{Feature: "feature"}
	if got, want := bare.Error(), "unsupported feature"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}

	base := NewMismatch("<Foo>", "<Lemma>")
	wrapped := Wrapf(base, "lexicon %s", "test-en")
	if got, want := wrapped.Error(), "lexicon test-en: expected <Lemma>, got <Foo>"; got != want {
		t.Errorf("Wrapf() = %q, want %q", got, want)
	}
	if !Is(wrapped, ErrStructure) {
		t.Error("wrapped error should still match ErrStructure")
	}
	var se *StructureError
	if !As(Wrap(base, "ctx"), &se) {
		t.Fatal("As should find StructureError")
	}
	if se.Got != "<Foo>" {
		t.Errorf("Got = %q, want %q", se.Got, "<Foo>")
	}
}
