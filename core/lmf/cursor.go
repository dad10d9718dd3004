package lmf

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/FocuswithJustin/wnlmf/core/errors"
)

type eventKind int

const (
	startEvent eventKind = iota
	endEvent
)

// event is one element boundary. End events carry the character data
// collected since the preceding boundary, which for leaf elements is the
// element's text.
type event struct {
	kind  eventKind
	name  string
	attrs []xml.Attr
	text  string
}

func (e *event) String() string {
	if e == nil {
		return "end of document"
	}
	if e.kind == endEvent {
		return "</" + e.name + ">"
	}
	return "<" + e.name + ">"
}

// attr returns the value of an attribute without a namespace.
func (e *event) attr(name string) (string, bool) {
	return e.attrNS("", name)
}

func (e *event) attrNS(space, name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == name && a.Name.Space == space {
			return a.Value, true
		}
	}
	return "", false
}

// cursor exposes the element events of a token stream with one event of
// lookahead. Only the lookahead is buffered; consumed events are not retained.
type cursor struct {
	dec  *xml.Decoder
	next *event
	err  error
	text strings.Builder
}

func newCursor(dec *xml.Decoder) *cursor {
	c := &cursor{dec: dec}
	c.advance()
	return c
}

// advance reads tokens until the next element boundary and stores it as the
// lookahead. At end of input the lookahead becomes nil.
func (c *cursor) advance() {
	c.next = nil
	if c.err != nil {
		return
	}
	for {
		tok, err := c.dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			c.err = &errors.ParseError{Format: "WN-LMF", Message: err.Error(), Err: err}
			return
		}
		switch t := tok.(type) {
		case xml.StartElement:
			c.text.Reset()
			attrs := make([]xml.Attr, len(t.Attr))
			copy(attrs, t.Attr)
			c.next = &event{kind: startEvent, name: t.Name.Local, attrs: attrs}
			return
		case xml.EndElement:
			c.next = &event{kind: endEvent, name: t.Name.Local, text: c.text.String()}
			c.text.Reset()
			return
		case xml.CharData:
			c.text.Write(t)
		}
	}
}

// starts reports whether the lookahead is a start of one of tags.
func (c *cursor) starts(tags ...string) bool {
	return c.next != nil && c.next.kind == startEvent && contains(tags, c.next.name)
}

// start consumes the lookahead, which must be a start of one of tags.
func (c *cursor) start(tags ...string) (*event, error) {
	return c.consume(startEvent, tags)
}

// end consumes the lookahead, which must be an end of one of tags.
func (c *cursor) end(tags ...string) (*event, error) {
	return c.consume(endEvent, tags)
}

func (c *cursor) consume(kind eventKind, tags []string) (*event, error) {
	ev := c.next
	if ev == nil && c.err != nil {
		return nil, c.err
	}
	if ev == nil || ev.kind != kind || !contains(tags, ev.name) {
		return nil, errors.NewMismatch(ev.String(), expected(kind, tags)...)
	}
	c.advance()
	return ev, nil
}

// leaf consumes a childless element and returns its start event with the
// element text attached.
func (c *cursor) leaf(tag string) (*event, error) {
	ev, err := c.start(tag)
	if err != nil {
		return nil, err
	}
	end, err := c.end(tag)
	if err != nil {
		return nil, err
	}
	ev.text = end.text
	return ev, nil
}

// release drops the scratch text buffer. The loader calls it after each
// completed entry or synset so that a single long text does not pin memory
// for the rest of the document.
func (c *cursor) release() {
	c.text = strings.Builder{}
}

// drain consumes any remaining events.
func (c *cursor) drain() error {
	for c.next != nil {
		c.advance()
	}
	return c.err
}

func expected(kind eventKind, tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		if kind == endEvent {
			out[i] = "</" + t + ">"
		} else {
			out[i] = "<" + t + ">"
		}
	}
	return out
}

func contains(tags []string, name string) bool {
	for _, t := range tags {
		if t == name {
			return true
		}
	}
	return false
}
