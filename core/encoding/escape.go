// Package encoding provides shared text escaping utilities for XML output.
package encoding

import (
	"strings"
)

var (
	textReplacer = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\r", "&#13;",
	)
	// Whitespace other than a plain space is normalized away by XML
	// attribute-value parsing, so it must travel as character references.
	attrReplacer = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"\r", "&#13;",
		"\n", "&#10;",
		"\t", "&#09;",
	)
)

// EscapeXMLText escapes the basic XML entities for text content. Carriage
// returns become character references so they survive line-end normalization.
func EscapeXMLText(s string) string {
	if !strings.ContainsAny(s, "&<>\r") {
		return s
	}
	return textReplacer.Replace(s)
}

// EscapeXMLAttr escapes text for use in a double-quoted XML attribute.
// Includes quote and whitespace escaping in addition to basic XML entities.
func EscapeXMLAttr(s string) string {
	if !strings.ContainsAny(s, "&<>\"\r\n\t") {
		return s
	}
	return attrReplacer.Replace(s)
}

// QuoteAttr returns s escaped and wrapped in double quotes.
func QuoteAttr(s string) string {
	return `"` + EscapeXMLAttr(s) + `"`
}
