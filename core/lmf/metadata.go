package lmf

import (
	"strconv"
	"strings"
)

// dcPrefix is the prefix bound to the Dublin Core namespace on dump. On load
// it is also accepted as an undeclared prefix.
const dcPrefix = "dc"

// IsZero reports whether no metadata slot is set.
func (m *Metadata) IsZero() bool {
	if m == nil {
		return true
	}
	for _, f := range dcFields {
		if *f.field(m) != "" {
			return false
		}
	}
	return m.Status == "" && m.Note == "" && m.Confidence == nil
}

// metadata collects the descriptive attributes of ev. It returns nil when the
// element carries none of them.
func (l *loader) metadata(ev *event) *Metadata {
	var m Metadata
	for _, f := range dcFields {
		v, ok := ev.attrNS(l.schema.DCNamespace, f.name)
		if !ok {
			v, _ = ev.attrNS(dcPrefix, f.name)
		}
		*f.field(&m) = v
	}
	m.Status, _ = ev.attr("status")
	m.Note, _ = ev.attr("note")
	if raw, ok := ev.attr("confidenceScore"); ok {
		m.Confidence = l.confidence(ev, raw)
	}
	if m.IsZero() {
		return nil
	}
	return &m
}

// confidence parses a confidence score, ignoring surrounding whitespace.
// Scores that are not numbers in [0,1] are reported and dropped.
func (l *loader) confidence(ev *event, raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		l.diagnose(DiagnosticConfidence, ev, "confidenceScore", raw,
			"confidence score is not a number: "+strconv.Quote(raw))
		return nil
	}
	if !(v >= 0 && v <= 1) {
		l.diagnose(DiagnosticConfidence, ev, "confidenceScore", raw,
			"confidence score must be between 0 and 1: "+raw)
		return nil
	}
	return &v
}

// appendMeta appends m as serialized attributes: Dublin Core fields in fixed
// order, then status, note and confidenceScore.
func appendMeta(attrs []attr, m *Metadata) []attr {
	if m == nil {
		return attrs
	}
	for _, f := range dcFields {
		if v := *f.field(m); v != "" {
			attrs = append(attrs, attr{dcPrefix + ":" + f.name, v})
		}
	}
	if m.Status != "" {
		attrs = append(attrs, attr{"status", m.Status})
	}
	if m.Note != "" {
		attrs = append(attrs, attr{"note", m.Note})
	}
	if m.Confidence != nil {
		attrs = append(attrs, attr{"confidenceScore", strconv.FormatFloat(*m.Confidence, 'f', -1, 64)})
	}
	return attrs
}
