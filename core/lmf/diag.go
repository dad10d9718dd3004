package lmf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FocuswithJustin/wnlmf/internal/logging"
)

// DiagnosticKind classifies a non-fatal anomaly.
type DiagnosticKind string

const (
	// DiagnosticLiteral is an enumerated attribute value outside its vocabulary.
	// The raw value is kept.
	DiagnosticLiteral DiagnosticKind = "literal"
	// DiagnosticCount is Count text that is not an integer. The value becomes -1.
	DiagnosticCount DiagnosticKind = "count"
	// DiagnosticConfidence is a confidenceScore that is not a number in [0,1].
	// The score is dropped.
	DiagnosticConfidence DiagnosticKind = "confidence"
)

// Diagnostic describes a non-conforming value that did not stop the load.
type Diagnostic struct {
	Kind      DiagnosticKind
	Lexicon   string
	Element   string
	Attribute string
	Value     string
	Message   string
}

func (d Diagnostic) String() string {
	loc := d.Element
	if d.Attribute != "" {
		loc += "@" + d.Attribute
	}
	if d.Lexicon != "" {
		return fmt.Sprintf("%s: %s: %s", d.Lexicon, loc, d.Message)
	}
	return fmt.Sprintf("%s: %s", loc, d.Message)
}

var discardLogger = slog.New(slog.DiscardHandler)

// Option configures Load and Dump.
type Option func(*options)

type options struct {
	ctx          context.Context
	logger       *slog.Logger
	onDiagnostic func(Diagnostic)
}

// WithContext attaches a context whose values (such as a run ID) are added
// to log records. Loading is not cancelled through it.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithLogger sets the logger used for diagnostics and progress records.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithDiagnosticHandler routes diagnostics to fn instead of the logger.
func WithDiagnosticHandler(fn func(Diagnostic)) Option {
	return func(o *options) { o.onDiagnostic = fn }
}

func newOptions(opts []Option) *options {
	o := &options{ctx: context.Background()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.LoggerFromContext(o.ctx)
	}
	return o
}

func (o *options) report(d Diagnostic) {
	if o.onDiagnostic != nil {
		o.onDiagnostic(d)
		return
	}
	logging.Diagnostic(o.logger, string(d.Kind), d.Element, d.Value, d.Message,
		"lexicon", d.Lexicon, "attribute", d.Attribute)
}
