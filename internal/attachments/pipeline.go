package attachments

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemow/inboxai/internal/extract"
	"github.com/teemow/inboxai/internal/instrumentation"
	"github.com/teemow/inboxai/internal/logging"
	"github.com/teemow/inboxai/internal/message"
)

// DefaultTableLimit caps spreadsheet and table text after extraction.
const DefaultTableLimit = 3000

// Extracted is the outcome of processing one attachment.
type Extracted struct {
	Filename  string
	Kind      Kind
	Label     string
	Text      string
	Truncated bool
}

// Pipeline runs the matching extractor for each staged attachment.
type Pipeline struct {
	extractors map[Format]extract.Extractor
	limits     map[Kind]int
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLimit caps the text of every attachment of kind k. Zero removes the cap.
func WithLimit(k Kind, limit int) Option {
	return func(p *Pipeline) {
		p.limits[k] = limit
	}
}

// WithLogger sets the logger used for extraction failures and cleanup.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithMetrics records each extraction.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// DefaultExtractors returns the production extractor for every format.
func DefaultExtractors(r extract.Recognizer) map[Format]extract.Extractor {
	return map[Format]extract.Extractor{
		FormatPDF:   extract.NewPDF(),
		FormatWord:  extract.NewDocument(),
		FormatExcel: extract.NewSpreadsheet(),
		FormatCSV:   extract.NewTable(),
		FormatImage: extract.NewImage(r),
	}
}

// New creates a pipeline over the given extractors.
func New(extractors map[Format]extract.Extractor, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractors: extractors,
		limits: map[Kind]int{
			KindSpreadsheet: DefaultTableLimit,
			KindTable:       DefaultTableLimit,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessAll returns exactly one result per descriptor, in input order. A
// failing extractor only affects its own entry.
func (p *Pipeline) ProcessAll(ctx context.Context, descs []message.Descriptor) []Extracted {
	out := make([]Extracted, 0, len(descs))
	for _, d := range descs {
		out = append(out, p.Process(ctx, d))
	}
	return out
}

// Process extracts a single staged attachment.
func (p *Pipeline) Process(ctx context.Context, d message.Descriptor) Extracted {
	format, ok := FormatOf(d.Filename)
	if !ok {
		p.metrics.RecordExtraction(ctx, KindUnsupported.String(), instrumentation.StatusSkipped, 0)
		return Extracted{
			Filename: d.Filename,
			Kind:     KindUnsupported,
			Label:    labelUnsupported,
			Text:     unsupportedText(d.Filename),
		}
	}

	kind := format.Kind()
	e, ok := p.extractors[format]
	if !ok || e == nil {
		p.logger.Warn("no extractor configured",
			logging.Attachment(d.Filename), logging.Kind(kind.String()))
		return Extracted{
			Filename: d.Filename,
			Kind:     KindError,
			Label:    labelError,
			Text:     extract.Failure(format.Label(), "no extractor configured").Text,
		}
	}

	start := time.Now()
	res := e.Extract(d.Path)
	duration := time.Since(start)

	if res.Failed {
		p.metrics.RecordExtraction(ctx, kind.String(), instrumentation.StatusError, duration)
		p.logger.Warn("attachment extraction failed",
			logging.Attachment(d.Filename), logging.Kind(kind.String()),
			slog.String("diagnostic", res.Text))
		return Extracted{
			Filename: d.Filename,
			Kind:     KindError,
			Label:    labelError,
			Text:     res.Text,
		}
	}
	p.metrics.RecordExtraction(ctx, kind.String(), instrumentation.StatusSuccess, duration)

	text, cut := extract.Truncate(res.Text, p.limits[kind])
	p.logger.Debug("attachment extracted",
		logging.Attachment(d.Filename), logging.Kind(kind.String()),
		slog.Int("chars", len(text)), slog.Duration(logging.KeyDuration, duration))

	return Extracted{
		Filename:  d.Filename,
		Kind:      kind,
		Label:     format.Label(),
		Text:      text,
		Truncated: res.Truncated || cut,
	}
}

func unsupportedText(filename string) string {
	ext := Suffix(filename)
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("File type %s not supported", ext)
}
