package format

import (
	"strings"

	"github.com/siherrmann/casegraph/model"
)

const (
	// DefaultGuideBaseURL is prefixed to guide paths to form their full address.
	DefaultGuideBaseURL = "https://dev.supportability.microsoft.com"

	sectionSeparator  = "---------\n"
	sectionJoin       = "\n\n"
	referencesHeading = "\n\n=== DOCUMENT REFERENCES ===\n"
)

// KindHandler fills the kind specific parts of a reference entry and
// renders the kind specific reference line of a document section.
type KindHandler interface {
	// Reference sets the address fields of ref from doc.
	Reference(doc *model.DocumentRecord, ref *model.ReferenceEntry)
	// Line returns the reference line for the section, or "" for none.
	Line(ref *model.ReferenceEntry) string
}

// Formatter turns document records into agent-consumable text with a
// numbered reference list. It holds no per-call state and is safe for
// concurrent use.
type Formatter struct {
	handlers map[model.Kind]KindHandler
	fallback KindHandler
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithGuideBaseURL changes the base URL used for guide paths.
func WithGuideBaseURL(baseURL string) Option {
	return func(f *Formatter) {
		f.handlers[model.KindGuide] = guideHandler{baseURL: baseURL}
		f.handlers[model.KindGuideAlias] = guideHandler{baseURL: baseURL}
	}
}

// WithKindHandler registers a handler for an additional kind or replaces
// the handler of a recognized one.
func WithKindHandler(kind model.Kind, handler KindHandler) Option {
	return func(f *Formatter) {
		f.handlers[kind] = handler
	}
}

// NewFormatter creates a formatter that knows threads and guides, under
// both their stored kind names and the generic "thread" and "guide".
func NewFormatter(options ...Option) *Formatter {
	f := &Formatter{
		handlers: map[model.Kind]KindHandler{
			model.KindThread:      threadHandler{},
			model.KindThreadAlias: threadHandler{},
			model.KindGuide:       guideHandler{baseURL: DefaultGuideBaseURL},
			model.KindGuideAlias:  guideHandler{baseURL: DefaultGuideBaseURL},
		},
		fallback: genericHandler{},
	}

	for _, option := range options {
		option(f)
	}

	return f
}

// Format renders one section per document followed by the references section.
// References are numbered REF-1..REF-n in input order on every call.
func (f *Formatter) Format(documents []*model.DocumentRecord) *model.FormattedResult {
	references := make([]model.ReferenceEntry, 0, len(documents))
	sections := make([]string, 0, len(documents))

	for i, doc := range documents {
		if doc == nil {
			doc = &model.DocumentRecord{}
		}

		kind := doc.Kind
		if kind == "" {
			kind = model.KindUnknown
		}

		ref := model.ReferenceEntry{
			RefID: model.RefID(i),
			Kind:  kind,
			Title: doc.Title,
		}
		handler := f.handler(kind)
		handler.Reference(doc, &ref)
		references = append(references, ref)

		var section strings.Builder
		section.WriteString("DOCUMENT " + ref.RefID + ":\n")
		section.WriteString("Type: " + string(kind) + "\n")
		if doc.Content != "" {
			section.WriteString("Content: " + doc.Content + "\n")
		}
		if line := handler.Line(&ref); line != "" {
			section.WriteString(line + "\n")
		}
		section.WriteString(sectionSeparator)
		sections = append(sections, section.String())
	}

	var text strings.Builder
	text.WriteString(strings.Join(sections, sectionJoin))
	text.WriteString(FormatReferences(references))

	return &model.FormattedResult{
		Text:       text.String(),
		References: references,
	}
}

// FormatReferences renders the references section on its own.
func FormatReferences(references []model.ReferenceEntry) string {
	var b strings.Builder
	b.WriteString(referencesHeading)
	for _, ref := range references {
		b.WriteString(ref.RefID + ": " + string(ref.Kind) + " - " + ref.Title)
		if ref.URL != "" {
			b.WriteString(" - " + ref.URL)
		}
		if ref.Path != "" {
			b.WriteString(" - " + ref.Path)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (f *Formatter) handler(kind model.Kind) KindHandler {
	if h, ok := f.handlers[kind]; ok {
		return h
	}
	return f.fallback
}
