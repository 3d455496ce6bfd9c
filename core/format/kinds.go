package format

import "github.com/siherrmann/casegraph/model"

// threadHandler cites a discussion thread by its web address.
type threadHandler struct{}

func (threadHandler) Reference(doc *model.DocumentRecord, ref *model.ReferenceEntry) {
	ref.URL = doc.WebURL
}

func (threadHandler) Line(ref *model.ReferenceEntry) string {
	if ref.URL == "" {
		return ""
	}
	return "Teams URL: " + ref.URL + " (Reference: " + ref.RefID + ")"
}

// guideHandler cites a troubleshooting guide by base URL plus path.
type guideHandler struct {
	baseURL string
}

func (h guideHandler) Reference(doc *model.DocumentRecord, ref *model.ReferenceEntry) {
	if doc.Path != "" {
		ref.Path = h.baseURL + doc.Path
	}
}

func (guideHandler) Line(ref *model.ReferenceEntry) string {
	if ref.Path == "" {
		return ""
	}
	return "TSG Path: " + ref.Path + " (Reference: " + ref.RefID + ")"
}

// genericHandler is used for every kind without a handler.
type genericHandler struct{}

func (genericHandler) Reference(doc *model.DocumentRecord, ref *model.ReferenceEntry) {}

func (genericHandler) Line(ref *model.ReferenceEntry) string { return "" }
