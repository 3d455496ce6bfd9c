package model

import "fmt"

// ReferenceEntry is the citation metadata derived from one DocumentRecord.
type ReferenceEntry struct {
	RefID string `json:"ref_id"`
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Path  string `json:"path,omitempty"`
}

// RefID returns the label of the record at the given 0-based position.
func RefID(index int) string {
	return fmt.Sprintf("REF-%d", index+1)
}

// FormattedResult pairs the agent-facing text with the references it cites.
// Failed is set when the store could not be queried and the result was
// degraded to empty.
type FormattedResult struct {
	Text       string           `json:"text"`
	References []ReferenceEntry `json:"references"`
	Failed     bool             `json:"failed,omitempty"`
}
