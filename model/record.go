package model

// Kind selects both the search filter and the formatting template of a document.
// The set is open: unknown kinds are formatted generically.
type Kind string

const (
	KindThread  Kind = "teams_thread"
	KindGuide   Kind = "tsg"
	KindUnknown Kind = "unknown"

	// Generic names formatted like KindThread and KindGuide.
	KindThreadAlias Kind = "thread"
	KindGuideAlias  Kind = "guide"
)

// Source identifies the store a record was read from.
type Source string

const (
	SourceNeo4j    Source = "neo4j"
	SourcePostgres Source = "postgres"
)

// DocumentRecord is a normalized search result row.
//
// ID, Kind, Score and Source are always set. Content is empty when the stored
// value is null. WebURL is only meaningful for threads and Path only for guides.
// Score is a cosine similarity for semantic search and a matched keyword count
// for keyword search, the two are not comparable.
type DocumentRecord struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	WebURL          string   `json:"webUrl,omitempty"`
	Path            string   `json:"path,omitempty"`
	Kind            Kind     `json:"kind"`
	Score           float64  `json:"@search.score"`
	Source          Source   `json:"source"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
}
