package model

// DefaultTopK is used whenever a search is issued without a positive top-k.
const DefaultTopK = 5

// SearchConfig represents configuration for a semantic search
type SearchConfig struct {
	TopK int  `json:"top_k"`
	Kind Kind `json:"kind,omitempty"` // Empty means no kind filter
}

// DefaultSearchConfig returns the default configuration
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		TopK: DefaultTopK,
	}
}

// Limit returns TopK, falling back to DefaultTopK when it is not positive.
func (c *SearchConfig) Limit() int {
	if c == nil || c.TopK <= 0 {
		return DefaultTopK
	}
	return c.TopK
}
