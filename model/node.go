package model

import "time"

// Node is a searchable document node as it is ingested into a graph store.
// Keywords become HAS_KEYWORD edges to keyword nodes.
type Node struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	WebURL    string    `json:"webUrl,omitempty" yaml:"webUrl,omitempty"`
	Path      string    `json:"path,omitempty" yaml:"path,omitempty"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	Keywords  []string  `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Metadata  Metadata  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Embedding []float32 `json:"embedding,omitempty" yaml:"-"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
}
