package ingest

import (
	"fmt"
	"strings"
)

// ChunkFunc splits text into ordered chunks.
type ChunkFunc func(text string) ([]string, error)

// SentenceChunker creates a chunker that groups maxSentencesPerChunk sentences per chunk
func SentenceChunker(maxSentencesPerChunk int) ChunkFunc {
	return func(text string) ([]string, error) {
		if maxSentencesPerChunk <= 0 {
			return nil, fmt.Errorf("max sentences per chunk must be positive")
		}

		var chunks []string
		var current []string
		for _, sentence := range splitSentences(text) {
			current = append(current, sentence)
			if len(current) >= maxSentencesPerChunk {
				chunks = append(chunks, strings.Join(current, " "))
				current = nil
			}
		}

		// Remaining sentences
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
		}

		return chunks, nil
	}
}

// ParagraphChunker creates a chunker that splits by blank lines
func ParagraphChunker() ChunkFunc {
	return func(text string) ([]string, error) {
		var chunks []string
		for _, para := range strings.Split(text, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			chunks = append(chunks, para)
		}
		return chunks, nil
	}
}

// WholeChunker keeps the whole text as a single chunk.
func WholeChunker() ChunkFunc {
	return func(text string) ([]string, error) {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, nil
		}
		return []string{text}, nil
	}
}

func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "! ", "!|")
	text = strings.ReplaceAll(text, "? ", "?|")
	text = strings.ReplaceAll(text, ". ", ".|")

	var sentences []string
	for _, s := range strings.Split(text, "|") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
