package format

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/siherrmann/casegraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterFormat(t *testing.T) {
	f := NewFormatter()

	t.Run("Guide path is prefixed with the base URL", func(t *testing.T) {
		result := f.Format([]*model.DocumentRecord{
			{ID: "1", Kind: model.KindGuide, Path: "/kb/123", Content: "Fix steps"},
		})

		assert.Contains(t, result.Text, "TSG Path: https://dev.supportability.microsoft.com/kb/123 (Reference: REF-1)")
		require.Len(t, result.References, 1)
		assert.Equal(t, "https://dev.supportability.microsoft.com/kb/123", result.References[0].Path)
		assert.Empty(t, result.References[0].URL)
	})

	t.Run("Generic guide and thread kinds get their reference lines", func(t *testing.T) {
		result := f.Format([]*model.DocumentRecord{
			{ID: "1", Kind: "guide", Path: "/kb/123", Content: "Fix steps"},
			{ID: "2", Kind: "thread", Title: "Outage", WebURL: "https://teams.example/2"},
		})

		assert.Contains(t, result.Text, "Type: guide\n")
		assert.Contains(t, result.Text, "TSG Path: https://dev.supportability.microsoft.com/kb/123 (Reference: REF-1)")
		assert.Contains(t, result.Text, "Teams URL: https://teams.example/2 (Reference: REF-2)")
		require.Len(t, result.References, 2)
		assert.Equal(t, model.Kind("guide"), result.References[0].Kind)
		assert.Equal(t, "https://dev.supportability.microsoft.com/kb/123", result.References[0].Path)
		assert.Equal(t, "https://teams.example/2", result.References[1].URL)
	})

	t.Run("Full output layout", func(t *testing.T) {
		result := f.Format([]*model.DocumentRecord{
			{ID: "t1", Title: "Upload errors", Kind: model.KindThread, WebURL: "https://teams.example/t1", Content: "Seen since Monday"},
			{ID: "g1", Title: "Storage TSG", Kind: model.KindGuide, Path: "/kb/7", Content: "Check quota"},
		})

		expected := "DOCUMENT REF-1:\n" +
			"Type: teams_thread\n" +
			"Content: Seen since Monday\n" +
			"Teams URL: https://teams.example/t1 (Reference: REF-1)\n" +
			"---------\n" +
			"\n\n" +
			"DOCUMENT REF-2:\n" +
			"Type: tsg\n" +
			"Content: Check quota\n" +
			"TSG Path: https://dev.supportability.microsoft.com/kb/7 (Reference: REF-2)\n" +
			"---------\n" +
			"\n\n=== DOCUMENT REFERENCES ===\n" +
			"REF-1: teams_thread - Upload errors - https://teams.example/t1\n" +
			"REF-2: tsg - Storage TSG - https://dev.supportability.microsoft.com/kb/7\n"

		assert.Equal(t, expected, result.Text)
	})

	t.Run("Reference count and ids follow input order", func(t *testing.T) {
		docs := make([]*model.DocumentRecord, 7)
		for i := range docs {
			docs[i] = &model.DocumentRecord{ID: fmt.Sprint(i), Kind: "announcement", Title: fmt.Sprintf("doc %d", i)}
		}

		result := f.Format(docs)

		require.Len(t, result.References, len(docs))
		for i, ref := range result.References {
			assert.Equal(t, fmt.Sprintf("REF-%d", i+1), ref.RefID)
			assert.Equal(t, docs[i].Title, ref.Title)
		}
	})

	t.Run("Numbering restarts on every call", func(t *testing.T) {
		docs := []*model.DocumentRecord{{ID: "a", Kind: model.KindThread, WebURL: "https://x"}}

		first := f.Format(docs)
		second := f.Format(docs)

		assert.Equal(t, "REF-1", first.References[0].RefID)
		assert.Equal(t, "REF-1", second.References[0].RefID)
	})

	t.Run("Duplicate addresses are not deduplicated", func(t *testing.T) {
		result := f.Format([]*model.DocumentRecord{
			{ID: "1", Title: "A", Kind: model.KindGuide, Path: "/kb/1"},
			{ID: "2", Title: "B", Kind: model.KindGuide, Path: "/kb/1"},
		})

		assert.Contains(t, result.Text, "REF-1: tsg - A - https://dev.supportability.microsoft.com/kb/1\n")
		assert.Contains(t, result.Text, "REF-2: tsg - B - https://dev.supportability.microsoft.com/kb/1\n")
	})

	t.Run("Empty input has only the references header", func(t *testing.T) {
		result := f.Format(nil)

		assert.Equal(t, "\n\n=== DOCUMENT REFERENCES ===\n", result.Text)
		assert.Empty(t, result.References)
		assert.NotContains(t, result.Text, "DOCUMENT REF-")
	})

	t.Run("Empty content omits the content line", func(t *testing.T) {
		result := f.Format([]*model.DocumentRecord{{ID: "1", Kind: model.KindThread, WebURL: "https://x"}})

		assert.NotContains(t, result.Text, "Content:")
	})

	t.Run("Missing addresses omit the reference line", func(t *testing.T) {
		result := f.Format([]*model.DocumentRecord{
			{ID: "1", Title: "T", Kind: model.KindThread},
			{ID: "2", Title: "G", Kind: model.KindGuide},
		})

		assert.NotContains(t, result.Text, "Teams URL:")
		assert.NotContains(t, result.Text, "TSG Path:")
		assert.Contains(t, result.Text, "REF-1: teams_thread - T\n")
		assert.Contains(t, result.Text, "REF-2: tsg - G\n")
	})

	t.Run("Unknown kind is generic and empty kind is unknown", func(t *testing.T) {
		result := f.Format([]*model.DocumentRecord{
			{ID: "1", Title: "Notice", Kind: "announcement", WebURL: "https://ignored", Path: "/ignored"},
			{ID: "2", Title: "Orphan"},
		})

		assert.Contains(t, result.Text, "Type: announcement\n")
		assert.Contains(t, result.Text, "Type: unknown\n")
		assert.Contains(t, result.Text, "REF-1: announcement - Notice\n")
		assert.Contains(t, result.Text, "REF-2: unknown - Orphan\n")
		assert.NotContains(t, result.Text, "ignored")
	})

	t.Run("Formatting is deterministic", func(t *testing.T) {
		docs := []*model.DocumentRecord{
			{ID: "1", Title: "A", Kind: model.KindGuide, Path: "/kb/1", Content: "x"},
			{ID: "2", Title: "B", Kind: model.KindThread, WebURL: "https://t/2", Content: "y"},
		}

		assert.Equal(t, f.Format(docs).Text, f.Format(docs).Text)
	})
}

func TestFormatterOptions(t *testing.T) {
	t.Run("Custom guide base URL", func(t *testing.T) {
		f := NewFormatter(WithGuideBaseURL("https://kb.internal"))

		result := f.Format([]*model.DocumentRecord{{ID: "1", Kind: model.KindGuide, Path: "/a"}})

		assert.Contains(t, result.Text, "TSG Path: https://kb.internal/a (Reference: REF-1)")

		result = f.Format([]*model.DocumentRecord{{ID: "2", Kind: model.KindGuideAlias, Path: "/b"}})

		assert.Contains(t, result.Text, "TSG Path: https://kb.internal/b (Reference: REF-1)")
	})

	t.Run("Additional kind handler", func(t *testing.T) {
		f := NewFormatter(WithKindHandler("announcement", threadHandler{}))

		result := f.Format([]*model.DocumentRecord{{ID: "1", Kind: "announcement", Title: "N", WebURL: "https://news/1"}})

		assert.Contains(t, result.Text, "Teams URL: https://news/1 (Reference: REF-1)")
		assert.Contains(t, result.Text, "REF-1: announcement - N - https://news/1\n")
	})
}

func TestFormatterConcurrentUse(t *testing.T) {
	f := NewFormatter()

	var wg sync.WaitGroup
	results := make([]*model.FormattedResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			docs := make([]*model.DocumentRecord, i+1)
			for j := range docs {
				docs[j] = &model.DocumentRecord{ID: fmt.Sprint(j), Kind: model.KindThread, WebURL: "https://t"}
			}
			results[i] = f.Format(docs)
		}(i)
	}
	wg.Wait()

	for i, result := range results {
		assert.Len(t, result.References, i+1, "each call owns its references")
		assert.Equal(t, i+1, strings.Count(result.Text, "---------\n"))
	}
}
