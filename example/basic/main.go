package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/siherrmann/casegraph"
	"github.com/siherrmann/casegraph/helper"
	"github.com/siherrmann/casegraph/model"
)

var nodes = []*model.Node{
	{
		ID:       "thread-1",
		Title:    "Uploads fail with 503 during peak hours",
		Content:  "Customer reports 503 responses on large blob uploads between 9 and 11 am.",
		WebURL:   "https://teams.example/threads/1",
		Kind:     model.KindThread,
		Keywords: []string{"storage", "503", "upload"},
	},
	{
		ID:       "tsg-1",
		Title:    "Storage account throttling",
		Content:  "Throttling shows up as 503 Server Busy. Check the account ingress metrics.",
		Path:     "/tsg/storage/throttling",
		Kind:     model.KindGuide,
		Keywords: []string{"storage", "503", "throttling"},
	},
	{
		ID:       "thread-2",
		Title:    "Login loop after password reset",
		Content:  "Users are redirected back to the sign in page after resetting their password.",
		WebURL:   "https://teams.example/threads/2",
		Kind:     model.KindThread,
		Keywords: []string{"login", "identity"},
	},
}

func main() {
	ctx := context.Background()

	// Start a test Neo4j container
	teardown, boltURL, err := helper.MustStartNeo4jContainer()
	if err != nil {
		log.Fatalf("Failed to start Neo4j container: %v", err)
	}
	defer teardown(ctx)

	cfg := &helper.Configuration{
		Backend:  helper.BackendNeo4j,
		LogLevel: "info",
		Graph: &helper.GraphConfiguration{
			URI:      boltURL,
			Username: "neo4j",
			Password: "password",
			Database: "neo4j",
		},
	}

	g, err := casegraph.NewCaseGraph(cfg)
	if err != nil {
		log.Fatalf("Failed to create casegraph: %v", err)
	}
	defer g.Close(ctx)

	// Local sentence transformer, 384 dimensions
	if err := g.UseDefaultEmbedder(); err != nil {
		log.Fatalf("Failed to set up embedder: %v", err)
	}

	written, err := g.Ingest(ctx, nodes)
	if err != nil {
		log.Fatalf("Failed to ingest nodes: %v", err)
	}
	fmt.Printf("Ingested %d nodes\n\n", written)

	result, err := g.SemanticSearch(ctx, "blob upload returns server busy", &model.SearchConfig{TopK: 2})
	if err != nil {
		log.Fatalf("Semantic search failed: %v", err)
	}
	fmt.Println(result.Text)

	records, err := g.KeywordSearch(ctx, []string{"storage", "503"}, 5)
	if err != nil {
		log.Fatalf("Keyword search failed: %v", err)
	}
	for _, record := range records {
		fmt.Printf("%s (%s) matched %v\n", record.ID, record.Title, record.MatchedKeywords)
	}

	caseContext, err := g.ReviewCase(ctx, "Customer cannot sign in, the login page keeps reloading.", nil)
	if err != nil {
		log.Fatalf("Case review failed: %v", err)
	}
	fmt.Fprintln(os.Stdout, caseContext.String())
}
