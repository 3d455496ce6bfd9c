package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	envFile      string
	backendType  string
	embedderType string
	strictErrors bool
	topK         int
	kindFilter   string
	indexParams  map[string]int

	rootCmd = &cobra.Command{
		Use:   "casegraph",
		Short: "Search support threads and troubleshooting guides for case review agents",
		Long: `casegraph retrieves citation annotated context for support cases
from a Neo4j or PostgreSQL graph store.`,
		SilenceUsage: true,
	}

	// --- Search ---
	semanticCmd = &cobra.Command{
		Use:   "semantic [query]",
		Short: "Semantic search, prints the formatted documents with references",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSemantic,
	}
	keywordCmd = &cobra.Command{
		Use:   "keyword [keyword...]",
		Short: "Keyword search, prints the matching records as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runKeyword,
	}
	caseCmd = &cobra.Command{
		Use:   "case [file|-]",
		Short: "Builds the review context for a case description read from a file or stdin",
		Args:  cobra.ExactArgs(1),
		RunE:  runCase,
	}

	// --- Agent Tools ---
	toolsCmd = &cobra.Command{
		Use:   "tools",
		Short: "Prints the agent tool definitions as JSON",
		Args:  cobra.NoArgs,
		RunE:  runTools,
	}

	// --- Data ---
	seedCmd = &cobra.Command{
		Use:   "seed [file.yaml]",
		Short: "Embeds and writes the nodes of a YAML seed file to the graph store",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeed,
	}
	indexCmd = &cobra.Command{
		Use:   "index [hnsw|ivfflat|none]",
		Short: "Changes the vector index of the postgres backend",
		Args:  cobra.ExactArgs(1),
		RunE:  runIndex,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before reading the configuration")
	rootCmd.PersistentFlags().StringVar(&backendType, "backend", "", "Graph store backend (neo4j or postgres), overrides CASEGRAPH_BACKEND")
	rootCmd.PersistentFlags().StringVar(&embedderType, "embedder", "openai", "Embedding provider (openai or local)")
	rootCmd.PersistentFlags().BoolVar(&strictErrors, "strict", false, "Fail on store errors instead of returning empty results")

	for _, cmd := range []*cobra.Command{semanticCmd, keywordCmd, caseCmd} {
		cmd.Flags().IntVarP(&topK, "top-k", "k", 5, "Number of documents to return")
	}
	for _, cmd := range []*cobra.Command{semanticCmd, caseCmd} {
		cmd.Flags().StringVar(&kindFilter, "kind", "", "Only return documents of this kind (teams_thread, tsg)")
	}
	indexCmd.Flags().StringToIntVar(&indexParams, "param", nil, "Index parameters, e.g. --param m=16 --param ef_construction=64")

	rootCmd.AddCommand(semanticCmd, keywordCmd, caseCmd, toolsCmd, seedCmd, indexCmd)
}
