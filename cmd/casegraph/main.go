package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/siherrmann/casegraph"
	"github.com/siherrmann/casegraph/core/retrieval"
	"github.com/siherrmann/casegraph/core/tools"
	"github.com/siherrmann/casegraph/helper"
	"github.com/siherrmann/casegraph/model"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnv loads the env file if it exists. Variables already set win.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return helper.NewError("load env file", err)
	}
	return nil
}

func openCaseGraph(withEmbedder bool) (*casegraph.CaseGraph, error) {
	if err := loadEnv(envFile); err != nil {
		return nil, err
	}
	if backendType != "" {
		os.Setenv("CASEGRAPH_BACKEND", backendType)
	}

	cfg, err := helper.NewConfiguration()
	if err != nil {
		return nil, err
	}

	var options []retrieval.EngineOption
	if strictErrors {
		options = append(options, retrieval.WithStrictErrors())
	}

	g, err := casegraph.NewCaseGraph(cfg, options...)
	if err != nil {
		return nil, err
	}

	if withEmbedder {
		switch embedderType {
		case "openai":
			err = g.UseOpenAIEmbedder()
		case "local":
			err = g.UseDefaultEmbedder()
		default:
			err = helper.NewError("select embedder", fmt.Errorf("unsupported embedder %q (use openai or local)", embedderType))
		}
		if err != nil {
			g.Close(context.Background())
			return nil, err
		}
	}

	return g, nil
}

func searchConfig() *model.SearchConfig {
	return &model.SearchConfig{TopK: topK, Kind: model.Kind(kindFilter)}
}

func runSemantic(cmd *cobra.Command, args []string) error {
	g, err := openCaseGraph(true)
	if err != nil {
		return err
	}
	defer g.Close(cmd.Context())

	result, err := g.SemanticSearch(cmd.Context(), strings.Join(args, " "), searchConfig())
	if err != nil {
		return err
	}
	if result.Failed {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: search failed, showing empty result")
	}

	fmt.Fprint(cmd.OutOrStdout(), result.Text)
	return nil
}

func runKeyword(cmd *cobra.Command, args []string) error {
	g, err := openCaseGraph(false)
	if err != nil {
		return err
	}
	defer g.Close(cmd.Context())

	records, err := g.KeywordSearch(cmd.Context(), args, topK)
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), records)
}

func runCase(cmd *cobra.Command, args []string) error {
	description, err := readCase(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	g, err := openCaseGraph(true)
	if err != nil {
		return err
	}
	defer g.Close(cmd.Context())

	caseContext, err := g.ReviewCase(cmd.Context(), description, searchConfig())
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), caseContext.String())
	return nil
}

func runTools(cmd *cobra.Command, args []string) error {
	return writeJSON(cmd.OutOrStdout(), tools.NewRegistry(nil).OpenAITools())
}

func runSeed(cmd *cobra.Command, args []string) error {
	nodes, err := readSeedFile(args[0])
	if err != nil {
		return err
	}

	g, err := openCaseGraph(true)
	if err != nil {
		return err
	}
	defer g.Close(cmd.Context())

	written, err := g.Ingest(cmd.Context(), nodes)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d nodes from %s\n", written, args[0])
	return nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	g, err := openCaseGraph(false)
	if err != nil {
		return err
	}
	defer g.Close(cmd.Context())

	return g.ChangeIndexType(cmd.Context(), args[0], indexParams)
}

// readCase reads a case description from a file, or from in when path is "-".
func readCase(path string, in io.Reader) (string, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(in)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", helper.NewError("read case", err)
	}

	description := strings.TrimSpace(string(b))
	if description == "" {
		return "", helper.NewError("read case", fmt.Errorf("case description is empty"))
	}
	return description, nil
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return helper.NewError("encode json", err)
	}
	return nil
}
