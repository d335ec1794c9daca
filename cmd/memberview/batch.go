package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/skdltmxn/lookup-go/lookup"
)

var (
	batchJobs   int
	batchFormat string
)

var batchCmd = &cobra.Command{
	Use:   "batch <model> <queries.yaml>",
	Short: "Run many lookups against one model",
	Long: `Run a list of lookups concurrently against one loaded model.

The queries file is a YAML sequence:

  - {type: Derived, name: Method, invoke: true}
  - {type: Derived, name: Field, via: base}
  - {type: "A<int>.B", name: Field, from: Foo}

Results are printed in input order. A failing query is reported in place
and does not stop the others.`,
	Args: cobra.ExactArgs(2),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", 4, "number of concurrent lookups")
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "text", "output format (text, json)")
}

type batchResult struct {
	query  *query
	result lookup.Result
	err    error
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchFormat != "text" && batchFormat != "json" {
		return fmt.Errorf("unknown format: %s", batchFormat)
	}

	m, err := loadModel(args[0])
	if err != nil {
		return err
	}
	queries, err := readQueries(args[1])
	if err != nil {
		return err
	}

	results := make([]batchResult, len(queries))
	g, ctx := errgroup.WithContext(cmd.Context())
	if batchJobs > 0 {
		g.SetLimit(batchJobs)
	}
	for i, q := range queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := q.run(m)
			results[i] = batchResult{query: q, result: res, err: err}
			if err != nil {
				logger.Debug("query failed", "index", i, "query", q.String(), "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if batchFormat == "json" {
		views := make([]resultView, len(results))
		for i, r := range results {
			if r.err != nil {
				views[i] = resultView{Kind: "error", Name: r.query.Name, Error: r.err.Error()}
				continue
			}
			views[i] = viewResult(r.result)
		}
		encoder := json.NewEncoder(output)
		encoder.SetIndent("", "  ")
		return encoder.Encode(views)
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(output, "%s\n%s: %v\n\n", paint(colorDim, r.query.String()), paint(colorError, "error"), r.err)
			continue
		}
		printResult(r.query, r.result)
		fmt.Fprintln(output)
	}
	fmt.Fprintf(output, "Total: %d queries, %d failed\n", len(results), failed)
	return nil
}

func readQueries(path string) ([]*query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read queries: %w", err)
	}
	var queries []*query
	if err := yaml.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("failed to decode queries: %w", err)
	}
	for i, q := range queries {
		if q == nil || q.Type == "" || q.Name == "" {
			return nil, fmt.Errorf("query %d: type and name are required", i)
		}
	}
	return queries, nil
}
