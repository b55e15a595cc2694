package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thaiyyal-labs/flowquest/backend/pkg/graph"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/server"
	"github.com/thaiyyal-labs/flowquest/backend/pkg/types"
)

var seedFile string

var walkCmd = &cobra.Command{
	Use:   "walk [request.json]",
	Short: "Run a single Walk call against a JSON-seeded in-memory graph",
	Long: `walk loads a WalkRequest from the given file (or stdin when no file
is given), seeds an in-memory graph from --seed, runs one Engine.Walk
call, and prints the resulting WalkResponse as JSON.

The seed file maps Cypher-like query statements to the rows
graph.Session.Run should return for that statement, the same fixture
shape pkg/graph's own tests use:

  {
    "MATCH (s:Section {sectionId: $sectionId}) RETURN s": [
      {"sectionId": "s1", "name": "intro"}
    ]
  }`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWalk,
}

func init() {
	walkCmd.Flags().StringVar(&seedFile, "seed", "", "JSON file of query statement -> rows seeding the in-memory graph")
}

func runWalk(cmd *cobra.Command, args []string) error {
	reqData, err := readInput(args)
	if err != nil {
		return err
	}

	var req types.WalkRequest
	if err := json.Unmarshal(reqData, &req); err != nil {
		return fmt.Errorf("parse walk request: %w", err)
	}

	seed, err := loadSeed(seedFile)
	if err != nil {
		return err
	}

	eng := server.NewInMemoryEngine(seed, activeConfig)
	logger.WithField("sectionId", req.SectionID).Debug("running walk")

	resp, err := eng.Walk(context.Background(), req)
	if err != nil {
		return fmt.Errorf("walk: %w", err)
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read request file: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read request from stdin: %w", err)
	}
	return data, nil
}

func loadSeed(path string) (map[string][]graph.Record, error) {
	if path == "" {
		return map[string][]graph.Record{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed map[string][]graph.Record
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return seed, nil
}
