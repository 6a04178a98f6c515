package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pugline/demostat/internal/engine"
	"github.com/pugline/demostat/internal/model"
	"github.com/pugline/demostat/internal/parser"
)

// runAnalyze is the engine's CLI surface: one positional demo path in, one
// result document on stdout. A document is emitted even on failure, with
// only the error field populated.
func runAnalyze(cmd *cobra.Command, args []string) error {
	replay, err := parser.Open(args[0])
	if err != nil {
		return emit(model.ErrorResult(err.Error()))
	}
	return emit(engine.Run(replay))
}

func emit(res *model.MatchResult) error {
	return json.NewEncoder(os.Stdout).Encode(res)
}
