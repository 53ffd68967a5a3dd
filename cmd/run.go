package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contact-scout/internal/browse"
	"github.com/sells-group/contact-scout/internal/llm"
	"github.com/sells-group/contact-scout/internal/model"
	"github.com/sells-group/contact-scout/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run <entity-name>",
	Short: "Run a single extraction synchronously and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityName := args[0]

		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic API key is required (CONTACTSCOUT_ANTHROPIC_KEY)")
		}
		searcher, err := initSearch()
		if err != nil {
			return err
		}

		claude := llm.NewClaude(cfg.Anthropic.Key, llm.WithModel(cfg.Anthropic.Model))
		browser := browse.NewHTTPBrowser()
		callTimeout := time.Duration(cfg.Pipeline.CallTimeoutSecs) * time.Second
		executor := pipeline.NewExecutor(searcher, browser, claude, callTimeout)

		outcome := executor.Run(cmd.Context(), entityName)
		zap.L().Info("run finished",
			zap.String("entity_name", entityName),
			zap.String("status", string(outcome.Status)),
			zap.String("message", outcome.Message))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(model.WebhookPayload{
			Status:  outcome.Status,
			Message: outcome.Message,
			Result:  outcome.Result,
		}); err != nil {
			return eris.Wrap(err, "encode result")
		}

		if outcome.Status != model.TaskStatusSuccess {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
