// fintrack-import loads a JSON file holding both collections and replaces
// the store contents with it. A full overwrite, never a merge.
//
// Usage: fintrack-import -file backup.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/store"
)

type importFile struct {
	Expenses []core.Expense `json:"expenses"`
	Income   []core.Income  `json:"income"`
}

func main() {
	filePath := flag.String("file", "", "JSON file with expenses and income collections")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger().WithComponent(applog.ComponentImport)
	cfg := cli.LoadAndValidateConfig(logger)

	if *filePath == "" {
		logger.Error("Missing -file argument")
		os.Exit(1)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		logger.Error("Failed to read import file", "error", err, "file", *filePath)
		os.Exit(1)
	}

	var payload importFile
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Error("Import file is not valid JSON", "error", err, "file", *filePath)
		os.Exit(1)
	}

	for _, e := range payload.Expenses {
		if err := e.Validate(); err != nil {
			logger.Error("Invalid expense in import file", "error", err, "transaction_id", e.ID)
			os.Exit(1)
		}
	}
	for _, i := range payload.Income {
		if err := i.Validate(); err != nil {
			logger.Error("Invalid income in import file", "error", err, "transaction_id", i.ID)
			os.Exit(1)
		}
	}

	kvs, err := backend.Open(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer kvs.Close()

	ctx := context.Background()
	st := store.New(ctx, kvs, store.UUIDGenerator{}, nil)

	st.ReplaceExpenses(ctx, payload.Expenses)
	st.ReplaceIncome(ctx, payload.Income)

	if err := st.Flush(ctx); err != nil {
		logger.Error("Failed to persist imported collections", "error", err)
		os.Exit(1)
	}

	logger.Info("Import complete",
		"expenses", len(payload.Expenses),
		"income", len(payload.Income),
		"backend", cfg.DataBackend)
}
