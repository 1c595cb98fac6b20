package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/diwise/ifc-elements/internal/pkg/application/costs"
	"github.com/diwise/ifc-elements/internal/pkg/application/elements"
	"github.com/diwise/ifc-elements/internal/pkg/application/updates"
	"github.com/diwise/ifc-elements/internal/pkg/infrastructure/database"
	"github.com/diwise/ifc-elements/pkg/ifc/model"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	appName string = "ifc-elements"
)

var errUsage = errors.New("usage: ifc-elements [flags] extract|update|import")

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	flags, args := parseExternalConfig(ctx, defaultFlags(ctx))

	appVersion := buildinfo.SourceVersion()

	ctx, logger, cleanup := o11y.Init(ctx, appName, appVersion, flags[logFormat])
	defer cleanup()

	err := updates.RegisterMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Warn("failed to register metrics", "err", err.Error())
	}

	err = run(ctx, flags, args, os.Stdin, os.Stdout)
	if err != nil {
		logger.Error("failed to run command", "err", err.Error())
		cleanup()
		os.Exit(1)
	}
}

func defaultFlags(ctx context.Context) FlagMap {
	return FlagMap{
		cataloguePath: env.GetVariableOrDefault(ctx, "CATALOGUE_PATH", ""),
		logFormat:     env.GetVariableOrDefault(ctx, "LOG_FORMAT", "json"),
	}
}

func parseExternalConfig(_ context.Context, flags FlagMap) (FlagMap, []string) {

	apply := func(f FlagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	flag.Func("model", "path to a json snapshot of the model", apply(modelPath))
	flag.Func("model-id", "id of a model stored in the database", apply(modelID))
	flag.Func("out", "path to write the updated snapshot to", apply(outputPath))
	flag.Func("catalogue", "path to the element catalogue (CATALOGUE_PATH)", apply(cataloguePath))
	flag.Func("updates", "path to a json array of updates, stdin is read if not set", apply(updatesPath))
	flag.Func("log-format", "log format, json or text", apply(logFormat))
	flag.Parse()

	return flags, flag.Args()
}

func run(ctx context.Context, flags FlagMap, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}

	command := args[0]
	if command != "extract" && command != "update" && command != "import" {
		return fmt.Errorf("unknown command %q: %w", command, errUsage)
	}

	catalogue, err := loadCatalogue(flags[cataloguePath])
	if err != nil {
		return err
	}

	var db database.Database

	if flags[modelID] != "" || command == "import" {
		cfg := database.LoadConfiguration(ctx)
		if !cfg.Enabled() {
			return fmt.Errorf("command %s requires a database, set POSTGRES_HOST", command)
		}

		db, err = database.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
	}

	m, err := loadModel(ctx, flags, db, command)
	if err != nil {
		return err
	}

	ctx = logging.NewContextWithLogger(ctx, logging.GetFromContext(ctx), "model_id", m.ID().String())

	if command == "import" {
		err = db.SaveModel(ctx, m)
		if err != nil {
			return err
		}
		return writeJSON(stdout, map[string]any{"modelId": m.ID().String(), "lines": m.Len()})
	}

	var storage elements.ModelStorage
	if flags[modelID] != "" {
		storage = db
	}

	app, err := elements.New(ctx, catalogue, storage)
	if err != nil {
		return err
	}

	if command == "extract" {
		result, err := app.ExtractElements(ctx, m)
		if err != nil {
			return err
		}
		return writeJSON(stdout, result)
	}

	body, err := readUpdates(flags[updatesPath], stdin)
	if err != nil {
		return err
	}

	report, err := app.UpdateElements(ctx, m, body)
	if err != nil {
		return err
	}

	if flags[outputPath] != "" {
		err = saveSnapshot(flags[outputPath], m)
		if err != nil {
			return err
		}
	}

	return writeJSON(stdout, report)
}

func loadCatalogue(path string) (*costs.Config, error) {
	if path == "" {
		return costs.DefaultConfig(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer f.Close()

	return costs.LoadConfiguration(f)
}

func loadModel(ctx context.Context, flags FlagMap, db database.Database, command string) (*model.Model, error) {
	if flags[modelID] != "" && command != "import" {
		id, err := uuid.Parse(flags[modelID])
		if err != nil {
			return nil, fmt.Errorf("invalid model id: %w", err)
		}
		return db.LoadModel(ctx, id)
	}

	if flags[modelPath] == "" {
		return nil, fmt.Errorf("either -model or -model-id is required: %w", errUsage)
	}

	f, err := os.Open(flags[modelPath])
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer f.Close()

	return model.NewFromJSON(f)
}

func readUpdates(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func saveSnapshot(path string, m *model.Model) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
