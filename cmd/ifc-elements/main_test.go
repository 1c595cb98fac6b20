package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestExtractCommand(t *testing.T) {
	is, ctx, flags := setupCommandTest(t)
	stdout := &bytes.Buffer{}

	err := run(ctx, flags, []string{"extract"}, nil, stdout)
	is.NoErr(err)

	result := struct {
		Items []struct {
			Name     string `json:"name"`
			Material string `json:"material"`
		} `json:"items"`
		CostReport struct {
			Total float64 `json:"total"`
		} `json:"costReport"`
	}{}

	is.NoErr(json.Unmarshal(stdout.Bytes(), &result))
	is.Equal(len(result.Items), 1) // should list the single wall
	is.Equal(result.Items[0].Material, "Concrete")
	is.Equal(result.CostReport.Total, 1000.0)
}

func TestUpdateCommandWritesSnapshot(t *testing.T) {
	is, ctx, flags := setupCommandTest(t)
	flags[outputPath] = filepath.Join(t.TempDir(), "updated.json")
	stdout := &bytes.Buffer{}

	stdin := strings.NewReader(`[{"elementId": 1, "newName": "Wall A"}]`)

	err := run(ctx, flags, []string{"update"}, stdin, stdout)
	is.NoErr(err)
	is.True(strings.Contains(stdout.String(), `"successful": 1`))

	updated, err := os.ReadFile(flags[outputPath])
	is.NoErr(err)
	is.True(strings.Contains(string(updated), `"Wall A"`)) // the new name should be saved
}

func TestUnknownCommand(t *testing.T) {
	is, ctx, flags := setupCommandTest(t)

	err := run(ctx, flags, []string{"delete"}, nil, &bytes.Buffer{})
	is.True(errors.Is(err, errUsage))

	err = run(ctx, flags, []string{}, nil, &bytes.Buffer{})
	is.True(errors.Is(err, errUsage))
}

func TestModelIsRequired(t *testing.T) {
	is, ctx, flags := setupCommandTest(t)
	delete(flags, modelPath)

	err := run(ctx, flags, []string{"extract"}, nil, &bytes.Buffer{})
	is.True(errors.Is(err, errUsage))
}

func setupCommandTest(t *testing.T) (*is.I, context.Context, FlagMap) {
	is := is.New(t)
	dir := t.TempDir()

	modelFile := filepath.Join(dir, "model.json")
	is.NoErr(os.WriteFile(modelFile, []byte(modelJSON), 0644))

	catalogueFile := filepath.Join(dir, "catalogue.yaml")
	is.NoErr(os.WriteFile(catalogueFile, []byte(catalogueYAML), 0644))

	flags := FlagMap{
		modelPath:     modelFile,
		cataloguePath: catalogueFile,
		logFormat:     "json",
	}

	return is, context.Background(), flags
}

const catalogueYAML string = `
elements:
  - type: IfcWall
    unitCost: 100
`

const modelJSON string = `{"schema": "IFC4", "lines": [
	{"expressID": 1, "type": "IFCWALL", "Name": {"type": 1, "value": "Basic Wall"}, "NominalHeight": {"type": 4, "value": 2.5}, "NominalLength": {"type": 4, "value": 4.0}},
	{"expressID": 10, "type": "IFCRELASSOCIATESMATERIAL", "RelatedObjects": [{"type": 5, "value": 1}], "RelatingMaterial": {"type": 5, "value": 11}},
	{"expressID": 11, "type": "IFCMATERIAL", "Name": {"type": 1, "value": "Concrete"}}
]}`
