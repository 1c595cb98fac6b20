package elements

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/diwise/ifc-elements/internal/pkg/application/costs"
	ifcerrors "github.com/diwise/ifc-elements/pkg/ifc/errors"
	"github.com/diwise/ifc-elements/pkg/ifc/model"
	"github.com/matryer/is"
)

func TestExtractElements(t *testing.T) {
	is, ctx, app, m, _ := setupElementsTest(t)

	result, err := app.ExtractElements(ctx, m)
	is.NoErr(err)

	is.Equal(result.ModelID, "0b0f4a5e-7f57-4c38-9a0e-5d0e1f2a3b4c")
	is.Equal(len(result.Items), 2) // should list the wall and the door
	is.Equal(result.Items[0].Material, "Concrete")
	is.Equal(result.CostReport.Total, 1500.0)
}

func TestExtractElementsWithoutModel(t *testing.T) {
	is, ctx, app, _, _ := setupElementsTest(t)

	_, err := app.ExtractElements(ctx, nil)
	is.True(errors.Is(err, ifcerrors.ErrInvalidArguments))
}

func TestUpdateElementsSavesChanges(t *testing.T) {
	is, ctx, app, m, storage := setupElementsTest(t)

	report, err := app.UpdateElements(ctx, m, []byte(`[{"elementId": 1, "newName": "Wall A", "materiau": "Brick"}]`))
	is.NoErr(err)

	is.True(report.Success())
	is.Equal(storage.saved, 1) // changes should be saved once
}

func TestUpdateElementsWithoutChangesIsNotSaved(t *testing.T) {
	is, ctx, app, m, storage := setupElementsTest(t)

	report, err := app.UpdateElements(ctx, m, []byte(`[{"elementId": 404, "newName": "Ghost"}]`))
	is.NoErr(err)

	is.Equal(report.Summary.Failed, 1)
	is.Equal(storage.saved, 0)
}

func TestUpdateElementsWithoutModel(t *testing.T) {
	is, ctx, app, _, storage := setupElementsTest(t)

	report, err := app.UpdateElements(ctx, nil, []byte(`[{"elementId": 1, "newName": "Wall A"}]`))
	is.NoErr(err)

	is.Equal(report.Summary.Failed, 1)
	is.True(report.Error != "")
	is.Equal(storage.saved, 0)
}

func TestUpdateElementsReportsStorageFailures(t *testing.T) {
	is, ctx, _, m, storage := setupElementsTest(t)
	storage.err = ifcerrors.NewWriteFailedError("database is gone")

	app, err := New(ctx, nil, storage)
	is.NoErr(err)

	report, err := app.UpdateElements(ctx, m, []byte(`[{"elementId": 1, "newName": "Wall A"}]`))
	is.True(errors.Is(err, ifcerrors.ErrWriteFailed))
	is.Equal(report.Summary.Successful, 1) // the report should still be returned
}

func TestNewRequiresElementTypes(t *testing.T) {
	is := is.New(t)

	_, err := New(context.Background(), &costs.Config{}, nil)
	is.True(errors.Is(err, ifcerrors.ErrInvalidArguments))
}

type storageMock struct {
	saved int
	err   error
}

func (s *storageMock) SaveChanges(ctx context.Context, m *model.Model) error {
	s.saved++
	return s.err
}

func setupElementsTest(t *testing.T) (*is.I, context.Context, ElementManager, *model.Model, *storageMock) {
	is := is.New(t)
	ctx := context.Background()

	catalogue, err := costs.LoadConfiguration(bytes.NewBufferString(catalogueYAML))
	is.NoErr(err)

	m, err := model.NewFromJSON(bytes.NewBufferString(modelJSON))
	is.NoErr(err)

	storage := &storageMock{}
	app, err := New(ctx, catalogue, storage)
	is.NoErr(err)

	return is, ctx, app, m, storage
}

const catalogueYAML string = `
elements:
  - type: IfcWall
    unitCost: 100
  - type: IfcDoor
    unitCost: 500
`

const modelJSON string = `{"id": "0b0f4a5e-7f57-4c38-9a0e-5d0e1f2a3b4c", "schema": "IFC4", "lines": [
	{"expressID": 1, "type": "IFCWALL", "Name": {"type": 1, "value": "Basic Wall"}, "NominalHeight": {"type": 4, "value": 2.5}, "NominalLength": {"type": 4, "value": 4.0}},
	{"expressID": 2, "type": "IFCDOOR", "OverallHeight": {"type": 4, "value": 2.0}, "OverallWidth": {"type": 4, "value": 0.5}},
	{"expressID": 10, "type": "IFCRELASSOCIATESMATERIAL", "RelatedObjects": [{"type": 5, "value": 1}], "RelatingMaterial": {"type": 5, "value": 11}},
	{"expressID": 11, "type": "IFCMATERIAL", "Name": {"type": 1, "value": "Concrete"}}
]}`
