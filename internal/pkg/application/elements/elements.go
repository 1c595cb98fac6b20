// Package elements is the application layer used by the command line driver. It lists the
// elements of a loaded model with their costs, and applies batches of updates to it.
package elements

import (
	"context"
	"fmt"

	"github.com/diwise/ifc-elements/internal/pkg/application/costs"
	"github.com/diwise/ifc-elements/internal/pkg/application/extraction"
	"github.com/diwise/ifc-elements/internal/pkg/application/updates"
	"github.com/diwise/ifc-elements/pkg/ifc/errors"
	"github.com/diwise/ifc-elements/pkg/ifc/model"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("ifc-elements/elements")

const TraceAttributeModelID string = "ifc.model.id"

type ElementExtractor interface {
	ExtractElements(ctx context.Context, m *model.Model) (*ExtractResult, error)
}

type ElementUpdater interface {
	UpdateElements(ctx context.Context, m *model.Model, body []byte) (*updates.Report, error)
}

type ElementManager interface {
	ElementExtractor
	ElementUpdater
}

// ModelStorage persists the changes made to a model. It is implemented by the database package.
type ModelStorage interface {
	SaveChanges(ctx context.Context, m *model.Model) error
}

type ExtractResult struct {
	ModelID    string            `json:"modelId"`
	Schema     string            `json:"schema"`
	Items      []extraction.Item `json:"items"`
	CostReport costs.Report      `json:"costReport"`
}

type elementsApp struct {
	catalogue *costs.Config
	storage   ModelStorage
}

// New creates an ElementManager. Changes are only persisted if storage is not nil.
func New(ctx context.Context, catalogue *costs.Config, storage ModelStorage) (ElementManager, error) {
	if catalogue == nil {
		catalogue = costs.DefaultConfig()
	}

	if len(catalogue.Elements) == 0 {
		return nil, errors.NewInvalidArgumentsError("the element catalogue does not list any element types")
	}

	app := &elementsApp{
		catalogue: catalogue,
		storage:   storage,
	}

	return app, nil
}

func (app *elementsApp) ExtractElements(ctx context.Context, m *model.Model) (*ExtractResult, error) {
	var err error

	ctx, span := tracer.Start(ctx, "extract-elements",
		trace.WithAttributes(attribute.String(TraceAttributeModelID, modelID(m))),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if m == nil {
		err = errors.NewInvalidArgumentsError("no model to extract elements from")
		return nil, err
	}

	logger := logging.GetFromContext(ctx).With("model_id", modelID(m))

	result := &ExtractResult{
		ModelID:    modelID(m),
		Schema:     m.Schema(),
		Items:      extraction.ExtractItems(m, app.catalogue.ElementTypes()),
		CostReport: costs.Calculate(m, app.catalogue),
	}

	logger.Debug("elements extracted", "count", len(result.Items), "total_cost", result.CostReport.Total)

	return result, nil
}

func (app *elementsApp) UpdateElements(ctx context.Context, m *model.Model, body []byte) (*updates.Report, error) {
	var err error

	ctx, span := tracer.Start(ctx, "update-elements",
		trace.WithAttributes(attribute.String(TraceAttributeModelID, modelID(m))),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	ctx = logging.NewContextWithLogger(ctx, logging.GetFromContext(ctx), "model_id", modelID(m))
	logger := logging.GetFromContext(ctx)

	// a nil *model.Model must not be passed on as a non nil store
	var report updates.Report
	if m == nil {
		report = updates.ApplyUpdatesJSON(ctx, nil, body)
	} else {
		report = updates.ApplyUpdatesJSON(ctx, m, body)
	}

	logger.Info(report.Message())

	if app.storage == nil || m == nil || len(m.Modified()) == 0 {
		return &report, nil
	}

	err = app.storage.SaveChanges(ctx, m)
	if err != nil {
		logger.Error("failed to save model changes", "err", err.Error())
		return &report, fmt.Errorf("failed to save model changes: %w", err)
	}

	return &report, nil
}

func modelID(m *model.Model) string {
	if m == nil {
		return ""
	}
	return m.ID().String()
}
