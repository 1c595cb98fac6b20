package updates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/diwise/ifc-elements/internal/pkg/application/resolver"
	ifcerrors "github.com/diwise/ifc-elements/pkg/ifc/errors"
	"github.com/diwise/ifc-elements/pkg/ifc/types"
	"github.com/diwise/ifc-elements/pkg/ifc/types/values"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("ifc-elements/updates")

var ErrInvalidArguments = ifcerrors.NewInvalidArgumentsError(errorInvalidArguments)

// ApplyUpdates applies the updates in order, one element at a time. Every requested change of an
// item is attempted even if another change of the same item fails, and an item counts as
// successful when at least one of its changes was applied. Changes are written back as they are
// made and are not rolled back when a later change fails.
func ApplyUpdates(ctx context.Context, store types.Store, updates []Update) Report {
	items := make([]candidate, 0, len(updates))
	for _, u := range updates {
		items = append(items, accepted(u))
	}

	return apply(ctx, store, items)
}

// ApplyUpdatesJSON accepts the updates as a JSON array. Items that are not objects with a
// numeric elementId are reported as failed without affecting the rest of the batch.
func ApplyUpdatesJSON(ctx context.Context, store types.Store, body []byte) Report {
	var raw []json.RawMessage

	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		logging.GetFromContext(ctx).Info("updates are not a json array")
		return rejectAll(nil)
	}

	items := make([]candidate, 0, len(raw))
	for _, r := range raw {
		items = append(items, decode(r))
	}

	return apply(ctx, store, items)
}

// UpdateElementName sets the Name of an element and reports if the change was written back
func UpdateElementName(store types.Store, elementID types.ExpressID, newName string) bool {
	applied, _ := updateName(store, elementID, newName)
	return applied
}

type operation struct {
	name  string
	value *string
	apply func(store types.Store, elementID types.ExpressID, value string) (bool, error)
}

func apply(ctx context.Context, store types.Store, items []candidate) Report {
	var err error

	ctx, span := tracer.Start(ctx, "apply-updates",
		trace.WithAttributes(attribute.Int("ifc.updates.count", len(items))),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	logger := logging.GetFromContext(ctx)

	if store == nil {
		err = ErrInvalidArguments
		logger.Info("no model to apply updates to")
		return rejectAll(items)
	}

	report := Report{
		Summary: Summary{TotalAttempted: len(items)},
		Details: make([]Detail, 0, len(items)),
	}

	for _, item := range items {
		if !item.valid {
			countItem(StatusFailed)
			report.add(Detail{ElementID: item.elementID, Status: StatusFailed, Reason: reasonInvalidStructure})
			continue
		}

		d := applyOne(ctx, store, item.update)
		countItem(d.Status)
		report.add(d)
	}

	logger.Debug("updates applied", "successful", report.Summary.Successful, "failed", report.Summary.Failed)

	return report
}

func applyOne(ctx context.Context, store types.Store, u Update) Detail {
	logger := logging.GetFromContext(ctx)

	operations := []operation{
		{name: "name", value: u.NewName, apply: updateName},
		{name: "material", value: u.Materiau, apply: updateMaterial},
		{name: "classification", value: u.CodeCFC, apply: updateClassificationCode},
	}

	updated := false
	reasons := []string{}

	for _, op := range operations {
		if op.value == nil {
			continue
		}

		applied, err := guarded(op, store, u.ElementID)
		countOperation(op.name, applied)

		if applied {
			updated = true
		}

		if err != nil {
			logger.Debug("element update failed", "element_id", u.ElementID, "operation", op.name, "err", err.Error())
			reasons = append(reasons, err.Error())
		}
	}

	d := Detail{
		ElementID: u.ElementID,
		NewName:   u.NewName,
		Materiau:  u.Materiau,
		CodeCFC:   u.CodeCFC,
		Status:    StatusSuccess,
		Reason:    strings.Join(reasons, "; "),
	}

	if !updated {
		d.Status = StatusFailed
		if d.Reason == "" {
			d.Reason = reasonNothingApplied
		}
	}

	return d
}

// guarded keeps a panicking store from aborting the rest of the batch
func guarded(op operation, store types.Store, elementID types.ExpressID) (applied bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s update error: %v", label(op.name), r)
		}
	}()

	return op.apply(store, elementID, *op.value)
}

func label(operation string) string {
	switch operation {
	case "name":
		return "Name"
	case "material":
		return "Material"
	default:
		return "CFC"
	}
}

func updateName(store types.Store, elementID types.ExpressID, newName string) (bool, error) {
	element, ok := store.GetLine(elementID)
	if !ok {
		return false, ifcerrors.NewNotFoundError("Element not found for name update.")
	}

	element.SetAttribute("Name", replaceText(element, "Name", newName))

	if err := store.WriteLine(element); err != nil {
		return false, writeError("Name", err)
	}

	return true, nil
}

// updateMaterial renames every material associated with the element that already has a name.
// Materials shared with other elements are renamed for those elements as well.
func updateMaterial(store types.Store, elementID types.ExpressID, name string) (bool, error) {
	applied := false

	for _, rel := range resolver.Relationships(store, elementID, types.MaterialAssociation) {
		material, ok := resolver.Follow(store, rel, types.MaterialAssociation.Relating)
		if !ok {
			continue
		}

		current, ok := material.Attribute("Name")
		if !ok || !current.IsStringWrapper() {
			continue
		}

		material.SetAttribute("Name", current.WithText(name))

		if err := store.WriteLine(material); err != nil {
			return applied, writeError("Material", err)
		}

		applied = true
	}

	if !applied {
		return false, ifcerrors.NewNotFoundError("No related material found to update.")
	}

	return true, nil
}

func updateClassificationCode(store types.Store, elementID types.ExpressID, code string) (bool, error) {
	applied := false

	for _, rel := range resolver.Relationships(store, elementID, types.ClassificationAssociation) {
		reference, ok := resolver.Follow(store, rel, types.ClassificationAssociation.Relating)
		if !ok || reference.Type() != types.IfcClassificationReference {
			continue
		}

		reference.SetAttribute("ItemReference", replaceText(reference, "ItemReference", code))

		if err := store.WriteLine(reference); err != nil {
			return applied, writeError("CFC", err)
		}

		applied = true
	}

	if !applied {
		return false, ifcerrors.NewNotFoundError("No related CFC/classification found to update.")
	}

	return true, nil
}

// replaceText keeps the type code of an existing string wrapper and creates a new one otherwise
func replaceText(e types.Entity, attribute, text string) values.Value {
	if current, ok := e.Attribute(attribute); ok && current.IsStringWrapper() {
		return current.WithText(text)
	}
	return values.NewString(text)
}

func writeError(operation string, err error) error {
	if !errors.Is(err, ifcerrors.ErrWriteFailed) {
		err = fmt.Errorf("%w: %w", ifcerrors.ErrWriteFailed, err)
	}
	return fmt.Errorf("%s update error: %w", operation, err)
}
