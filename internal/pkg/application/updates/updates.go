// Package updates applies batches of edits (name, material and classification code) to the
// elements of a loaded model and reports the outcome of every requested edit.
package updates

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/diwise/ifc-elements/pkg/ifc/types"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// NotAvailable is reported as the element id of items that carry no usable id
const NotAvailable string = "N/A"

const (
	reasonInvalidArguments string = "Invalid arguments provided to updateIfcElement function."
	reasonInvalidStructure string = "Invalid update object structure or missing/invalid elementId."
	reasonNothingApplied   string = "No updates applied."
	errorInvalidArguments  string = "Invalid arguments provided to function."
)

// Update is a requested change to a single element. Nil fields are left untouched.
type Update struct {
	ElementID types.ExpressID `json:"elementId"`
	NewName   *string         `json:"newName,omitempty"`
	Materiau  *string         `json:"materiau,omitempty"`
	CodeCFC   *string         `json:"code_CFC,omitempty"`
}

type UpdateDecoratorFunc func(u *Update)

func NewUpdate(elementID types.ExpressID, decorators ...UpdateDecoratorFunc) Update {
	u := Update{ElementID: elementID}
	for _, decorator := range decorators {
		decorator(&u)
	}
	return u
}

func Name(name string) UpdateDecoratorFunc {
	return func(u *Update) { u.NewName = &name }
}

func Material(material string) UpdateDecoratorFunc {
	return func(u *Update) { u.Materiau = &material }
}

func ClassificationCode(code string) UpdateDecoratorFunc {
	return func(u *Update) { u.CodeCFC = &code }
}

// candidate is an update as received, before it is known to be well formed
type candidate struct {
	update    Update
	elementID any
	valid     bool
}

func accepted(u Update) candidate {
	return candidate{update: u, elementID: u.ElementID, valid: true}
}

// decode is lenient. Fields of the wrong type are ignored and a malformed item
// only fails itself, never the batch it was sent in.
func decode(raw json.RawMessage) candidate {
	var object map[string]any

	if err := json.Unmarshal(raw, &object); err != nil || object == nil {
		return candidate{elementID: NotAvailable}
	}

	rawID, present := object["elementId"]
	if !present || !truthy(rawID) {
		rawID = NotAvailable
	}

	n, ok := object["elementId"].(float64)
	if !ok || n < 0 || n > math.MaxUint32 || n != math.Trunc(n) {
		return candidate{elementID: rawID}
	}

	u := Update{ElementID: types.ExpressID(n)}
	u.NewName = optionalString(object, "newName")
	u.Materiau = optionalString(object, "materiau")
	u.CodeCFC = optionalString(object, "code_CFC")

	return accepted(u)
}

func optionalString(object map[string]any, key string) *string {
	if s, ok := object[key].(string); ok {
		return &s
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}

type Summary struct {
	TotalAttempted int `json:"totalAttempted"`
	Successful     int `json:"successful"`
	Failed         int `json:"failed"`
}

// Detail is the outcome for one requested update. Successful items may still carry a reason
// when some, but not all, of their requested changes failed.
type Detail struct {
	ElementID any     `json:"elementId"`
	NewName   *string `json:"newName,omitempty"`
	Materiau  *string `json:"materiau,omitempty"`
	CodeCFC   *string `json:"code_CFC,omitempty"`
	Status    Status  `json:"status"`
	Reason    string  `json:"reason,omitempty"`
}

type Report struct {
	Summary Summary  `json:"summary"`
	Details []Detail `json:"details"`
	Error   string   `json:"error,omitempty"`
}

// Success reports if the batch was accepted and every item in it was applied
func (r Report) Success() bool {
	return r.Error == "" && r.Summary.Failed == 0
}

func (r Report) Message() string {
	return fmt.Sprintf(
		"IFC elements update process completed. Successful: %d, Failed: %d.",
		r.Summary.Successful, r.Summary.Failed,
	)
}

func (r *Report) add(d Detail) {
	if d.Status == StatusSuccess {
		r.Summary.Successful++
	} else {
		r.Summary.Failed++
	}
	r.Details = append(r.Details, d)
}

func rejectAll(items []candidate) Report {
	r := Report{
		Summary: Summary{TotalAttempted: len(items)},
		Details: make([]Detail, 0, len(items)),
		Error:   errorInvalidArguments,
	}

	for _, c := range items {
		r.add(Detail{ElementID: c.elementID, Status: StatusFailed, Reason: reasonInvalidArguments})
	}

	return r
}
