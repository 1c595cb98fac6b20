package entities

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/diwise/ifc-elements/pkg/ifc/types"
	"github.com/diwise/ifc-elements/pkg/ifc/types/values"
)

type EntityDecoratorFunc func(e *EntityImpl)

func New(entityID types.ExpressID, entityType types.EntityType, decorators ...EntityDecoratorFunc) (types.Entity, error) {
	if entityType == "" {
		return nil, fmt.Errorf("entity %d must have a type", entityID)
	}

	e := &EntityImpl{
		entityID:   entityID,
		entityType: types.ParseEntityType(string(entityType)),
		attributes: map[string]values.Value{},
	}

	for _, decorator := range decorators {
		decorator(e)
	}

	return e, nil
}

func NewFromJSON(body []byte) (types.Entity, error) {
	e := &EntityImpl{}
	err := json.Unmarshal(body, e)

	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	if e.Type() == "" {
		return nil, fmt.Errorf("failed to parse entity")
	}

	return e, nil
}

func NewFromSlice(body []byte) ([]types.Entity, error) {
	impls := []*EntityImpl{}
	err := json.Unmarshal(body, &impls)
	if err != nil {
		return nil, err
	}

	arr := make([]types.Entity, 0, len(impls))

	for _, e := range impls {
		if e.Type() == "" {
			return nil, fmt.Errorf("line %d has no type", e.ID())
		}
		arr = append(arr, e)
	}

	return arr, nil
}

// Clone returns a detached copy of an entity that can be modified without affecting the original
func Clone(e types.Entity) types.Entity {
	c := &EntityImpl{
		entityID:   e.ID(),
		entityType: e.Type(),
		attributes: map[string]values.Value{},
	}

	e.ForEachAttribute(func(name string, value values.Value) {
		c.attributes[name] = value.Clone()
	})

	return c
}

type EntityImpl struct {
	entityID   types.ExpressID
	entityType types.EntityType

	attributes map[string]values.Value
}

func (e EntityImpl) ID() types.ExpressID {
	return e.entityID
}

func (e EntityImpl) Type() types.EntityType {
	return e.entityType
}

func (e EntityImpl) Attribute(name string) (values.Value, bool) {
	v, ok := e.attributes[name]
	return v, ok
}

func (e *EntityImpl) SetAttribute(name string, value values.Value) {
	if e.attributes == nil {
		e.attributes = map[string]values.Value{}
	}
	e.attributes[name] = value
}

func (e *EntityImpl) RemoveAttribute(predicate func(name string, value values.Value) bool) {
	for k, v := range e.attributes {
		if predicate(k, v) {
			delete(e.attributes, k)
		}
	}
}

// ForEachAttribute calls back once per attribute, sorted by attribute name
func (e EntityImpl) ForEachAttribute(callback func(name string, value values.Value)) error {
	names := make([]string, 0, len(e.attributes))
	for k := range e.attributes {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, k := range names {
		callback(k, e.attributes[k])
	}

	return nil
}

func (e EntityImpl) MarshalJSON() ([]byte, error) {
	contents := map[string]any{
		"expressID": e.ID(),
		"type":      e.Type(),
	}

	for k, v := range e.attributes {
		contents[k] = v
	}

	return json.Marshal(&contents)
}

func (e *EntityImpl) UnmarshalJSON(data []byte) error {
	var contents map[string]any
	err := json.Unmarshal(data, &contents)
	if err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	id, ok := contents["expressID"].(float64)
	if !ok || id < 0 || id > math.MaxUint32 || id != math.Trunc(id) {
		return fmt.Errorf("invalid or missing expressID")
	}

	entityType, ok := contents["type"].(string)
	if !ok {
		return fmt.Errorf("invalid or missing type for line %v", id)
	}

	// Delete the attributes we have already dealt with
	delete(contents, "expressID")
	delete(contents, "type")

	e.entityID = types.ExpressID(id)
	e.entityType = types.ParseEntityType(entityType)
	e.attributes = map[string]values.Value{}

	for k, v := range contents {
		value, err := values.UnmarshalV(v)
		if err != nil {
			return fmt.Errorf("attribute %s of line %d: %w", k, e.entityID, err)
		}
		e.attributes[k] = value
	}

	return nil
}

func A(name string, value values.Value) EntityDecoratorFunc {
	return func(e *EntityImpl) { e.attributes[name] = value }
}
