package model

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/diwise/ifc-elements/pkg/ifc/errors"
	"github.com/diwise/ifc-elements/pkg/ifc/types"
	"github.com/diwise/ifc-elements/pkg/ifc/types/entities"
	"github.com/google/uuid"
)

const DefaultSchema string = "IFC4"

// Model is an in memory entity store for a single loaded file. Lines are kept in an arena keyed
// by express id, with an index per entity type and, for relationship types, an index from
// related object to the relationships that reference it.
//
// A Model is not safe for concurrent use.
type Model struct {
	id     uuid.UUID
	schema string

	lines   map[types.ExpressID]types.Entity
	byType  map[types.EntityType][]types.ExpressID
	related map[types.EntityType]map[types.ExpressID][]types.ExpressID
	dirty   map[types.ExpressID]struct{}
}

type ModelDecoratorFunc func(m *Model)

func WithID(id uuid.UUID) ModelDecoratorFunc {
	return func(m *Model) { m.id = id }
}

func WithSchema(schema string) ModelDecoratorFunc {
	return func(m *Model) {
		if schema != "" {
			m.schema = schema
		}
	}
}

func New(lines []types.Entity, decorators ...ModelDecoratorFunc) (*Model, error) {
	m := &Model{
		id:      uuid.New(),
		schema:  DefaultSchema,
		lines:   make(map[types.ExpressID]types.Entity, len(lines)),
		byType:  map[types.EntityType][]types.ExpressID{},
		related: map[types.EntityType]map[types.ExpressID][]types.ExpressID{},
		dirty:   map[types.ExpressID]struct{}{},
	}

	for _, decorator := range decorators {
		decorator(m)
	}

	for _, kind := range types.RelationshipKinds {
		m.related[kind.Type] = map[types.ExpressID][]types.ExpressID{}
	}

	for _, l := range lines {
		if _, exists := m.lines[l.ID()]; exists {
			return nil, errors.NewInvalidStructureError(fmt.Sprintf("duplicate line %d", l.ID()))
		}
		m.insert(entities.Clone(l))
	}

	return m, nil
}

type snapshot struct {
	ID     string            `json:"id,omitempty"`
	Schema string            `json:"schema,omitempty"`
	Lines  []json.RawMessage `json:"lines"`
}

// NewFromJSON loads a model from a snapshot document, i.e. {"schema": "IFC4", "lines": [...]}
func NewFromJSON(r io.Reader) (*Model, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	s := snapshot{}
	err = json.Unmarshal(buf, &s)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal model snapshot: %w", err)
	}

	lines := make([]types.Entity, 0, len(s.Lines))
	for _, raw := range s.Lines {
		e, err := entities.NewFromJSON(raw)
		if err != nil {
			return nil, err
		}
		lines = append(lines, e)
	}

	decorators := []ModelDecoratorFunc{WithSchema(s.Schema)}
	if s.ID != "" {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid model id %q: %w", s.ID, err)
		}
		decorators = append(decorators, WithID(id))
	}

	return New(lines, decorators...)
}

func (m *Model) ID() uuid.UUID {
	return m.id
}

func (m *Model) Schema() string {
	return m.schema
}

func (m *Model) Len() int {
	return len(m.lines)
}

// GetLine returns a detached copy of a line. Changes are only kept if written back using WriteLine.
func (m *Model) GetLine(id types.ExpressID) (types.Entity, bool) {
	e, ok := m.lines[id]
	if !ok {
		return nil, false
	}
	return entities.Clone(e), true
}

func (m *Model) GetLineIDsWithType(t types.EntityType) []types.ExpressID {
	return slices.Clone(m.byType[types.ParseEntityType(string(t))])
}

// RelationshipIDs returns the relationships of type t that list elementID among their related objects
func (m *Model) RelationshipIDs(t types.EntityType, elementID types.ExpressID) []types.ExpressID {
	index, ok := m.related[types.ParseEntityType(string(t))]
	if !ok {
		return nil
	}
	return slices.Clone(index[elementID])
}

// WriteLine stores a copy of the entity, replacing any existing line with the same id.
// Replacing a line with one of another type is not allowed.
func (m *Model) WriteLine(e types.Entity) error {
	if e == nil {
		return errors.NewInvalidArgumentsError("cannot write a nil line")
	}

	if existing, ok := m.lines[e.ID()]; ok {
		if existing.Type() != e.Type() {
			return errors.NewTypeMismatchError(
				fmt.Sprintf("line %d is of type %s and cannot be replaced by a %s", e.ID(), existing.Type(), e.Type()),
			)
		}
		m.remove(existing)
	}

	m.insert(entities.Clone(e))
	m.dirty[e.ID()] = struct{}{}

	return nil
}

// Modified returns the ids of all lines written since the model was loaded
func (m *Model) Modified() []types.ExpressID {
	ids := make([]types.ExpressID, 0, len(m.dirty))
	for id := range m.dirty {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Lines returns copies of all lines ordered by express id
func (m *Model) Lines() []types.Entity {
	ids := make([]types.ExpressID, 0, len(m.lines))
	for id := range m.lines {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	lines := make([]types.Entity, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, entities.Clone(m.lines[id]))
	}
	return lines
}

func (m *Model) MarshalJSON() ([]byte, error) {
	lines := m.Lines()
	raw := make([]json.RawMessage, 0, len(lines))

	for _, l := range lines {
		b, err := l.MarshalJSON()
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}

	return json.Marshal(&snapshot{
		ID:     m.id.String(),
		Schema: m.schema,
		Lines:  raw,
	})
}

func (m *Model) insert(e types.Entity) {
	m.lines[e.ID()] = e
	m.byType[e.Type()] = insertSorted(m.byType[e.Type()], e.ID())

	index, isRelationship := m.related[e.Type()]
	if !isRelationship {
		return
	}

	for _, elementID := range relatedObjects(e) {
		index[elementID] = insertSorted(index[elementID], e.ID())
	}
}

func (m *Model) remove(e types.Entity) {
	delete(m.lines, e.ID())
	m.byType[e.Type()] = removeSorted(m.byType[e.Type()], e.ID())

	index, isRelationship := m.related[e.Type()]
	if !isRelationship {
		return
	}

	for _, elementID := range relatedObjects(e) {
		index[elementID] = removeSorted(index[elementID], e.ID())
		if len(index[elementID]) == 0 {
			delete(index, elementID)
		}
	}
}

func relatedObjects(e types.Entity) []types.ExpressID {
	v, ok := e.Attribute(types.RelatedObjects)
	if !ok {
		return nil
	}

	refs := v.Refs()
	ids := make([]types.ExpressID, 0, len(refs))
	for _, r := range refs {
		id := types.ExpressID(r)
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func insertSorted(ids []types.ExpressID, id types.ExpressID) []types.ExpressID {
	idx, found := slices.BinarySearch(ids, id)
	if found {
		return ids
	}
	return slices.Insert(ids, idx, id)
}

func removeSorted(ids []types.ExpressID, id types.ExpressID) []types.ExpressID {
	idx, found := slices.BinarySearch(ids, id)
	if !found {
		return ids
	}
	return slices.Delete(ids, idx, idx+1)
}
