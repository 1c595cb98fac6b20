package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	ifcerrors "github.com/diwise/ifc-elements/pkg/ifc/errors"
	"github.com/diwise/ifc-elements/pkg/ifc/types"
	"github.com/diwise/ifc-elements/pkg/ifc/types/entities"
	"github.com/diwise/ifc-elements/pkg/ifc/types/values"
	"github.com/matryer/is"
)

func TestLoadSnapshot(t *testing.T) {
	is, m := setupModelTest(t)

	is.Equal(m.Len(), 5)
	is.Equal(m.Schema(), "IFC2X3")
	is.Equal(m.ID().String(), "5f0c9c3e-2bd4-4b8a-9a57-1c0a3a4b9e11")
	is.Equal(m.GetLineIDsWithType(types.IfcWall), []types.ExpressID{5, 6})
	is.Equal(m.GetLineIDsWithType("IfcWall"), []types.ExpressID{5, 6}) // should be case insensitive
}

func TestLoadSnapshotWithDuplicateLinesFails(t *testing.T) {
	is := is.New(t)

	_, err := NewFromJSON(bytes.NewBufferString(`{"lines":[{"expressID":1,"type":"IFCWALL"},{"expressID":1,"type":"IFCDOOR"}]}`))
	is.True(errors.Is(err, ifcerrors.ErrInvalidStructure))
}

func TestRelationshipIndex(t *testing.T) {
	is, m := setupModelTest(t)

	is.Equal(m.RelationshipIDs(types.IfcRelAssociatesMat, 5), []types.ExpressID{20, 21})
	is.Equal(m.RelationshipIDs(types.IfcRelAssociatesMat, 6), []types.ExpressID{20})
	is.Equal(len(m.RelationshipIDs(types.IfcRelAssociatesMat, 99)), 0)
	is.Equal(len(m.RelationshipIDs(types.IfcWall, 5)), 0) // walls are not indexed
}

func TestGetLineReturnsADetachedCopy(t *testing.T) {
	is, m := setupModelTest(t)

	e, ok := m.GetLine(5)
	is.True(ok)
	e.SetAttribute("Name", values.NewString("changed"))

	again, _ := m.GetLine(5)
	name, _ := again.Attribute("Name")
	s, _ := name.Text()
	is.Equal(s, "Wall A") // should not change until written back
	is.Equal(len(m.Modified()), 0)
}

func TestWriteLineUpdatesIndexes(t *testing.T) {
	is, m := setupModelTest(t)

	rel, _ := m.GetLine(21)
	rel.SetAttribute(types.RelatedObjects, values.NewReferenceList(6))
	is.NoErr(m.WriteLine(rel))

	is.Equal(m.RelationshipIDs(types.IfcRelAssociatesMat, 5), []types.ExpressID{20})
	is.Equal(m.RelationshipIDs(types.IfcRelAssociatesMat, 6), []types.ExpressID{20, 21})
	is.Equal(m.Modified(), []types.ExpressID{21})
}

func TestWriteLineCanAddLines(t *testing.T) {
	is, m := setupModelTest(t)

	door, _ := entities.New(7, types.IfcDoor, entities.Name("D1"))
	is.NoErr(m.WriteLine(door))

	is.Equal(m.GetLineIDsWithType(types.IfcDoor), []types.ExpressID{7})
}

func TestWriteLineRejectsTypeChanges(t *testing.T) {
	is, m := setupModelTest(t)

	door, _ := entities.New(5, types.IfcDoor)
	err := m.WriteLine(door)
	is.True(errors.Is(err, ifcerrors.ErrTypeMismatch))
}

func TestMarshalSnapshot(t *testing.T) {
	is, m := setupModelTest(t)

	b, err := json.Marshal(m)
	is.NoErr(err)

	reloaded, err := NewFromJSON(bytes.NewBuffer(b))
	is.NoErr(err)
	is.Equal(reloaded.ID(), m.ID())
	is.Equal(reloaded.Len(), m.Len())
	is.Equal(reloaded.RelationshipIDs(types.IfcRelAssociatesMat, 5), []types.ExpressID{20, 21})
}

func setupModelTest(t *testing.T) (*is.I, *Model) {
	is := is.New(t)
	m, err := NewFromJSON(bytes.NewBufferString(snapshotJSON))
	is.NoErr(err)

	return is, m
}

const snapshotJSON string = `{
	"id": "5f0c9c3e-2bd4-4b8a-9a57-1c0a3a4b9e11",
	"schema": "IFC2X3",
	"lines": [
		{"expressID": 21, "type": "IFCRELASSOCIATESMATERIAL", "RelatedObjects": [{"type": 5, "value": 5}], "RelatingMaterial": {"type": 5, "value": 31}},
		{"expressID": 5, "type": "IFCWALL", "Name": {"type": 1, "value": "Wall A"}},
		{"expressID": 6, "type": "IFCWALL", "Name": {"type": 1, "value": "Wall B"}},
		{"expressID": 20, "type": "IFCRELASSOCIATESMATERIAL", "RelatedObjects": [{"type": 5, "value": 5}, {"type": 5, "value": 6}], "RelatingMaterial": {"type": 5, "value": 30}},
		{"expressID": 30, "type": "IFCMATERIAL", "Name": {"type": 1, "value": "Concrete"}}
	]
}`
