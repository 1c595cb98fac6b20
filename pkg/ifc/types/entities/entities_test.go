package entities

import (
	"encoding/json"
	"testing"

	"github.com/diwise/ifc-elements/pkg/ifc/types"
	"github.com/diwise/ifc-elements/pkg/ifc/types/values"
	"github.com/matryer/is"
)

func TestJSONMarshalling(t *testing.T) {
	is := is.New(t)
	e, err := NewFromJSON([]byte(wallJSON))

	is.NoErr(err)
	is.Equal(e.ID(), types.ExpressID(5))
	is.Equal(e.Type(), types.IfcWall)

	b, err := json.Marshal(e)

	is.NoErr(err)
	is.Equal(string(b), `{"GlobalId":{"type":1,"value":"2O2Fr$t4X7Zf8NOew3FLOH"},"Name":{"type":1,"value":"Basic Wall:Interior"},"NominalLength":4.5,"Representation":{"type":5,"value":12},"expressID":5,"type":"IFCWALL"}`)
}

func TestNewFromJSONRequiresAType(t *testing.T) {
	is := is.New(t)

	_, err := NewFromJSON([]byte(`{"expressID": 5}`))
	is.True(err != nil) // should fail without a type
}

func TestNewFromJSONRequiresAValidID(t *testing.T) {
	is := is.New(t)

	_, err := NewFromJSON([]byte(`{"expressID": -1, "type": "IFCWALL"}`))
	is.True(err != nil) // should fail with a negative id
}

func TestNewFromSlice(t *testing.T) {
	is := is.New(t)

	lines, err := NewFromSlice([]byte(`[` + wallJSON + `,{"expressID":6,"type":"IfcDoor","OverallWidth":{"type":4,"value":0.9}}]`))
	is.NoErr(err)
	is.Equal(len(lines), 2)
	is.Equal(lines[1].Type(), types.IfcDoor) // type names should be normalized
}

func TestDecorators(t *testing.T) {
	is := is.New(t)

	e, err := New(10, types.IfcRelAssociatesMat, RelatedObjects(1, 2, 3), Ref("RelatingMaterial", 20), Name("rel"))
	is.NoErr(err)

	related, ok := e.Attribute(types.RelatedObjects)
	is.True(ok)
	is.Equal(related.Refs(), []uint32{1, 2, 3})

	material, _ := e.Attribute("RelatingMaterial")
	id, ok := material.Ref()
	is.True(ok)
	is.Equal(id, uint32(20))
}

func TestCloneIsDetached(t *testing.T) {
	is := is.New(t)

	e, _ := New(1, types.IfcWall, Name("before"))
	c := Clone(e)
	c.SetAttribute("Name", values.NewString("after"))

	name, _ := e.Attribute("Name")
	s, _ := name.Text()
	is.Equal(s, "before") // original should not change
}

func TestRemoveAttribute(t *testing.T) {
	is := is.New(t)
	e, err := NewFromJSON([]byte(wallJSON))
	is.NoErr(err)

	impl, ok := e.(*EntityImpl)
	is.True(ok)
	is.Equal(4, len(impl.attributes))

	impl.RemoveAttribute(func(name string, value values.Value) bool {
		return name == `Representation`
	})
	is.Equal(3, len(impl.attributes))
}

func TestForEachAttributeIsSorted(t *testing.T) {
	is := is.New(t)
	e, _ := NewFromJSON([]byte(wallJSON))

	names := []string{}
	e.ForEachAttribute(func(name string, value values.Value) {
		names = append(names, name)
	})

	is.Equal(names, []string{"GlobalId", "Name", "NominalLength", "Representation"})
}

const wallJSON string = `{
	"expressID": 5,
	"type": "IFCWALL",
	"GlobalId": {"type": 1, "value": "2O2Fr$t4X7Zf8NOew3FLOH"},
	"Name": {"type": 1, "value": "Basic Wall:Interior"},
	"NominalLength": 4.5,
	"Representation": {"type": 5, "value": 12}
}`
