package types

import (
	"strings"

	"github.com/diwise/ifc-elements/pkg/ifc/types/values"
)

// ExpressID is the line number of an entity within a loaded model
type ExpressID uint32

type EntityType string

// ParseEntityType accepts type names in any case, i.e. "IfcWall" and "IFCWALL" are the same type
func ParseEntityType(name string) EntityType {
	return EntityType(strings.ToUpper(strings.TrimSpace(name)))
}

func (t EntityType) String() string {
	return string(t)
}

const (
	IfcBeam              EntityType = "IFCBEAM"
	IfcColumn            EntityType = "IFCCOLUMN"
	IfcDoor              EntityType = "IFCDOOR"
	IfcFurnishingElement EntityType = "IFCFURNISHINGELEMENT"
	IfcPipeSegment       EntityType = "IFCPIPESEGMENT"
	IfcRailing           EntityType = "IFCRAILING"
	IfcRoof              EntityType = "IFCROOF"
	IfcSlab              EntityType = "IFCSLAB"
	IfcStair             EntityType = "IFCSTAIR"
	IfcWall              EntityType = "IFCWALL"
	IfcWindow            EntityType = "IFCWINDOW"

	IfcMaterial              EntityType = "IFCMATERIAL"
	IfcMaterialLayer         EntityType = "IFCMATERIALLAYER"
	IfcMaterialLayerSet      EntityType = "IFCMATERIALLAYERSET"
	IfcMaterialLayerSetUsage EntityType = "IFCMATERIALLAYERSETUSAGE"

	IfcClassification          EntityType = "IFCCLASSIFICATION"
	IfcClassificationReference EntityType = "IFCCLASSIFICATIONREFERENCE"

	IfcPropertySet          EntityType = "IFCPROPERTYSET"
	IfcPropertySingleValue  EntityType = "IFCPROPERTYSINGLEVALUE"
	IfcElementQuantity      EntityType = "IFCELEMENTQUANTITY"
	IfcQuantityArea         EntityType = "IFCQUANTITYAREA"
	IfcQuantityLength       EntityType = "IFCQUANTITYLENGTH"
	IfcQuantityVolume       EntityType = "IFCQUANTITYVOLUME"
	IfcQuantityCount        EntityType = "IFCQUANTITYCOUNT"
	IfcPresentationStyle    EntityType = "IFCPRESENTATIONSTYLEASSIGNMENT"
	IfcSurfaceStyle         EntityType = "IFCSURFACESTYLE"
	IfcSurfaceStyleShading  EntityType = "IFCSURFACESTYLESHADING"
	IfcColourRGB            EntityType = "IFCCOLOURRGB"
	IfcStyledItem           EntityType = "IFCSTYLEDITEM"
	IfcRelAssociatesMat     EntityType = "IFCRELASSOCIATESMATERIAL"
	IfcRelDefinesByProps    EntityType = "IFCRELDEFINESBYPROPERTIES"
	IfcRelAssociatesClassif EntityType = "IFCRELASSOCIATESCLASSIFICATION"
)

// RelationshipKind is one of the relationship entity types that link elements to other entities
type RelationshipKind struct {
	Type     EntityType
	Relating string
}

var (
	MaterialAssociation       = RelationshipKind{Type: IfcRelAssociatesMat, Relating: "RelatingMaterial"}
	PropertiesDefinition      = RelationshipKind{Type: IfcRelDefinesByProps, Relating: "RelatingPropertyDefinition"}
	ClassificationAssociation = RelationshipKind{Type: IfcRelAssociatesClassif, Relating: "RelatingClassification"}
)

// RelationshipKinds lists the kinds that link through RelatedObjects and can be indexed
var RelationshipKinds = []RelationshipKind{MaterialAssociation, PropertiesDefinition, ClassificationAssociation}

const RelatedObjects string = "RelatedObjects"

type Entity interface {
	ID() ExpressID
	Type() EntityType

	Attribute(name string) (values.Value, bool)
	SetAttribute(name string, value values.Value)
	ForEachAttribute(callback func(name string, value values.Value)) error

	MarshalJSON() ([]byte, error)
}

// Store is the entity store for a single loaded model
type Store interface {
	GetLine(id ExpressID) (Entity, bool)
	GetLineIDsWithType(t EntityType) []ExpressID
	WriteLine(e Entity) error
}

// RelationshipIndex is implemented by stores that can answer which relationships of a certain
// type reference an element without scanning all of them. Ids are returned in ascending order.
type RelationshipIndex interface {
	RelationshipIDs(t EntityType, elementID ExpressID) []ExpressID
}
