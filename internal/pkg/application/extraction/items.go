package extraction

import (
	"github.com/diwise/ifc-elements/pkg/ifc/types"
)

// DefaultElementTypes are the element types listed when nothing else is configured
var DefaultElementTypes = []string{
	"IfcWall", "IfcDoor", "IfcWindow", "IfcSlab", "IfcColumn",
	"IfcBeam", "IfcRoof", "IfcStair", "IfcRailing", "IfcFurnishingElement",
}

type Item struct {
	ElementID       types.ExpressID  `json:"elementID"`
	Type            string           `json:"type"`
	GlobalID        string           `json:"globalId"`
	Name            string           `json:"name"`
	Material        string           `json:"material"`
	Length          any              `json:"length"`
	Width           any              `json:"width"`
	Height          any              `json:"height"`
	Color           string           `json:"color"`
	Classifications []Classification `json:"classifications"`
}

// ExtractItems lists every element of the given types, labelled with the type name as given
func ExtractItems(store types.Store, elementTypes []string) []Item {
	items := []Item{}

	for _, label := range elementTypes {
		elementType := types.ParseEntityType(label)

		for _, id := range store.GetLineIDsWithType(elementType) {
			element, ok := store.GetLine(id)
			if !ok {
				continue
			}

			items = append(items, Item{
				ElementID:       id,
				Type:            label,
				GlobalID:        textOr(element, QuantityNotAvailable, "GlobalId"),
				Name:            textOr(element, "Unnamed "+label, "Name"),
				Material:        ExtractMaterial(store, id),
				Length:          ExtractLength(store, id, elementType),
				Width:           valueOr(element, QuantityNotAvailable, "NominalWidth", "OverallWidth"),
				Height:          valueOr(element, QuantityNotAvailable, "NominalHeight", "OverallHeight"),
				Color:           ExtractColor(store, id),
				Classifications: Classifications(store, id),
			})
		}
	}

	return items
}

func textOr(e types.Entity, fallback string, attributes ...string) string {
	if s, ok := presentText(e, attributes...); ok {
		return s
	}
	return fallback
}

func valueOr(e types.Entity, fallback any, attributes ...string) any {
	if v, ok := presentValue(e, attributes...); ok {
		return v.Interface()
	}
	return fallback
}
