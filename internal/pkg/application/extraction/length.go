package extraction

import (
	"strings"

	"github.com/diwise/ifc-elements/internal/pkg/application/resolver"
	"github.com/diwise/ifc-elements/pkg/ifc/types"
	"github.com/diwise/ifc-elements/pkg/ifc/types/values"
)

var lengthAttributesByType = map[types.EntityType][]string{
	types.IfcWall:        {"NominalLength"},
	types.IfcBeam:        {"Length", "NominalLength"},
	types.IfcColumn:      {"Length", "NominalLength"},
	types.IfcPipeSegment: {"Length", "NominalLength"},
	types.IfcDoor:        {"OverallWidth", "NominalWidth"},
	types.IfcWindow:      {"OverallWidth", "NominalWidth"},
	types.IfcSlab:        {"NominalLength"},
	types.IfcRoof:        {"NominalLength"},
}

var defaultLengthAttributes = []string{"NominalLength", "Length", "OverallLength"}

var propertyValueAttributes = []string{"NominalValue", "ValueComponent"}

// LengthAttributes returns the direct attributes that hold a length for the given element type, in order of preference
func LengthAttributes(elementType types.EntityType) []string {
	if attributes, ok := lengthAttributesByType[types.ParseEntityType(string(elementType))]; ok {
		return attributes
	}
	return defaultLengthAttributes
}

// Length tries the direct length attributes of the element type first and then falls back to
// any property, in the property sets defined for the element, with "length" in its name.
// If elementType is empty the type of the element itself is used.
func Length(store types.Store, elementID types.ExpressID, elementType types.EntityType) (values.Value, bool) {
	element, ok := store.GetLine(elementID)
	if !ok {
		return values.Value{}, false
	}

	if elementType == "" {
		elementType = element.Type()
	}

	if v, ok := presentValue(element, LengthAttributes(elementType)...); ok {
		return v, true
	}

	for _, definition := range resolver.FindRelated(store, elementID, types.PropertiesDefinition) {
		properties, ok := definition.Attribute("HasProperties")
		if !ok {
			continue
		}

		for _, property := range resolver.ResolveAll(store, properties) {
			name, ok := presentText(property, "Name")
			if !ok || !strings.Contains(strings.ToLower(name), "length") {
				continue
			}

			if v, ok := presentValue(property, propertyValueAttributes...); ok {
				return v, true
			}
		}
	}

	return values.Value{}, false
}

func ExtractLength(store types.Store, elementID types.ExpressID, elementType types.EntityType) any {
	if v, ok := Length(store, elementID, elementType); ok {
		return v.Interface()
	}
	return LengthNotFound
}
