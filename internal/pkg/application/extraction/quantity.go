package extraction

import (
	"github.com/diwise/ifc-elements/internal/pkg/application/resolver"
	"github.com/diwise/ifc-elements/pkg/ifc/types"
	"github.com/diwise/ifc-elements/pkg/ifc/types/values"
)

var quantityValueAttributes = []string{"Value", "AreaValue", "LengthValue"}

// Quantity looks through the quantity sets defined for an element for the first quantity of
// the requested type, e.g. IFCQUANTITYAREA. The search stops at the first quantity of that
// type even if it carries no usable value.
func Quantity(store types.Store, elementID types.ExpressID, quantityType types.EntityType) (values.Value, bool) {
	quantityType = types.ParseEntityType(string(quantityType))

	for _, definition := range resolver.FindRelated(store, elementID, types.PropertiesDefinition) {
		quantities, ok := definition.Attribute("Quantities")
		if !ok {
			continue
		}

		for _, q := range resolver.ResolveAll(store, quantities) {
			if q.Type() != quantityType {
				continue
			}

			return presentValue(q, quantityValueAttributes...)
		}
	}

	return values.Value{}, false
}

func ExtractQuantity(store types.Store, elementID types.ExpressID, quantityType types.EntityType) any {
	if v, ok := Quantity(store, elementID, quantityType); ok {
		return v.Interface()
	}
	return QuantityNotAvailable
}
