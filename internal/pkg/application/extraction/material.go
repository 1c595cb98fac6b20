package extraction

import (
	"github.com/diwise/ifc-elements/internal/pkg/application/resolver"
	"github.com/diwise/ifc-elements/pkg/ifc/types"
)

// Material returns the name of the first associated material that has one. A material that is
// a layer set (or a usage of one) is named after the material of its first layer.
func Material(store types.Store, elementID types.ExpressID) (string, bool) {
	for _, mat := range resolver.FindRelated(store, elementID, types.MaterialAssociation) {
		if name, ok := presentText(mat, "Name"); ok {
			return name, true
		}

		layerSet := mat
		if set, ok := resolver.Follow(store, mat, "ForLayerSet"); ok {
			layerSet = set
		}

		layer, ok := resolver.FollowFirst(store, layerSet, "MaterialLayers")
		if !ok {
			continue
		}

		material, ok := resolver.Follow(store, layer, "Material")
		if !ok {
			continue
		}

		if name, ok := presentText(material, "Name"); ok {
			return name, true
		}
	}

	return "", false
}

func ExtractMaterial(store types.Store, elementID types.ExpressID) string {
	if name, ok := Material(store, elementID); ok {
		return name
	}
	return UnknownMaterial
}
