package extraction

import (
	"fmt"
	"math"

	"github.com/diwise/ifc-elements/internal/pkg/application/resolver"
	"github.com/diwise/ifc-elements/pkg/ifc/types"
)

type RGB struct {
	R, G, B int
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Color follows the styled items of an element down to the surface colour of the first surface
// shading style: styled item -> first style assignment -> first style -> shading -> colour.
func Color(store types.Store, elementID types.ExpressID) (RGB, bool) {
	for _, id := range store.GetLineIDsWithType(types.IfcStyledItem) {
		styledItem, ok := store.GetLine(id)
		if !ok {
			continue
		}

		item, ok := styledItem.Attribute("Item")
		if ref, isRef := item.Ref(); !ok || !isRef || types.ExpressID(ref) != elementID {
			continue
		}

		style, ok := firstSurfaceStyle(store, styledItem)
		if !ok {
			continue
		}

		if c, ok := shadingColor(store, style); ok {
			return c, true
		}
	}

	return RGB{}, false
}

func ExtractColor(store types.Store, elementID types.ExpressID) string {
	if c, ok := Color(store, elementID); ok {
		return c.String()
	}
	return ColorNotAvailable
}

func firstSurfaceStyle(store types.Store, styledItem types.Entity) (types.Entity, bool) {
	first, ok := resolver.FollowFirst(store, styledItem, "Styles")
	if !ok {
		return nil, false
	}

	// IFC4 files may skip the presentation style assignment
	if first.Type() == types.IfcSurfaceStyle {
		return first, true
	}

	styleSelect, ok := resolver.FollowFirst(store, first, "Styles")
	if !ok || styleSelect.Type() != types.IfcSurfaceStyle {
		return nil, false
	}

	return styleSelect, true
}

func shadingColor(store types.Store, surfaceStyle types.Entity) (RGB, bool) {
	styles, ok := surfaceStyle.Attribute("Styles")
	if !ok {
		return RGB{}, false
	}

	for _, element := range resolver.ResolveAll(store, styles) {
		if element.Type() != types.IfcSurfaceStyleShading {
			continue
		}

		colour, ok := resolver.Follow(store, element, "SurfaceColour")
		if !ok {
			continue
		}

		return RGB{
			R: toByte(number(colour, "Red")),
			G: toByte(number(colour, "Green")),
			B: toByte(number(colour, "Blue")),
		}, true
	}

	return RGB{}, false
}

func toByte(fraction float64) int {
	return int(math.Round(fraction * 255))
}
