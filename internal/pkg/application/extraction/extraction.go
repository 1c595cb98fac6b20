// Package extraction resolves displayable attributes of building elements by walking the
// relationships of a loaded model. Extractors never modify the model and never fail; when
// nothing can be resolved they report absence, and the Extract* variants translate absence
// into the placeholder strings that existing consumers expect.
package extraction

import (
	"github.com/diwise/ifc-elements/pkg/ifc/types"
	"github.com/diwise/ifc-elements/pkg/ifc/types/values"
)

// Placeholders returned by the Extract* functions when nothing could be resolved. They differ
// per attribute since consumers of the element lists already depend on each of them.
const (
	UnknownMaterial      string = "Unknown"
	QuantityNotAvailable string = "N/A"
	ColorNotAvailable    string = "N/Ax"
	LengthNotFound       string = "xxx"
)

func presentValue(e types.Entity, attributes ...string) (values.Value, bool) {
	for _, name := range attributes {
		if v, ok := e.Attribute(name); ok && v.IsPresent() {
			return v, true
		}
	}
	return values.Value{}, false
}

func presentText(e types.Entity, attributes ...string) (string, bool) {
	for _, name := range attributes {
		v, ok := e.Attribute(name)
		if !ok {
			continue
		}
		if s, ok := v.Text(); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func number(e types.Entity, attribute string) float64 {
	v, ok := e.Attribute(attribute)
	if !ok {
		return 0
	}
	f, _ := v.Number()
	return f
}
