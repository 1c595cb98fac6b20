// Package costs estimates the cost of the elements in a model from a catalogue of unit costs.
package costs

import (
	"github.com/diwise/ifc-elements/pkg/ifc/types"
)

type Method string

const (
	PerArea Method = "area"
	PerItem Method = "item"
)

var areaCostedTypes = map[types.EntityType]bool{
	types.IfcWall:   true,
	types.IfcWindow: true,
	types.IfcDoor:   true,
	types.IfcSlab:   true,
	types.IfcRoof:   true,
}

type Breakdown struct {
	Count                int      `json:"count"`
	UnitCost             float64  `json:"unitCost"`
	CostingMethod        Method   `json:"costingMethod"`
	Subtotal             float64  `json:"subtotal"`
	ItemsWithMissingDims int      `json:"itemsWithMissingDims,omitempty"`
	AvgHeight            *float64 `json:"avgHeight,omitempty"`
	AvgWidth             *float64 `json:"avgWidth,omitempty"`
	AvgArea              *float64 `json:"avgArea,omitempty"`
}

type Report struct {
	Breakdown map[string]Breakdown `json:"breakdown"`
	Total     float64              `json:"total"`
	Currency  string               `json:"currency,omitempty"`
}

// Calculate prices every element of the catalogued types. Walls, windows, doors, slabs and
// roofs are priced per square metre and cost nothing when their dimensions are missing, all
// other types are priced per item. Types without elements are left out of the breakdown.
func Calculate(store types.Store, cfg *Config) Report {
	report := Report{
		Breakdown: map[string]Breakdown{},
		Currency:  cfg.Currency,
	}

	for _, entry := range cfg.Elements {
		elementType := types.ParseEntityType(entry.Type)

		ids := store.GetLineIDsWithType(elementType)
		if len(ids) == 0 {
			continue
		}

		b := Breakdown{
			Count:         len(ids),
			UnitCost:      entry.UnitCost,
			CostingMethod: PerItem,
		}

		if !areaCostedTypes[elementType] {
			b.Subtotal = float64(len(ids)) * entry.UnitCost
			report.Breakdown[entry.Type] = b
			report.Total += b.Subtotal
			continue
		}

		b.CostingMethod = PerArea

		var heights, widths, areas average

		for _, id := range ids {
			element, ok := store.GetLine(id)
			if !ok {
				continue
			}

			d := measure(element)
			if d.area <= 0 {
				b.ItemsWithMissingDims++
				continue
			}

			b.Subtotal += d.area * entry.UnitCost
			areas.add(d.area)
			heights.add(d.height)
			widths.add(d.width)
		}

		b.AvgHeight = heights.value()
		b.AvgWidth = widths.value()
		b.AvgArea = areas.value()

		report.Breakdown[entry.Type] = b
		report.Total += b.Subtotal
	}

	return report
}

type dimensions struct {
	height, width, area float64
}

// measure returns the dimensions used for area costing. Widths are taken from the length of
// walls and slabs, and the heights of slabs from their width.
func measure(e types.Entity) dimensions {
	d := dimensions{}

	switch e.Type() {
	case types.IfcWall:
		d.height = dimension(e, "NominalHeight")
		d.width = dimension(e, "NominalLength")
	case types.IfcWindow, types.IfcDoor:
		d.height = dimension(e, "OverallHeight", "NominalHeight")
		d.width = dimension(e, "OverallWidth", "NominalWidth")
	case types.IfcSlab, types.IfcRoof:
		if area := dimension(e, "Area"); area > 0 {
			d.area = area
			return d
		}
		d.width = dimension(e, "NominalLength")
		d.height = dimension(e, "NominalWidth")
	}

	if d.height > 0 && d.width > 0 {
		d.area = d.height * d.width
	}

	return d
}

// dimension reads the first of the attributes that is set, returning zero unless it is a positive number
func dimension(e types.Entity, attributes ...string) float64 {
	for _, name := range attributes {
		v, ok := e.Attribute(name)
		if !ok || v.IsEmpty() {
			continue
		}

		if f, ok := v.Number(); ok && f > 0 {
			return f
		}
		return 0
	}
	return 0
}

type average struct {
	sum   float64
	count int
}

func (a *average) add(f float64) {
	if f > 0 {
		a.sum += f
		a.count++
	}
}

func (a *average) value() *float64 {
	if a.count == 0 {
		return nil
	}
	v := a.sum / float64(a.count)
	return &v
}
