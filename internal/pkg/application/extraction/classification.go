package extraction

import (
	"github.com/diwise/ifc-elements/internal/pkg/application/resolver"
	"github.com/diwise/ifc-elements/pkg/ifc/types"
)

type Classification struct {
	System      string `json:"system,omitempty"`
	Code        string `json:"code,omitempty"`
	Title       string `json:"title,omitempty"`
	Location    string `json:"location,omitempty"`
	Source      string `json:"source,omitempty"`
	Edition     string `json:"edition,omitempty"`
	Description string `json:"description,omitempty"`
}

func (c Classification) empty() bool {
	return c.System == "" && c.Code == "" && c.Title == ""
}

// Classifications collects every classification associated with an element, in relationship
// order. Entries without system, code and title are left out.
func Classifications(store types.Store, elementID types.ExpressID) []Classification {
	result := []Classification{}

	for _, entity := range resolver.FindRelated(store, elementID, types.ClassificationAssociation) {
		var c Classification

		switch entity.Type() {
		case types.IfcClassificationReference:
			c = fromReference(store, entity)
		case types.IfcClassification:
			c = fromClassification(entity)
		default:
			continue
		}

		if !c.empty() {
			result = append(result, c)
		}
	}

	return result
}

func fromClassification(e types.Entity) Classification {
	return Classification{
		System:      text(e, "Name"),
		Source:      text(e, "Source"),
		Edition:     text(e, "Edition"),
		Location:    text(e, "Location"),
		Description: text(e, "Description"),
	}
}

func fromReference(store types.Store, e types.Entity) Classification {
	c := Classification{
		Code:        text(e, "ItemReference", "Identification"),
		Title:       text(e, "Name"),
		Location:    text(e, "Location"),
		Description: text(e, "Description"),
	}

	source, ok := resolver.Follow(store, e, "ReferencedSource")
	if !ok {
		return c
	}

	switch source.Type() {
	case types.IfcClassification:
		c.System = text(source, "Name")
		c.Source = text(source, "Source")
		c.Edition = text(source, "Edition")
		if c.Location == "" {
			c.Location = text(source, "Location")
		}
		if c.Description == "" {
			c.Description = text(source, "Description")
		}
	case types.IfcClassificationReference:
		if name, ok := presentText(source, "Name"); ok {
			c.System = name
		}
	}

	return c
}

func text(e types.Entity, attributes ...string) string {
	s, _ := presentText(e, attributes...)
	return s
}
