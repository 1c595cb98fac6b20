package entities

import (
	"github.com/diwise/ifc-elements/pkg/ifc/types"
	"github.com/diwise/ifc-elements/pkg/ifc/types/values"
)

func Text(name, value string) EntityDecoratorFunc {
	return A(name, values.NewString(value))
}

func Number(name string, value float64) EntityDecoratorFunc {
	return A(name, values.NewReal(value))
}

func Ref(name string, id types.ExpressID) EntityDecoratorFunc {
	return A(name, values.NewReference(uint32(id)))
}

func Refs(name string, ids ...types.ExpressID) EntityDecoratorFunc {
	refs := make([]uint32, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, uint32(id))
	}
	return A(name, values.NewReferenceList(refs...))
}

func Name(value string) EntityDecoratorFunc {
	return Text("Name", value)
}

func GlobalID(value string) EntityDecoratorFunc {
	return Text("GlobalId", value)
}

func RelatedObjects(ids ...types.ExpressID) EntityDecoratorFunc {
	return Refs(types.RelatedObjects, ids...)
}
