package resolver

import (
	"slices"

	"github.com/diwise/ifc-elements/pkg/ifc/types"
	"github.com/diwise/ifc-elements/pkg/ifc/types/values"
)

// Relationships returns the relationships of the given kind that list elementID among their
// related objects, in ascending id order. Stores that implement types.RelationshipIndex are
// queried through the index, all others are scanned.
func Relationships(store types.Store, elementID types.ExpressID, kind types.RelationshipKind) []types.Entity {
	if _, ok := store.GetLine(elementID); !ok {
		return nil
	}

	if index, ok := store.(types.RelationshipIndex); ok {
		ids := index.RelationshipIDs(kind.Type, elementID)
		rels := make([]types.Entity, 0, len(ids))

		for _, id := range ids {
			if rel, ok := store.GetLine(id); ok {
				rels = append(rels, rel)
			}
		}
		return rels
	}

	rels := []types.Entity{}

	for _, id := range store.GetLineIDsWithType(kind.Type) {
		rel, ok := store.GetLine(id)
		if !ok {
			continue
		}

		if relates(rel, elementID) {
			rels = append(rels, rel)
		}
	}

	return rels
}

// FindRelated returns the entities that the matching relationships point to through their
// relating attribute. Relationships without a resolvable relating entity are skipped.
func FindRelated(store types.Store, elementID types.ExpressID, kind types.RelationshipKind) []types.Entity {
	related := []types.Entity{}

	for _, rel := range Relationships(store, elementID, kind) {
		if e, ok := Follow(store, rel, kind.Relating); ok {
			related = append(related, e)
		}
	}

	return related
}

// Follow resolves the reference held by the named attribute of e
func Follow(store types.Store, e types.Entity, attribute string) (types.Entity, bool) {
	v, ok := e.Attribute(attribute)
	if !ok {
		return nil, false
	}
	return Resolve(store, v)
}

// FollowFirst resolves the first reference of a list attribute of e
func FollowFirst(store types.Store, e types.Entity, attribute string) (types.Entity, bool) {
	v, ok := e.Attribute(attribute)
	if !ok {
		return nil, false
	}

	items := v.Items()
	if len(items) == 0 {
		return nil, false
	}

	return Resolve(store, items[0])
}

// Resolve looks up the line a reference value points to
func Resolve(store types.Store, v values.Value) (types.Entity, bool) {
	id, ok := v.Ref()
	if !ok {
		return nil, false
	}
	return store.GetLine(types.ExpressID(id))
}

// ResolveAll looks up every line referenced by a list value, skipping references that do not resolve
func ResolveAll(store types.Store, v values.Value) []types.Entity {
	refs := v.Refs()
	result := make([]types.Entity, 0, len(refs))

	for _, id := range refs {
		if e, ok := store.GetLine(types.ExpressID(id)); ok {
			result = append(result, e)
		}
	}

	return result
}

func relates(rel types.Entity, elementID types.ExpressID) bool {
	v, ok := rel.Attribute(types.RelatedObjects)
	if !ok {
		return false
	}
	return slices.Contains(v.Refs(), uint32(elementID))
}
