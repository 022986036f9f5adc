// Package resource shapes models into the JSON the admin UI expects.
//
//	out := resource.Collection(products, func(p models.Product) resource.Map {
//	    return resource.Map{"prod_id": p.ID, "prod_name": p.Name}
//	})
package resource

// Map is one transformed record.
type Map = map[string]any

// Transformer renders one model.
type Transformer[T any] func(T) Map

// One transforms a single model.
func One[T any](item T, fn Transformer[T]) Map {
	return fn(item)
}

// Collection transforms items in order. An empty input yields an empty,
// non-nil slice so it encodes as [].
func Collection[T any](items []T, fn Transformer[T]) []Map {
	out := make([]Map, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
