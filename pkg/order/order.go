// Package order decides the order in which collections and variables are
// materialized, so alias targets exist before the aliases that name them.
//
// Two orderings are provided. [AliasesLast] is the coarse stable partition
// shared by import and export: collections without aliases first, then the
// rest, each bucket in its original order. [Graph] is the precise one: an
// alias dependency graph over (collection, variable) pairs with cycle
// detection and a stable topological order, which handles alias chains of
// any depth.
package order

// AliasesLast returns items partitioned into those for which hasAlias is
// false followed by those for which it is true. Relative order within each
// bucket is preserved. The input is not modified.
func AliasesLast[T any](items []T, hasAlias func(T) bool) []T {
	out := make([]T, 0, len(items))
	var aliased []T
	for _, it := range items {
		if hasAlias(it) {
			aliased = append(aliased, it)
		} else {
			out = append(out, it)
		}
	}
	return append(out, aliased...)
}
