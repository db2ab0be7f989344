package order

import (
	"github.com/matzehuels/varbridge/pkg/document"
)

// Collections orders the collections of doc for materialization: the
// [AliasesLast] partition, with the alias bucket further ordered so that a
// collection aliasing another alias-bearing collection comes after it.
// Collections that reference each other keep their relative document order.
func Collections(doc *document.Document) []document.Collection {
	parted := AliasesLast(doc.Collections, document.Collection.HasAlias)

	split := 0
	for split < len(parted) && !parted[split].HasAlias() {
		split++
	}
	return append(parted[:split:split], sortByDependency(parted[split:])...)
}

// sortByDependency runs a stable Kahn pass over collection-level alias
// edges. Whatever remains in a loop is appended in input order.
func sortByDependency(cols []document.Collection) []document.Collection {
	if len(cols) < 2 {
		return cols
	}
	pos := make(map[string]int, len(cols))
	for i, c := range cols {
		pos[c.Name] = i
	}

	deps := make([]map[int]bool, len(cols))
	for i, c := range cols {
		deps[i] = make(map[int]bool)
		for _, v := range c.Variables {
			for _, a := range v.Aliases() {
				if j, ok := pos[a.Collection]; ok && j != i {
					deps[i][j] = true
				}
			}
		}
	}

	done := make([]bool, len(cols))
	out := make([]document.Collection, 0, len(cols))
	for len(out) < len(cols) {
		progressed := false
		for i := range cols {
			if done[i] || !satisfied(deps[i], done) {
				continue
			}
			done[i] = true
			out = append(out, cols[i])
			progressed = true
			break
		}
		if !progressed {
			for i := range cols {
				if !done[i] {
					done[i] = true
					out = append(out, cols[i])
				}
			}
		}
	}
	return out
}

func satisfied(deps map[int]bool, done []bool) bool {
	for j := range deps {
		if !done[j] {
			return false
		}
	}
	return true
}
