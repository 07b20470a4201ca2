package annotation

import "github.com/vk/flowgrid/internal/resource"

// expand produces the flat concatenation of every child's contribution, in
// declaration order.
//
// A descriptor contributes itself. An annotation contributes its own
// already-filtered list, not its expanded list — this is the compositional
// choice the normalizer makes to bound the size of intermediate lists in
// deep composition trees: an annotation author who wants their children's
// conflicts to cancel at their level defines the children correctly, and
// the parent only has to resolve conflicts introduced at its own level.
func expand(children []Child) []Descriptor {
	var out []Descriptor
	for _, c := range children {
		out = append(out, c.filtered()...)
	}
	return out
}

// tripleKey identifies a descriptor for deduplication purposes: the full
// (resource, mode) pair, as opposed to resource.ID alone. resource.ID is
// itself a comparable struct (owning type + field name), so it serves as
// a map key directly — no hash collision can conflate two distinct
// resources here, unlike keying on resource.ID.Hash() would.
type tripleKey struct {
	id   resource.ID
	mode resource.Mode
}

func keyOf(d Descriptor) tripleKey {
	return tripleKey{id: d.Resource, mode: d.Mode}
}

// normalize applies the two-step filter described by the normalizer
// contract: deduplicate by full (resource, mode) equality, keeping the last
// occurrence and reversing the result order, then drop any (r, READ) for
// which (r, WRITE) survived the dedup step.
//
// The dedup step's order is deliberate and externally observable: for
// input [READ(s), READ(s), WRITE(s)] the deduplicated-but-unfiltered list is
// [WRITE(s), READ(s)] — later duplicates of a triple suppress earlier ones,
// the surviving element keeps the position of its last occurrence, and the
// whole list is then reversed.
func normalize(expanded []Descriptor) []Descriptor {
	unique := dedupe(expanded)

	writesOn := make(map[resource.ID]bool, len(unique))
	for _, d := range unique {
		if d.Mode == resource.Write {
			writesOn[d.Resource] = true
		}
	}

	out := make([]Descriptor, 0, len(unique))
	for _, d := range unique {
		if d.Mode == resource.Read && writesOn[d.Resource] {
			continue
		}
		out = append(out, d)
	}
	return out
}

// dedupe is normalize's first step on its own: it keeps only the last
// occurrence of each (resource, mode) pair and reverses the result, without
// applying read/write absorption.
func dedupe(expanded []Descriptor) []Descriptor {
	lastIndex := make(map[tripleKey]int, len(expanded))
	for i, d := range expanded {
		lastIndex[keyOf(d)] = i
	}

	unique := make([]Descriptor, 0, len(lastIndex))
	for i, d := range expanded {
		if lastIndex[keyOf(d)] == i {
			unique = append(unique, d)
		}
	}
	reverse(unique)
	return unique
}

func reverse(s []Descriptor) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
