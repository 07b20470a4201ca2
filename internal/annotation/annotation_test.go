package annotation

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgrid/internal/resource"
)

// bar mirrors original_source/example/CBar.h: a struct with a number, a
// string, and a second string it does not expose directly.
type bar struct {
	SomeNumber    int
	SomeString    string
	anotherString string
}

var (
	barType          = reflect.TypeOf(bar{})
	someNumberMember = resource.FieldOf(func(b *bar) *int { return &b.SomeNumber })
	someStringMember = resource.FieldOf(func(b *bar) *string { return &b.SomeString })
	anotherStrMember = resource.NamedField(barType, "anotherString")
)

func asSet(ds []Descriptor) map[Descriptor]bool {
	out := make(map[Descriptor]bool, len(ds))
	for _, d := range ds {
		out[d] = true
	}
	return out
}

// TestDedupThenAbsorb checks that [READ, READ, WRITE] on the same resource
// collapses to {WRITE} only.
func TestDedupThenAbsorb(t *testing.T) {
	a := New("dedup-then-absorb",
		Reads(someStringMember),
		Reads(someStringMember),
		Writes(someStringMember),
	)

	assert.Equal(t, []Descriptor{
		Writes(someStringMember),
		Reads(someStringMember),
	}, dedupe(a.Expanded()), "dedup step alone, before absorption, keeps the last occurrence and reverses order")

	got := a.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, Writes(someStringMember), got[0])
}

func TestFlatWriteOnlyAnnotation(t *testing.T) {
	barMethod := New("Bar.Method",
		Writes(someNumberMember),
		Writes(someStringMember),
	)

	want := asSet([]Descriptor{Writes(someNumberMember), Writes(someStringMember)})
	assert.Equal(t, want, asSet(barMethod.Filtered()))
}

// TestTransitiveInheritanceAndAbsorption checks a three-level annotation
// chain (MethodC inherits MethodB which inherits Bar.Method): the resulting
// filtered list absorbs every read in favor of writes.
func TestTransitiveInheritanceAndAbsorption(t *testing.T) {
	barMethod := New("Bar.Method",
		Writes(someNumberMember),
		Writes(someStringMember),
	)
	fooMethodB := New("Foo.MethodB",
		barMethod,
		Reads(someStringMember),
	)
	fooMethodC := New("Foo.MethodC",
		fooMethodB,
		Reads(someStringMember),
		Writes(anotherStrMember),
	)

	want := asSet([]Descriptor{
		Writes(someNumberMember),
		Writes(someStringMember),
		Writes(anotherStrMember),
	})
	assert.Equal(t, want, asSet(fooMethodC.Filtered()))
}

func TestConflictingChildOrderIsIrrelevant(t *testing.T) {
	writer := New("writer", Writes(someStringMember))
	reader := New("reader", Reads(someStringMember))

	writeFirst := New("write-first", writer, reader)
	readFirst := New("read-first", reader, writer)

	want := []Descriptor{Writes(someStringMember)}
	assert.Equal(t, want, writeFirst.Filtered())
	assert.Equal(t, want, readFirst.Filtered())
}

func TestEmpty_HasNoResources(t *testing.T) {
	a := Empty("nothing")
	assert.Empty(t, a.Expanded())
	assert.Empty(t, a.Filtered())
}

func TestFiltered_IsIdempotent(t *testing.T) {
	a := New("idempotent", Reads(someStringMember), Writes(someStringMember))
	first := a.Filtered()
	second := a.Filtered()
	assert.Equal(t, first, second)
}

func TestFiltered_NoDuplicateTriples(t *testing.T) {
	a := New("dup-check",
		Reads(someNumberMember),
		Writes(someStringMember),
		Reads(someNumberMember),
		Writes(anotherStrMember),
	)
	seen := map[Descriptor]bool{}
	for _, d := range a.Filtered() {
		require.False(t, seen[d], "duplicate descriptor %v in filtered list", d)
		seen[d] = true
	}
}

func TestFiltered_NeverBothModesForSameResource(t *testing.T) {
	a := New("rw-conflict", Reads(someStringMember), Writes(someStringMember))
	modes := map[resource.Mode]bool{}
	for _, d := range a.Filtered() {
		if d.Resource == resource.Of(someStringMember) {
			modes[d.Mode] = true
		}
	}
	assert.False(t, modes[resource.Read] && modes[resource.Write])
}

func TestFiltered_ChildReferencedTwiceCountsOnce(t *testing.T) {
	shared := New("shared", Writes(someNumberMember))
	parent := New("parent", shared, shared)
	assert.Len(t, parent.Filtered(), 1)
}

func TestFiltered_SetIsPermutationInvariant(t *testing.T) {
	one := New("one", Writes(someNumberMember), Reads(someStringMember), Writes(anotherStrMember))
	two := New("two", Writes(anotherStrMember), Writes(someNumberMember), Reads(someStringMember))
	assert.Equal(t, asSet(one.Filtered()), asSet(two.Filtered()))
}
