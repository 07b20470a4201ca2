// Package foobar reproduces the CFoo/CBar example from the resource
// annotation library this project generalizes: Bar exposes a method whose
// writes Foo inherits transitively through two levels of composition,
// demonstrating the normalizer's read-absorbs-into-write behavior end to end.
package foobar

import (
	"reflect"

	"github.com/vk/flowgrid/internal/annotation"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/resource"
)

// Bar mirrors original_source/example/CBar.h.
type Bar struct {
	SomeNumber    int
	SomeString    string
	anotherString string
}

var (
	barSomeNumber    = resource.FieldOf(func(b *Bar) *int { return &b.SomeNumber })
	barSomeString    = resource.FieldOf(func(b *Bar) *string { return &b.SomeString })
	barAnotherString = resource.NamedField(reflect.TypeOf(Bar{}), "anotherString")
)

// Method writes SomeNumber and SomeString.
func (b *Bar) Method() {
	b.SomeNumber = 1
	b.SomeString = "Test"
}

// MethodAnnotation is Bar.Method's resource annotation.
var MethodAnnotation = annotation.New("Bar.Method",
	annotation.Writes(barSomeNumber),
	annotation.Writes(barSomeString),
)

// SetAnotherString writes the unexported anotherString field.
func (b *Bar) SetAnotherString(value string) {
	b.anotherString = value
}

// SetAnotherStringAnnotation is Bar.SetAnotherString's resource annotation.
var SetAnotherStringAnnotation = annotation.New("Bar.SetAnotherString",
	annotation.Writes(barAnotherString),
)

// Foo mirrors original_source/example/CFoo.h.
type Foo struct {
	number int
}

var fooNumber = resource.NamedField(reflect.TypeOf(Foo{}), "number")

// MethodA writes Foo.number and Bar.SomeNumber, and reads Bar.SomeString.
func (f *Foo) MethodA(bar *Bar) {
	f.number = 1
	bar.SomeNumber = 0
	_ = bar.SomeString
}

// MethodAAnnotation is Foo.MethodA's resource annotation.
var MethodAAnnotation = annotation.New("Foo.MethodA",
	annotation.Writes(fooNumber),
	annotation.Writes(barSomeNumber),
	annotation.Reads(barSomeString),
)

// MethodB calls Bar.Method and reads Bar.SomeString, inheriting Method's
// write access list transitively.
func (f *Foo) MethodB(bar *Bar) {
	bar.Method()
	_ = bar.SomeString
}

// MethodBAnnotation is Foo.MethodB's resource annotation: Bar.Method's
// annotation composed with a direct read of Bar.SomeString.
var MethodBAnnotation = annotation.New("Foo.MethodB",
	MethodAnnotation,
	annotation.Reads(barSomeString),
)

// MethodC calls MethodB, reads Bar.SomeString again, and writes
// Bar.anotherString. Its filtered access list ends up as three writes —
// SomeNumber, SomeString, and anotherString — once every inherited read
// is absorbed by a later write to the same resource.
func (f *Foo) MethodC(bar *Bar) {
	f.MethodB(bar)
	_ = bar.SomeString
	bar.anotherString = "Test"
}

// MethodCAnnotation is Foo.MethodC's resource annotation.
var MethodCAnnotation = annotation.New("Foo.MethodC",
	MethodBAnnotation,
	annotation.Reads(barSomeString),
	annotation.Writes(barAnotherString),
)

// Register binds Foo and Bar's method carriers into reg, so tasks built via
// carrier.Carry can recover their annotations by type.
//
// A method's resource annotation describes that method's body, not its
// receiver type in general — so this package registers each annotation
// under its own per-method tag type rather than under Foo or Bar (Foo alone
// has three), and each carrier tag stands for "the task that runs this
// particular method," matching how the demo driver uses Carry (one carrier
// value per task, not per struct).
func Register(reg *registry.Registry) {
	reg.Register(reflect.TypeOf(FooMethodCTag{}), MethodCAnnotation)
	reg.Register(reflect.TypeOf(FooMethodBTag{}), MethodBAnnotation)
	reg.Register(reflect.TypeOf(FooMethodATag{}), MethodAAnnotation)
	reg.Register(reflect.TypeOf(BarMethodTag{}), MethodAnnotation)
}

// The tag types below exist solely to give each demo task a distinct,
// registrable carrier type; they carry no data of their own. They are
// exported so callers building tasks with carrier.Carry tag them with
// exactly the type Register bound its annotation to.
type (
	FooMethodATag struct{}
	FooMethodBTag struct{}
	FooMethodCTag struct{}
	BarMethodTag  struct{}
)
