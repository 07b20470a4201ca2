package carrier

import (
	"context"
	"log/slog"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgrid/internal/annotation"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/registry"
)

type widget struct{ N int }

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.DiscardHandler))
}

func TestCarry_TagsStaticType(t *testing.T) {
	c := Carry(widget{N: 1})
	assert.Equal(t, reflect.TypeOf(widget{}), c.Tag())
	assert.Equal(t, widget{N: 1}, c.Value())
}

func TestVisit_FoundInvokesCallback(t *testing.T) {
	reg := registry.New()
	a := annotation.Empty("widget")
	reg.Register(reflect.TypeOf(widget{}), a)

	var got *annotation.Annotation
	found := Visit(testContext(), reg, Carry(widget{}), func(a *annotation.Annotation) { got = a })

	require.True(t, found)
	assert.Same(t, a, got)
}

func TestVisit_MissReturnsFalseWithoutPanicking(t *testing.T) {
	reg := registry.New()
	called := false

	assert.NotPanics(t, func() {
		found := Visit(testContext(), reg, Carry(widget{}), func(*annotation.Annotation) { called = true })
		assert.False(t, found)
	})
	assert.False(t, called)
}
