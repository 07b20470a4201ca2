package httpcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarmAnnotation_WritesCacheBody(t *testing.T) {
	assert.Len(t, WarmAnnotation.Filtered(), 1)
}

func TestReadAnnotation_ReadsCacheBody(t *testing.T) {
	descs := ReadAnnotation.Filtered()
	assert.Len(t, descs, 1)
}

func TestWarm_UnreachableHostLeavesCacheEmpty(t *testing.T) {
	c := NewCache()
	c.Warm(context.Background(), "http://127.0.0.1:0/unreachable")
	assert.Empty(t, c.Read(""))
}
