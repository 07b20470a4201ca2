package livewire

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vk/flowgrid/internal/ctxlog"
)

func testContext() context.Context {
	return ctxlog.WithLogger(context.Background(), slog.New(slog.DiscardHandler))
}

func TestConnectAnnotation_WritesClientHandle(t *testing.T) {
	assert.Len(t, ConnectAnnotation.Filtered(), 1)
}

func TestPublishAnnotation_ReadsClientHandle(t *testing.T) {
	assert.Len(t, PublishAnnotation.Filtered(), 1)
}

func TestPublish_NilClientIsNoop(t *testing.T) {
	c := NewConnection()
	assert.NotPanics(t, func() { c.Publish("ping") })
}

func TestConnect_UnreachableHostReturnsWithoutHanging(t *testing.T) {
	ctx, cancel := context.WithTimeout(testContext(), 2*time.Second)
	defer cancel()

	c := NewConnection()
	done := make(chan struct{})
	go func() {
		c.Connect(ctx, "ws://127.0.0.1:0")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Connect did not return within the context deadline")
	}
}
