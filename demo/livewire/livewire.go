// Package livewire demonstrates a read-after-write edge across a live
// network resource: a connect task establishes a socket.io connection and
// writes the connection handle; a publish task reads it back to emit a
// message. No lock on the connection itself is needed — the scheduler's
// ordering guarantee is what makes the read-after-write safe.
package livewire

import (
	"context"
	"fmt"
	"reflect"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/flowgrid/internal/annotation"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/resource"
)

// Connection holds the single shared socket.io client this demo operates on.
type Connection struct {
	client *socket.Socket
}

var clientMember = resource.FieldOf(func(c *Connection) **socket.Socket { return &c.client })

// ConnectAnnotation is the connect task's resource annotation.
var ConnectAnnotation = annotation.New("livewire.connect", annotation.Writes(clientMember))

// PublishAnnotation is the publish task's resource annotation.
var PublishAnnotation = annotation.New("livewire.publish", annotation.Reads(clientMember))

// NewConnection returns an empty connection, not yet connected.
func NewConnection() *Connection {
	return &Connection{}
}

// Connect opens a socket.io connection to url and stores the client handle.
// Connection failures are logged and leave the handle nil: a demo task's
// job is to exercise the scheduler's ordering, not to model reconnection.
func (c *Connection) Connect(ctx context.Context, url string) {
	logger := ctxlog.FromContext(ctx).With("component", "livewire", "url", url)

	opts := socket.DefaultOptions()
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(url, opts)
	io := manager.Socket("/", opts)

	connected := make(chan bool, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("livewire: connected", "sid", io.Id())
		connected <- true
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		logger.Warn("livewire: connect failed", "error", fmt.Sprint(errs...))
		connected <- false
	})

	io.Connect()
	select {
	case ok := <-connected:
		if ok {
			c.client = io
		}
	case <-ctx.Done():
		logger.Warn("livewire: context cancelled before connect completed")
	}
}

// Publish emits message on the stored connection, if any.
func (c *Connection) Publish(message string) {
	if c.client == nil {
		return
	}
	c.client.Emit("message", message)
}

// Register binds the connect and publish carrier tags to their annotations.
func Register(reg *registry.Registry) {
	reg.Register(reflect.TypeOf(ConnectTag{}), ConnectAnnotation)
	reg.Register(reflect.TypeOf(PublishTag{}), PublishAnnotation)
}

// ConnectTag and PublishTag are the carrier tags for this package's two
// tasks.
type (
	ConnectTag struct{}
	PublishTag struct{}
)
