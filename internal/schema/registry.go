package schema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// MessageName is the full name of the ticker frame message.
const MessageName protoreflect.FullName = "yaticker"

//go:embed yaticker.textproto
var defaultSource []byte

// Errors
var (
	ErrSchemaLoad = errors.New("schema load failed")
	ErrNotLoaded  = errors.New("schema not loaded")
)

// Registry holds the frame message definition. It is loaded once; after a
// successful load the definition never changes. Readers either poll
// IsReady or wait on Ready.
type Registry struct {
	mu    sync.Mutex // serializes loads
	msg   atomic.Pointer[loaded]
	ready chan struct{}
}

type loaded struct {
	desc protoreflect.MessageDescriptor
}

// NewRegistry returns an empty, not-ready registry.
func NewRegistry() *Registry {
	return &Registry{ready: make(chan struct{})}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Load reads a text-format FileDescriptorProto from path.
func (r *Registry) Load(path string) error {
	if r.IsReady() {
		return nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrSchemaLoad, path, err)
	}
	return r.LoadBytes(src)
}

// LoadDefault loads the definition compiled into the binary.
func (r *Registry) LoadDefault() error {
	return r.LoadBytes(defaultSource)
}

// LoadBytes parses src as a text-format FileDescriptorProto and publishes
// its ticker message. A failed load leaves the registry not ready and may
// be retried; once loaded, further calls are no-ops.
func (r *Registry) LoadBytes(src []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.msg.Load() != nil {
		return nil
	}

	desc, err := parse(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaLoad, err)
	}

	// Publish before signalling readiness.
	r.msg.Store(&loaded{desc: desc})
	close(r.ready)
	return nil
}

// IsReady reports whether a definition has been loaded.
func (r *Registry) IsReady() bool {
	return r.msg.Load() != nil
}

// Ready returns a channel closed once the definition is loaded.
func (r *Registry) Ready() <-chan struct{} {
	return r.ready
}

// WaitReady blocks until the definition is loaded or ctx is done.
func (r *Registry) WaitReady(ctx context.Context) error {
	select {
	case <-r.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Message returns the ticker message descriptor.
func (r *Registry) Message() (protoreflect.MessageDescriptor, error) {
	l := r.msg.Load()
	if l == nil {
		return nil, ErrNotLoaded
	}
	return l.desc, nil
}

func parse(src []byte) (protoreflect.MessageDescriptor, error) {
	var fdp descriptorpb.FileDescriptorProto
	if err := prototext.Unmarshal(src, &fdp); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}

	fd, err := protodesc.NewFile(&fdp, new(protoregistry.Files))
	if err != nil {
		return nil, fmt.Errorf("build descriptor: %w", err)
	}

	desc := fd.Messages().ByName(MessageName.Name())
	if desc == nil {
		return nil, fmt.Errorf("message %q not found in %s", MessageName, fd.Path())
	}
	return desc, nil
}
