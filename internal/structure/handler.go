package structure

import (
	"sync"

	"github.com/kpackage-labs/kpackage/internal/metadata"
)

// Handler is the instantiated implementation responsible for interpreting
// packages of one format.
type Handler interface {
	// Metadata returns the plugin metadata the handler was constructed with.
	Metadata() metadata.Record

	// DefaultPackageRoot returns the directory, relative to each data
	// location, under which packages of this format are installed.
	DefaultPackageRoot() string
}

// Handle is a non-owning reference to a Handler. The registry tracks handlers
// through Handles but does not keep them alive: external code may Release a
// handler at any time, after which the Handle reads as absent. Liveness must
// be checked on every read, not only at insertion.
type Handle struct {
	mu sync.Mutex
	h  Handler
}

// NewHandle wraps a handler in a releasable reference.
func NewHandle(h Handler) *Handle {
	return &Handle{h: h}
}

// Get returns the referenced handler, or false if it has been released.
func (h *Handle) Get() (Handler, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.h, h.h != nil
}

// Release drops the reference. Subsequent Get calls report the handler as
// absent. Releasing twice is harmless.
func (h *Handle) Release() {
	h.mu.Lock()
	h.h = nil
	h.mu.Unlock()
}
