// Package service hosts state transitions: a registry of named message
// handlers and a serial executor that runs them against a fork of storage.
package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Klingon-tech/klingnet-tokens/internal/storage"
	"github.com/Klingon-tech/klingnet-tokens/pkg/types"
	"github.com/rs/zerolog"
)

// Context is passed to a handler for one transaction.
type Context struct {
	// Author is the verified signer of the transaction.
	Author types.PublicKey
	TxHash types.Hash
	// Fork is the mutable view. Writes are committed only if the handler
	// returns nil.
	Fork   storage.ReadWriter
	// Logger is tagged with the transaction hash.
	Logger zerolog.Logger
}

// Handler executes one message payload.
type Handler func(ctx *Context, payload []byte) error

// MessageInfo describes a registered message.
type MessageInfo struct {
	ID   uint16 `json:"id"`
	Name string `json:"name"`
}

// ServiceInfo describes a registered service and its messages.
type ServiceInfo struct {
	ID       uint16        `json:"id"`
	Name     string        `json:"name"`
	Messages []MessageInfo `json:"messages"`
}

type messageKey struct {
	service uint16
	message uint16
}

type entry struct {
	name    string
	handler Handler
}

// Registry maps (service, message) pairs to handlers.
type Registry struct {
	mu       sync.RWMutex
	services map[uint16]string
	handlers map[messageKey]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		services: make(map[uint16]string),
		handlers: make(map[messageKey]entry),
	}
}

// Register adds a handler. A service id is bound to one name, and each
// (service, message) pair may be registered once.
func (r *Registry) Register(serviceID uint16, serviceName string, messageID uint16, messageName string, h Handler) error {
	if h == nil {
		return fmt.Errorf("register %s.%s: nil handler", serviceName, messageName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.services[serviceID]; ok && existing != serviceName {
		return fmt.Errorf("%w: service %d is %q", ErrDuplicate, serviceID, existing)
	}
	for id, name := range r.services {
		if name == serviceName && id != serviceID {
			return fmt.Errorf("%w: service name %q has id %d", ErrDuplicate, serviceName, id)
		}
	}
	key := messageKey{serviceID, messageID}
	if _, ok := r.handlers[key]; ok {
		return fmt.Errorf("%w: %s message %d", ErrDuplicate, serviceName, messageID)
	}

	r.services[serviceID] = serviceName
	r.handlers[key] = entry{name: messageName, handler: h}
	return nil
}

// Lookup returns the handler for a message.
func (r *Registry) Lookup(serviceID, messageID uint16) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.handlers[messageKey{serviceID, messageID}]
	return e.handler, ok
}

// ServiceName returns the name registered for a service id.
func (r *Registry) ServiceName(serviceID uint16) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.services[serviceID]
	return name, ok
}

// Services lists registered services ordered by id.
func (r *Registry) Services() []ServiceInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byID := make(map[uint16]*ServiceInfo, len(r.services))
	for id, name := range r.services {
		byID[id] = &ServiceInfo{ID: id, Name: name, Messages: []MessageInfo{}}
	}
	for key, e := range r.handlers {
		s := byID[key.service]
		s.Messages = append(s.Messages, MessageInfo{ID: key.message, Name: e.name})
	}

	out := make([]ServiceInfo, 0, len(byID))
	for _, s := range byID {
		sort.Slice(s.Messages, func(i, j int) bool { return s.Messages[i].ID < s.Messages[j].ID })
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
