// Package di is a small service container with typed tokens and lazily
// constructed singletons.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry resolves services by name.
type ServiceRegistry interface {
	Get(name string) any
}

// Container is a ServiceRegistry that modules can register into.
type Container interface {
	ServiceRegistry
	Register(name string, service any)
	RegisterFactory(name string, factory func(ServiceRegistry) any)
}

type entry struct {
	once     sync.Once
	factory  func(ServiceRegistry) any
	instance any
}

type container struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewContainer returns an empty Container.
func NewContainer() Container {
	return &container{entries: make(map[string]*entry)}
}

// Register stores an already constructed service.
func (c *container) Register(name string, service any) {
	e := &entry{instance: service}
	e.once.Do(func() {})

	c.mu.Lock()
	c.entries[name] = e
	c.mu.Unlock()
}

// RegisterFactory stores a constructor that runs on first Get.
func (c *container) RegisterFactory(name string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	c.entries[name] = &entry{factory: factory}
	c.mu.Unlock()
}

// Get resolves a service and panics when the name is unknown, since a
// missing registration is a wiring bug.
func (c *container) Get(name string) any {
	c.mu.RLock()
	e, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("di: service %q is not registered", name))
	}

	e.once.Do(func() {
		e.instance = e.factory(c)
	})
	return e.instance
}

// Token names a service and carries its type.
type Token[T any] struct {
	name string
}

// NewToken creates a token. Names are "context.Service" for public services
// and "context:service" for module-private ones.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the registry key.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a lazily built singleton for the token.
func RegisterToken[T any](c Container, token Token[T], factory func(ServiceRegistry) T) {
	c.RegisterFactory(token.name, func(sr ServiceRegistry) any {
		return factory(sr)
	})
}

// GetToken resolves the token's service with its static type.
func GetToken[T any](sr ServiceRegistry, token Token[T]) T {
	v := sr.Get(token.name)
	svc, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has type %T", token.name, v))
	}
	return svc
}
