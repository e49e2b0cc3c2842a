package tdf

import (
	"fmt"
	"sync"
)

// Kind identifies an attribute type. Kinds are registered once per process, typically from
// package init functions, and a label holds at most one attribute per kind.
type Kind uint16

// NoKind is the zero Kind, never returned by RegisterKind.
const NoKind Kind = 0

type kindInfo struct {
	name    string
	factory func() Attribute
}

var registry = struct {
	sync.RWMutex
	kinds  []kindInfo
	byName map[string]Kind
}{
	kinds:  []kindInfo{{name: "<none>"}},
	byName: map[string]Kind{},
}

// RegisterKind registers an attribute kind under a unique name. factory must return a
// fresh, empty attribute of that kind; it is used when decoding persisted documents.
// Registering the same name twice panics.
func RegisterKind(name string, factory func() Attribute) Kind {
	registry.Lock()
	defer registry.Unlock()
	if _, ok := registry.byName[name]; ok {
		panic(fmt.Sprintf("tdf: attribute kind %q registered twice", name))
	}
	k := Kind(len(registry.kinds))
	registry.kinds = append(registry.kinds, kindInfo{name: name, factory: factory})
	registry.byName[name] = k
	return k
}

// LookupKind returns the kind registered under name.
func LookupKind(name string) (Kind, bool) {
	registry.RLock()
	defer registry.RUnlock()
	k, ok := registry.byName[name]
	return k, ok
}

// Kinds returns all registered kinds in registration order.
func Kinds() []Kind {
	registry.RLock()
	defer registry.RUnlock()
	r := make([]Kind, 0, len(registry.kinds)-1)
	for i := 1; i < len(registry.kinds); i++ {
		r = append(r, Kind(i))
	}
	return r
}

func (k Kind) info() (kindInfo, bool) {
	registry.RLock()
	defer registry.RUnlock()
	if k == NoKind || int(k) >= len(registry.kinds) {
		return kindInfo{}, false
	}
	return registry.kinds[k], true
}

// IsRegistered reports whether k was returned by RegisterKind.
func (k Kind) IsRegistered() bool {
	_, ok := k.info()
	return ok
}

func (k Kind) String() string {
	if ki, ok := k.info(); ok {
		return ki.name
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// New returns a fresh attribute of kind k, or nil if k is unknown or has no factory.
func (k Kind) New() Attribute {
	ki, ok := k.info()
	if !ok || ki.factory == nil {
		return nil
	}
	return ki.factory()
}
