package param

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
)

var (
	ErrDuplicateName = errors.New("duplicate parameter name")
	ErrDuplicateID   = errors.New("duplicate parameter id")
)

// Registry is the ordered set of a plugin's parameters, indexed by ID and
// by name. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	params []*Parameter
	byID   map[uint32]*Parameter
	byName map[string]*Parameter
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[uint32]*Parameter),
		byName: make(map[string]*Parameter),
	}
}

// Add registers params in order. It stops at the first parameter whose name
// or ID is taken; the ones before it stay registered.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if _, ok := r.byName[p.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}
		if other, ok := r.byID[p.ID]; ok {
			return fmt.Errorf("%w: %d used by %q and %q", ErrDuplicateID, p.ID, other.Name, p.Name)
		}
		r.params = append(r.params, p)
		r.byID[p.ID] = p
		r.byName[p.Name] = p
	}
	return nil
}

func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

func (r *Registry) ByName(name string) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// GetByIndex returns the index'th registered parameter, or nil.
func (r *Registry) GetByIndex(index int32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || int(index) >= len(r.params) {
		return nil
	}
	return r.params[index]
}

func (r *Registry) Count() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int32(len(r.params))
}

// All returns a copy of the parameters in registration order.
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Parameter(nil), r.params...)
}

// IDFromName derives a stable parameter ID from its name, so saved
// automation keeps pointing at the same control when the engine reorders its
// parameters. IDs fit in 31 bits as VST3 hosts reserve the sign bit.
func IDFromName(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32() & 0x7FFFFFFF
}
