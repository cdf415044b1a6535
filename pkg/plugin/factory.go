package plugin

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/pkg/framework/debug"
	"github.com/justyntemme/faustvst3/pkg/vst3"
)

// ErrNoPlugin is returned when the factory is used before Register.
var ErrNoPlugin = errors.New("no plugin registered")

// FactoryInfo describes the vendor in the plugin factory.
type FactoryInfo struct {
	Vendor string
	URL    string
	Email  string
}

var (
	globalMu          sync.RWMutex
	globalPlugin      Plugin
	globalFactoryInfo = FactoryInfo{
		Vendor: "faustvst3",
		URL:    "https://github.com/justyntemme/faustvst3",
	}
	globalLogger *zap.Logger
)

// Register sets the plugin exposed by the factory. It is called from the
// init function of a c-shared plugin package.
func Register(p Plugin) {
	globalMu.Lock()
	globalPlugin = p
	globalMu.Unlock()
}

// Registered returns the registered plugin, or nil.
func Registered() Plugin {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalPlugin
}

// SetFactoryInfo sets the factory information
func SetFactoryInfo(info FactoryInfo) {
	globalMu.Lock()
	globalFactoryInfo = info
	globalMu.Unlock()
}

// GetFactoryInfo returns the factory information.
func GetFactoryInfo() FactoryInfo {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalFactoryInfo
}

// SetLogger sets the logger for components created afterwards. Nil selects
// debug.Default.
func SetLogger(l *zap.Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// Logger returns the factory logger.
func Logger() *zap.Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l == nil {
		return debug.Default()
	}
	return l
}

// ClassInfo is what the factory reports about its single class.
type ClassInfo struct {
	CID         [16]byte
	Cardinality int32
	Category    string
	SubCategory string
	Name        string
	Vendor      string
	Version     string
}

// CountClasses returns 1 once a plugin is registered.
func CountClasses() int32 {
	if Registered() == nil {
		return 0
	}
	return 1
}

// GetClassInfo describes class index.
func GetClassInfo(index int32) (ClassInfo, error) {
	p := Registered()
	if p == nil {
		return ClassInfo{}, ErrNoPlugin
	}
	if index != 0 {
		return ClassInfo{}, fmt.Errorf("class %d: %w", index, vst3.ErrInvalidArgument)
	}

	info := p.GetInfo()
	return ClassInfo{
		CID:         info.UID(),
		Cardinality: vst3.ManyInstances,
		Category:    vst3.CategoryAudioEffect,
		SubCategory: info.SubCategory(),
		Name:        info.Name,
		Vendor:      info.Vendor,
		Version:     info.Version,
	}, nil
}

// CreateComponent creates a component for the class cid.
func CreateComponent(cid [16]byte) (*Component, error) {
	p := Registered()
	if p == nil {
		return nil, ErrNoPlugin
	}

	info := p.GetInfo()
	if err := info.Validate(); err != nil {
		return nil, err
	}
	if cid != info.UID() {
		return nil, fmt.Errorf("unknown class id %x: %w", cid, vst3.ErrInvalidArgument)
	}

	proc, err := p.CreateProcessor()
	if err != nil {
		Logger().Error("create processor", zap.String("plugin", info.Name), zap.Error(err))
		return nil, fmt.Errorf("create processor: %w", err)
	}
	return NewComponent(info, proc, Logger()), nil
}

// Components handed to C are referenced by an opaque handle, never by a Go
// pointer.
var (
	componentsMu sync.RWMutex
	components   = make(map[uintptr]*Component)
	nextHandle   uintptr = 1
)

// Attach registers c and returns its handle.
func Attach(c *Component) uintptr {
	componentsMu.Lock()
	defer componentsMu.Unlock()
	h := nextHandle
	nextHandle++
	components[h] = c
	return h
}

// Lookup returns the component for handle h, or nil.
func Lookup(h uintptr) *Component {
	if h == 0 {
		return nil
	}
	componentsMu.RLock()
	defer componentsMu.RUnlock()
	return components[h]
}

// Detach forgets handle h and terminates its component.
func Detach(h uintptr) error {
	componentsMu.Lock()
	c := components[h]
	delete(components, h)
	componentsMu.Unlock()

	if c == nil {
		return nil
	}
	return c.Terminate()
}
