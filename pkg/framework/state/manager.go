// Package state saves and restores parameter values in the plugin's state
// chunk.
package state

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/justyntemme/faustvst3/pkg/framework/param"
)

const (
	magic   = "FAUSTVST"
	version = uint32(1)

	maxNameLen = math.MaxUint16
)

// ErrInvalidState is returned for chunks this manager did not write.
var ErrInvalidState = errors.New("invalid state format")

// Manager handles plugin state saving and loading. Values are keyed by
// parameter name, so a chunk stays valid when the engine reorders its
// parameters.
type Manager struct {
	registry *param.Registry
}

// NewManager creates a new state manager
func NewManager(registry *param.Registry) *Manager {
	return &Manager{registry: registry}
}

// Save writes the plain value of every parameter to w.
func (m *Manager) Save(w io.Writer) error {
	params := m.registry.All()

	var buf bytes.Buffer
	buf.WriteString(magic)
	_ = binary.Write(&buf, binary.LittleEndian, version)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(params)))

	for _, p := range params {
		if len(p.Name) > maxNameLen {
			return fmt.Errorf("parameter name of %d bytes is too long", len(p.Name))
		}
		_ = binary.Write(&buf, binary.LittleEndian, uint16(len(p.Name)))
		buf.WriteString(p.Name)
		_ = binary.Write(&buf, binary.LittleEndian, p.GetPlainValue())
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Load restores parameter values from r. Each restored value goes through
// SetPlainValue, so change listeners forward it to the engine. Names that no
// longer exist are skipped.
func (m *Manager) Load(r io.Reader) error {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if string(header) != magic {
		return ErrInvalidState
	}

	var v uint32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return fmt.Errorf("%w: read version: %v", ErrInvalidState, err)
	}
	if v > version {
		return fmt.Errorf("state version %d is newer than supported version %d", v, version)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("%w: read count: %v", ErrInvalidState, err)
	}

	for i := uint32(0); i < count; i++ {
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrInvalidState, i, err)
		}
		name := make([]byte, n)
		if _, err := io.ReadFull(r, name); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrInvalidState, i, err)
		}
		var value float64
		if err := binary.Read(r, binary.LittleEndian, &value); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrInvalidState, i, err)
		}

		if p := m.registry.ByName(string(name)); p != nil {
			p.SetPlainValue(value)
		}
	}

	return nil
}

// Bytes returns the saved state as a byte slice.
func (m *Manager) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadBytes restores state from a byte slice.
func (m *Manager) LoadBytes(data []byte) error {
	return m.Load(bytes.NewReader(data))
}
