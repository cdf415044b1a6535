package plugin

import (
	"crypto/sha1"
	"errors"
	"strings"
)

// Info is the class description a plugin reports to the host.
type Info struct {
	ID       string // reverse domain name, e.g. "com.faustvst3.fx"
	Name     string
	Version  string
	Vendor   string
	Category string // VST3 subcategories, e.g. "Fx" or "Instrument|Synth"
}

// UID derives the 16-byte VST3 class ID from the string ID: the first 16
// bytes of its SHA-1. Hosts find saved sessions again as long as the ID is
// unchanged.
func (i Info) UID() [16]byte {
	var uid [16]byte
	sum := sha1.Sum([]byte(i.ID))
	copy(uid[:], sum[:16])
	return uid
}

// SubCategory returns Category, or "Fx" when it is empty.
func (i Info) SubCategory() string {
	if c := strings.TrimSpace(i.Category); c != "" {
		return c
	}
	return "Fx"
}

// IsInstrument reports whether the subcategories name an instrument.
func (i Info) IsInstrument() bool {
	for _, c := range strings.Split(i.SubCategory(), "|") {
		if c == "Instrument" {
			return true
		}
	}
	return false
}

// Validate checks that the plugin can be registered with a host.
func (i Info) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.New("plugin ID must not be empty")
	}
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("plugin name must not be empty")
	}
	return nil
}
