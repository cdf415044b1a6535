//go:build magicgui

package adapter

import _ "embed"

//go:embed magic.xml
var magicLayout []byte

// GUILayout returns the embedded editor layout as opaque bytes.
func (a *Adapter) GUILayout() []byte {
	out := make([]byte, len(magicLayout))
	copy(out, magicLayout)
	return out
}
