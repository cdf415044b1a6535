//go:build !magicgui

package adapter

// GUILayout returns the embedded editor layout. Builds without the magicgui
// tag carry none.
func (a *Adapter) GUILayout() []byte { return nil }
