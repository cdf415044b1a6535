package adapter

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/justyntemme/faustvst3/pkg/engine"
	"github.com/justyntemme/faustvst3/pkg/framework/param"
)

// setter forwards one host edit to the engine.
type setter func(value float32)

// setterFor binds the engine call for parameter d once, at registration.
// Edits made after Close are kept by the parameter but never reach the
// engine.
func (a *Adapter) setterFor(d engine.ParamDescriptor) setter {
	if ix, ok := a.eng.(engine.IndexedSetter); ok {
		index := d.Index
		return func(v float32) {
			if a.State() != StateDestroyed {
				ix.SetParamValueByIndex(index, v)
			}
		}
	}
	address := d.Address
	return func(v float32) {
		if a.State() != StateDestroyed {
			a.eng.SetParamValue(address, v)
		}
	}
}

// registerParameters creates one automatable host parameter per engine
// parameter, in engine order. Host edits reach the engine unchanged and
// without range checks.
func (a *Adapter) registerParameters() error {
	widgets := widgetsFromUI(a.eng.JSONMeta())
	reg := a.GetParameters()

	for _, d := range engine.DescribeAll(a.eng) {
		set := a.setterFor(d)
		b := param.New(param.IDFromName(d.Address), d.Address).
			ShortName(shortName(d.Address)).
			Range(float64(d.Min), float64(d.Max)).
			Default(float64(d.Init)).
			OnChange(func(plain float64) { set(float32(plain)) })

		if w, ok := widgets[d.Address]; ok {
			w.apply(b)
		}

		if err := reg.Add(b.Build()); err != nil {
			return fmt.Errorf("engine parameter %d: %w", d.Index, err)
		}
	}
	return nil
}

// SetParameter applies a host edit in the parameter's own range. The engine
// sees the value exactly once if it differs from the current one.
func (a *Adapter) SetParameter(name string, value float64) error {
	if a.State() == StateDestroyed {
		return ErrClosed
	}
	p := a.GetParameters().ByName(name)
	if p == nil {
		return fmt.Errorf("unknown parameter %q", name)
	}
	p.SetPlainValue(value)
	return nil
}

// Parameter returns the current value of a parameter in its own range.
func (a *Adapter) Parameter(name string) (float64, bool) {
	p := a.GetParameters().ByName(name)
	if p == nil {
		return 0, false
	}
	return p.GetPlainValue(), true
}

func shortName(address string) string {
	for i := len(address) - 1; i >= 0; i-- {
		if address[i] == '/' {
			return address[i+1:]
		}
	}
	return address
}

// widget is what the engine's UI description adds to a parameter.
type widget struct {
	kind   string
	unit   string
	hidden bool
}

func (w widget) apply(b *param.Builder) {
	if w.hidden {
		b.Hidden()
	}
	switch w.kind {
	case "checkbox", "button":
		b.Toggle()
		return
	case "hbargraph", "vbargraph":
		b.ReadOnly()
	}
	if w.unit == "" {
		return
	}
	b.Unit(w.unit)
	if format, parse := param.ForUnit(w.unit); format != nil {
		b.Formatter(format, parse)
	}
}

type uiItem struct {
	Type    string            `json:"type"`
	Address string            `json:"address"`
	Meta    []json.RawMessage `json:"meta"`
	Items   []uiItem          `json:"items"`
}

// widgetsFromUI indexes the widgets of the metadata's "ui" tree by address.
// Metadata without a usable tree yields an empty index.
func widgetsFromUI(meta string) map[string]widget {
	var doc struct {
		UI []uiItem `json:"ui"`
	}
	out := make(map[string]widget)
	if err := json.Unmarshal([]byte(meta), &doc); err != nil {
		return out
	}

	var walk func(items []uiItem)
	walk = func(items []uiItem) {
		for _, it := range items {
			if len(it.Items) > 0 {
				walk(it.Items)
			}
			if it.Address == "" {
				continue
			}
			w := widget{kind: it.Type}
			for _, raw := range it.Meta {
				var kv map[string]string
				if json.Unmarshal(raw, &kv) != nil {
					continue
				}
				if u, ok := kv["unit"]; ok {
					w.unit = u
				}
				if h, ok := kv["hidden"]; ok {
					w.hidden = h != "" && h != "0"
				}
			}
			out[it.Address] = w
		}
	}
	walk(doc.UI)
	return out
}

func (a *Adapter) logParameters() {
	if ce := a.logger.Check(zap.DebugLevel, "parameter"); ce == nil {
		return
	}
	for _, p := range a.GetParameters().All() {
		a.logger.Debug("parameter",
			zap.String("name", p.Name),
			zap.Float64("min", p.Min),
			zap.Float64("max", p.Max),
			zap.Float64("default", p.DefaultPlain),
			zap.String("unit", p.Unit),
		)
	}
}
