package param

// Builder assembles a Parameter. The zero range is 0..1.
type Builder struct {
	p     *Parameter
	plain float64
}

// New starts an automatable parameter with the given ID and name.
func New(id uint32, name string) *Builder {
	return &Builder{p: &Parameter{
		ID:        id,
		Name:      name,
		ShortName: name,
		Max:       1,
		Flags:     CanAutomate,
	}}
}

func (b *Builder) ShortName(name string) *Builder {
	b.p.ShortName = name
	return b
}

func (b *Builder) Range(lo, hi float64) *Builder {
	b.p.Min, b.p.Max = lo, hi
	return b
}

// Default sets the initial value in the plain range.
func (b *Builder) Default(plain float64) *Builder {
	b.plain = plain
	return b
}

func (b *Builder) Unit(unit string) *Builder {
	b.p.Unit = unit
	return b
}

// Steps makes the parameter discrete with count steps between min and max.
func (b *Builder) Steps(count int32) *Builder {
	b.p.StepCount = count
	return b
}

// Toggle makes an on/off switch over the current range.
func (b *Builder) Toggle() *Builder {
	b.p.StepCount = 1
	b.p.Flags |= IsList
	b.p.format, b.p.parse = OnOffFormatter, OnOffParser
	return b
}

// ReadOnly makes a display-only parameter the host cannot automate.
func (b *Builder) ReadOnly() *Builder {
	b.p.Flags = b.p.Flags&^CanAutomate | IsReadOnly
	return b
}

func (b *Builder) Hidden() *Builder {
	b.p.Flags |= IsHidden
	return b
}

func (b *Builder) Formatter(format func(float64) string, parse func(string) (float64, error)) *Builder {
	b.p.format, b.p.parse = format, parse
	return b
}

func (b *Builder) OnChange(fn func(plain float64)) *Builder {
	b.p.onChange = fn
	return b
}

// Build returns the parameter holding its default value. The listener is
// not called.
func (b *Builder) Build() *Parameter {
	p := b.p
	p.DefaultPlain = b.plain
	p.DefaultValue = p.Normalize(b.plain)
	p.Reset()
	return p
}
