package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// ParamFlag collects repeated -param address=value settings.
type ParamFlag struct {
	names  []string
	values []float64
}

func (p *ParamFlag) String() string {
	parts := make([]string, len(p.names))
	for i, n := range p.names {
		parts[i] = n + "=" + strconv.FormatFloat(p.values[i], 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (p *ParamFlag) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("want address=value, got %q", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("parameter %s: %w", name, err)
	}
	p.names = append(p.names, name)
	p.values = append(p.values, v)
	return nil
}

// Setter is the part of an adapter the settings are applied to.
type Setter interface {
	SetParameter(name string, value float64) error
}

func (p *ParamFlag) Apply(s Setter) error {
	for i, n := range p.names {
		if err := s.SetParameter(n, p.values[i]); err != nil {
			return err
		}
	}
	return nil
}
