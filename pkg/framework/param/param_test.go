package param

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameter(t *testing.T) {
	t.Run("DefaultFromBuilder", func(t *testing.T) {
		p := New(1, "cutoff").Range(20, 20000).Default(1000).Build()

		assert.Equal(t, 1000.0, p.GetPlainValue())
		assert.Equal(t, 1000.0, p.DefaultPlain)
		assert.InDelta(t, (1000.0-20)/(20000-20), p.DefaultValue, 1e-12)
		assert.InDelta(t, p.DefaultValue, p.GetValue(), 1e-12)
	})

	t.Run("SetValueClampsNormalized", func(t *testing.T) {
		p := New(1, "gain").Range(-60, 12).Build()

		p.SetValue(2)
		assert.Equal(t, 12.0, p.GetPlainValue())
		p.SetValue(-1)
		assert.Equal(t, -60.0, p.GetPlainValue())
	})

	t.Run("SetPlainValueIsUnclamped", func(t *testing.T) {
		p := New(1, "gain").Range(-60, 12).Build()

		p.SetPlainValue(40)
		assert.Equal(t, 40.0, p.GetPlainValue())
		assert.Equal(t, 1.0, p.GetValue())
	})

	t.Run("EmptyRange", func(t *testing.T) {
		p := New(1, "fixed").Range(3, 3).Default(3).Build()

		assert.Equal(t, 0.0, p.Normalize(3))
		assert.Equal(t, 3.0, p.GetPlainValue())
	})
}

func TestOnChange(t *testing.T) {
	var got []float64
	p := New(1, "gain").
		Range(-60, 12).
		Default(0).
		OnChange(func(v float64) { got = append(got, v) }).
		Build()

	assert.Empty(t, got, "building must not notify")

	p.SetPlainValue(-6)
	p.SetPlainValue(-6)
	p.SetValue(1)
	p.SetPlainValue(99)

	assert.Equal(t, []float64{-6, 12, 99}, got)

	p.Reset()
	assert.Equal(t, 0.0, p.GetPlainValue())
	assert.Len(t, got, 3, "reset must not notify")
}

func TestFormatAndParse(t *testing.T) {
	p := New(1, "cutoff").Range(20, 20020).Build()
	p.SetFormatter(ForUnit("Hz"))

	assert.Equal(t, "1.02 kHz", p.FormatValue(0.05))

	n, err := p.ParseValue("10.02 kHz")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, n, 1e-9)

	plain := New(2, "amount").Range(0, 10).Build()
	assert.Equal(t, "5.00", plain.FormatValue(0.5))
	_, err = plain.ParseValue("lots")
	assert.Error(t, err)

	stepped := New(3, "mode").Range(0, 4).Steps(4).Build()
	assert.Equal(t, "2", stepped.FormatValue(0.5))

	toggle := New(4, "bypass").Toggle().Build()
	assert.Equal(t, "On", toggle.FormatValue(1))
	n, err = toggle.ParseValue("off")
	require.NoError(t, err)
	assert.Equal(t, 0.0, n)
	_, err = toggle.ParseValue("maybe")
	assert.ErrorIs(t, err, errOnOff)
}

func TestSteps(t *testing.T) {
	toggle := New(1, "bypass").Toggle().Build()
	assert.Equal(t, CanAutomate|IsList, toggle.Flags)

	toggle.SetValue(0.7)
	assert.Equal(t, 1.0, toggle.GetPlainValue())
	toggle.SetValue(0.3)
	assert.Equal(t, 0.0, toggle.GetPlainValue())

	mode := New(2, "mode").Range(0, 4).Steps(4).Build()
	mode.SetValue(0.6)
	assert.Equal(t, 2.0, mode.GetPlainValue())
	assert.Equal(t, 0.5, mode.GetValue())
}

func TestBuilderFlags(t *testing.T) {
	meter := New(1, "level").ReadOnly().Build()
	assert.Equal(t, IsReadOnly, meter.Flags)

	hidden := New(2, "debug").Hidden().Build()
	assert.Equal(t, CanAutomate|IsHidden, hidden.Flags)
}

func TestForUnit(t *testing.T) {
	tests := []struct {
		unit  string
		value float64
		want  string
	}{
		{"Hz", 440, "440.0 Hz"},
		{"dB", -6, "-6.0 dB"},
		{"dB", -200, "-∞ dB"},
		{"%", 50, "50%"},
		{"ms", 250, "250.0 ms"},
		{"s", 1.5, "1.50 s"},
	}

	for _, tt := range tests {
		format, parse := ForUnit(tt.unit)
		require.NotNil(t, format, tt.unit)
		require.NotNil(t, parse, tt.unit)
		assert.Equal(t, tt.want, format(tt.value), tt.unit)
	}

	format, parse := ForUnit("furlongs")
	assert.Nil(t, format)
	assert.Nil(t, parse)

	parsers := []struct {
		parse func(string) (float64, error)
		in    string
		want  float64
	}{
		{SecondsParser, "250 ms", 0.25},
		{SecondsParser, "2", 2},
		{TimeParser, "1.5 s", 1500},
		{TimeParser, "500us", 0.5},
		{TimeParser, "20", 20},
		{FrequencyParser, "2.5 KHz", 2500},
		{FrequencyParser, " 440hz ", 440},
		{DecibelParser, "-6 dB", -6},
		{DecibelParser, "-inf", -120},
		{PercentParser, "75 %", 75},
	}
	for _, tt := range parsers {
		got, err := tt.parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}

	_, err := FrequencyParser("loud kHz")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	t.Run("OrderAndLookup", func(t *testing.T) {
		reg := NewRegistry()
		a := New(IDFromName("/fx/a"), "/fx/a").Build()
		b := New(IDFromName("/fx/b"), "/fx/b").Build()
		require.NoError(t, reg.Add(a, b))

		assert.Equal(t, int32(2), reg.Count())
		assert.Same(t, a, reg.GetByIndex(0))
		assert.Same(t, b, reg.GetByIndex(1))
		assert.Nil(t, reg.GetByIndex(2))
		assert.Same(t, b, reg.ByName("/fx/b"))
		assert.Nil(t, reg.ByName("/fx/c"))
		assert.Same(t, a, reg.Get(a.ID))
		assert.Equal(t, []*Parameter{a, b}, reg.All())
	})

	t.Run("DuplicateName", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Add(New(1, "gain").Build()))

		err := reg.Add(New(2, "gain").Build())
		assert.True(t, errors.Is(err, ErrDuplicateName))
		assert.Equal(t, int32(1), reg.Count())
	})

	t.Run("DuplicateID", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Add(New(1, "a").Build()))

		err := reg.Add(New(1, "b").Build())
		assert.True(t, errors.Is(err, ErrDuplicateID))
	})
}

func TestIDFromName(t *testing.T) {
	assert.Equal(t, IDFromName("/fx/gain"), IDFromName("/fx/gain"))
	assert.NotEqual(t, IDFromName("/fx/gain"), IDFromName("/fx/cutoff"))
	assert.Zero(t, IDFromName("/fx/gain")&0x80000000)
}

func TestConcurrentWritersNotifyInOrder(t *testing.T) {
	var last atomic.Uint64
	p := New(1, "gain").Range(0, 10000).
		OnChange(func(plain float64) { last.Store(math.Float64bits(plain)) }).
		Build()

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				p.SetPlainValue(float64(g*1000 + i + 1))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, p.GetPlainValue(), math.Float64frombits(last.Load()))
}
