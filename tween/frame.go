package tween

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/chartling/chartling"
)

// Frame is one rendered step of a transition: a value per data point and a
// colour per series.
type Frame struct {
	Values []float64
	Colors []colorful.Color
}

// NewFrame creates a blank Frame with room for n values and m colours.
func NewFrame(n, m int) *Frame {
	f := new(Frame)
	f.Values = make([]float64, n)
	f.Colors = make([]colorful.Color, m)
	return f
}

// FrameFromPayload builds the Frame a payload describes. A nil payload is a
// clean sheet.
func FrameFromPayload(p *chartling.Payload) (*Frame, error) {
	if p == nil {
		return NewFrame(0, 0), nil
	}
	f := NewFrame(len(p.Data), len(p.Style.Colors))
	copy(f.Values, p.Data)
	for i, hex := range p.Style.Colors {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("colour %d: %w", i, err)
		}
		f.Colors[i] = c
	}
	return f, nil
}

// InterpolateFrame blends f towards f2. Values missing from f start at zero;
// colours missing from f start at f2's colour.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) *Frame {
	out := NewFrame(len(f2.Values), len(f2.Colors))
	for i := range out.Values {
		var from float64
		if i < len(f.Values) {
			from = f.Values[i]
		}
		out.Values[i] = from + (f2.Values[i]-from)*transitionPoint
	}
	for i := range out.Colors {
		from := f2.Colors[i]
		if i < len(f.Colors) {
			from = f.Colors[i]
		}
		out.Colors[i] = from.BlendHcl(f2.Colors[i], transitionPoint)
	}
	return out
}

// MarshalBinary encodes the frame as a little-endian value count, float32
// values, a colour count and RGB triplets.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	if len(f.Values) > math.MaxUint16 || len(f.Colors) > math.MaxUint16 {
		return nil, fmt.Errorf("frame too large: %d values, %d colours", len(f.Values), len(f.Colors))
	}

	data = make([]byte, 0, 4+len(f.Values)*4+len(f.Colors)*3)
	data = binary.LittleEndian.AppendUint16(data, uint16(len(f.Values)))
	for _, v := range f.Values {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(float32(v)))
	}
	data = binary.LittleEndian.AppendUint16(data, uint16(len(f.Colors)))
	for _, c := range f.Colors {
		r, g, b := c.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}
