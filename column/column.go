// Package column implements the width-adaptive column codec: the packing
// scheme shared by every integer and float column in a document record
// (span starts and lengths, value ids, group offsets, span references,
// parent indices, and embedding vectors).
//
// Every column is written at the narrowest width that fits its own data,
// and a column that is entirely empty or entirely absent collapses to a
// zero-payload NONE marker. Widths are chosen per document, not per
// archive, so a large document elsewhere in the same file never forces a
// small one to pay for wider elements than it needs.
package column

import (
	"encoding/binary"
	"math"

	"github.com/nlabel/arriba/errs"
)

// Width is the on-disk element width, in bits, of a packed column.
type Width int

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

func (w Width) bytes() int {
	return int(w) / 8
}

// Kind discriminates what a Column holds.
type Kind byte

const (
	// KindNone marks a column with no payload: empty, or every logical
	// value absent/default.
	KindNone Kind = iota
	// KindUint marks an unsigned integer column (ids, offsets, lengths).
	KindUint
	// KindInt marks a signed integer column using -1 as the "absent" sentinel
	// (span references, parent indices).
	KindInt
	// KindFloat marks a floating point column (scores, embedding components).
	KindFloat
)

// Column is the width-tagged, packed representation of one column's worth
// of values. Data is the raw little-endian payload; N is the logical
// element count (0 for KindNone).
type Column struct {
	Kind  Kind
	Width Width
	N     int
	Data  []byte
}

// IsNone reports whether the column carries the zero-payload NONE marker.
func (c Column) IsNone() bool {
	return c.Kind == KindNone
}

// None returns the zero-payload column.
func None() Column {
	return Column{Kind: KindNone}
}

func widthForUint(max uint64) Width {
	switch {
	case max <= math.MaxUint8:
		return Width8
	case max <= math.MaxUint16:
		return Width16
	case max <= math.MaxUint32:
		return Width32
	default:
		return Width64
	}
}

// EncodeUint packs a column of non-negative integers at the narrowest
// width that fits the maximum value present. An empty slice encodes to
// KindNone.
func EncodeUint(values []uint64) Column {
	if len(values) == 0 {
		return None()
	}
	var max uint64
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	w := widthForUint(max)
	data := make([]byte, len(values)*w.bytes())
	for i, v := range values {
		putUint(data[i*w.bytes():], w, v)
	}
	return Column{Kind: KindUint, Width: w, N: len(values), Data: data}
}

// DecodeUint unpacks a KindUint (or KindNone) column back to a slice of n
// logical values; a NONE column decodes to n zeros.
func DecodeUint(c Column, n int) ([]uint64, error) {
	if c.IsNone() {
		return make([]uint64, n), nil
	}
	if c.Kind != KindUint {
		return nil, errs.New(errs.KindCorruptArchive, "expected uint column, got kind %d", c.Kind)
	}
	if c.N != n {
		return nil, errs.New(errs.KindCorruptArchive, "uint column has %d elements, expected %d", c.N, n)
	}
	out := make([]uint64, n)
	step := c.Width.bytes()
	if len(c.Data) != n*step {
		return nil, errs.New(errs.KindCorruptArchive, "uint column payload is %d bytes, expected %d", len(c.Data), n*step)
	}
	for i := range out {
		out[i] = getUint(c.Data[i*step:], c.Width)
	}
	return out, nil
}

func putUint(dst []byte, w Width, v uint64) {
	switch w {
	case Width8:
		dst[0] = byte(v)
	case Width16:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case Width32:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	case Width64:
		binary.LittleEndian.PutUint64(dst, v)
	}
}

func getUint(src []byte, w Width) uint64 {
	switch w {
	case Width8:
		return uint64(src[0])
	case Width16:
		return uint64(binary.LittleEndian.Uint16(src))
	case Width32:
		return uint64(binary.LittleEndian.Uint32(src))
	default:
		return binary.LittleEndian.Uint64(src)
	}
}

// sentinelAbsent is the logical "no value" marker for signed columns, e.g.
// a tag with no span or a root tag with no parent.
const sentinelAbsent int64 = -1

func widthForInt(max int64) Width {
	switch {
	case max <= math.MaxInt8:
		return Width8
	case max <= math.MaxInt16:
		return Width16
	case max <= math.MaxInt32:
		return Width32
	default:
		return Width64
	}
}

// EncodeInt packs a column of ids using -1 as the absent sentinel, at the
// narrowest signed width (8/16/32, escalating to 64 only if an id would
// not otherwise fit) that admits both the sentinel and the maximum
// non-negative value present. An empty slice, or one where every element
// is absent, encodes to KindNone.
func EncodeInt(values []int64) Column {
	if len(values) == 0 {
		return None()
	}
	var max int64
	anyPresent := false
	for _, v := range values {
		if v == sentinelAbsent {
			continue
		}
		anyPresent = true
		if v > max {
			max = v
		}
	}
	if !anyPresent {
		return None()
	}
	w := widthForInt(max)
	data := make([]byte, len(values)*w.bytes())
	for i, v := range values {
		putInt(data[i*w.bytes():], w, v)
	}
	return Column{Kind: KindInt, Width: w, N: len(values), Data: data}
}

// DecodeInt unpacks a KindInt (or KindNone) column back to n logical
// values; a NONE column decodes to n sentinel (-1) entries.
func DecodeInt(c Column, n int) ([]int64, error) {
	if c.IsNone() {
		out := make([]int64, n)
		for i := range out {
			out[i] = sentinelAbsent
		}
		return out, nil
	}
	if c.Kind != KindInt {
		return nil, errs.New(errs.KindCorruptArchive, "expected int column, got kind %d", c.Kind)
	}
	if c.N != n {
		return nil, errs.New(errs.KindCorruptArchive, "int column has %d elements, expected %d", c.N, n)
	}
	step := c.Width.bytes()
	if len(c.Data) != n*step {
		return nil, errs.New(errs.KindCorruptArchive, "int column payload is %d bytes, expected %d", len(c.Data), n*step)
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = getInt(c.Data[i*step:], c.Width)
	}
	return out, nil
}

func putInt(dst []byte, w Width, v int64) {
	switch w {
	case Width8:
		dst[0] = byte(int8(v))
	case Width16:
		binary.LittleEndian.PutUint16(dst, uint16(int16(v)))
	case Width32:
		binary.LittleEndian.PutUint32(dst, uint32(int32(v)))
	case Width64:
		binary.LittleEndian.PutUint64(dst, uint64(v))
	}
}

func getInt(src []byte, w Width) int64 {
	switch w {
	case Width8:
		return int64(int8(src[0]))
	case Width16:
		return int64(int16(binary.LittleEndian.Uint16(src)))
	case Width32:
		return int64(int32(binary.LittleEndian.Uint32(src)))
	default:
		return int64(binary.LittleEndian.Uint64(src))
	}
}

// representableAsFloat32 reports whether v round-trips exactly through a
// float32, NaN included (NaN stands for "no score" and is representable at
// either width).
func representableAsFloat32(v float64) bool {
	if math.IsNaN(v) {
		return true
	}
	return float64(float32(v)) == v
}

// EncodeFloat packs a column of scores/vector components at 32 bits unless
// some value isn't exactly representable there, in which case the whole
// column widens to 64 bits. An empty slice, or one where every value is
// NaN (absent), encodes to KindNone.
func EncodeFloat(values []float64) Column {
	if len(values) == 0 {
		return None()
	}
	allAbsent := true
	width := Width32
	for _, v := range values {
		if !math.IsNaN(v) {
			allAbsent = false
		}
		if !representableAsFloat32(v) {
			width = Width64
		}
	}
	if allAbsent {
		return None()
	}

	data := make([]byte, len(values)*width.bytes())
	for i, v := range values {
		if width == Width32 {
			binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(float32(v)))
		} else {
			binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
		}
	}
	return Column{Kind: KindFloat, Width: width, N: len(values), Data: data}
}

// DecodeFloat unpacks a KindFloat (or KindNone) column back to n logical
// values; a NONE column decodes to n NaNs ("no score"/"no vector").
func DecodeFloat(c Column, n int) ([]float64, error) {
	if c.IsNone() {
		out := make([]float64, n)
		for i := range out {
			out[i] = math.NaN()
		}
		return out, nil
	}
	if c.Kind != KindFloat {
		return nil, errs.New(errs.KindCorruptArchive, "expected float column, got kind %d", c.Kind)
	}
	if c.N != n {
		return nil, errs.New(errs.KindCorruptArchive, "float column has %d elements, expected %d", c.N, n)
	}
	step := c.Width.bytes()
	if len(c.Data) != n*step {
		return nil, errs.New(errs.KindCorruptArchive, "float column payload is %d bytes, expected %d", len(c.Data), n*step)
	}
	out := make([]float64, n)
	for i := range out {
		if c.Width == Width32 {
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(c.Data[i*4:])))
		} else {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(c.Data[i*8:]))
		}
	}
	return out, nil
}
