package format

import (
	"fmt"

	"github.com/joshuapare/mobikit/internal/buf"
)

// Kind identifies how a schema field is laid out on disk.
type Kind uint8

const (
	KindU8 Kind = iota + 1
	KindU16
	KindU24
	KindU32
	KindBytes
	KindPad
)

func (k Kind) String() string {
	switch k {
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU24:
		return "u24"
	case KindU32:
		return "u32"
	case KindBytes:
		return "bytes"
	case KindPad:
		return "pad"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Field is one named, fixed-width entry of a big-endian structure decoded
// into a T.
type Field[T any] struct {
	Name  string
	Kind  Kind
	Width int

	setInt   func(*T, uint32)
	setBytes func(*T, []byte)
}

// U8 declares a single-byte field.
func U8[T any](name string, set func(*T, uint8)) Field[T] {
	return Field[T]{Name: name, Kind: KindU8, Width: 1, setInt: func(d *T, v uint32) { set(d, uint8(v)) }}
}

// U16 declares a big-endian 16-bit field.
func U16[T any](name string, set func(*T, uint16)) Field[T] {
	return Field[T]{Name: name, Kind: KindU16, Width: 2, setInt: func(d *T, v uint32) { set(d, uint16(v)) }}
}

// U24 declares a big-endian 24-bit field.
func U24[T any](name string, set func(*T, uint32)) Field[T] {
	return Field[T]{Name: name, Kind: KindU24, Width: 3, setInt: set}
}

// U32 declares a big-endian 32-bit field.
func U32[T any](name string, set func(*T, uint32)) Field[T] {
	return Field[T]{Name: name, Kind: KindU32, Width: 4, setInt: set}
}

// Bytes declares an n-byte raw field. The slice passed to set aliases the
// source buffer and must be copied if retained.
func Bytes[T any](name string, n int, set func(*T, []byte)) Field[T] {
	return Field[T]{Name: name, Kind: KindBytes, Width: n, setBytes: set}
}

// Pad declares n bytes that are skipped without decoding.
func Pad[T any](name string, n int) Field[T] {
	return Field[T]{Name: name, Kind: KindPad, Width: n}
}

// Schema is an ordered field list describing a structure's byte layout.
type Schema[T any] []Field[T]

// Size returns the total literal width of the schema in bytes.
func (s Schema[T]) Size() int {
	n := 0
	for _, f := range s {
		n += f.Width
	}
	return n
}

// Decode reads every field in order from c into dst.
func (s Schema[T]) Decode(c *buf.Cursor, dst *T) error {
	for _, f := range s {
		var (
			v   uint32
			err error
		)
		switch f.Kind {
		case KindU8:
			var b uint8
			b, err = c.ReadU8()
			v = uint32(b)
		case KindU16:
			var h uint16
			h, err = c.ReadU16()
			v = uint32(h)
		case KindU24:
			v, err = c.ReadU24()
		case KindU32:
			v, err = c.ReadU32()
		case KindBytes:
			var p []byte
			if p, err = c.Bytes(f.Width); err == nil {
				f.setBytes(dst, p)
			}
		case KindPad:
			err = c.Skip(f.Width)
		default:
			err = fmt.Errorf("unknown kind %s", f.Kind)
		}
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		if f.setInt != nil {
			f.setInt(dst, v)
		}
	}
	return nil
}
