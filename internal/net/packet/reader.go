package packet

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncatedPacket is recorded when a read would run past the end of the
// packet body.
var ErrTruncatedPacket = errors.New("truncated packet")

// Decoder is implemented by types that deserialize themselves from a packet.
type Decoder interface {
	ReadPacket(r *Reader)
}

// Reader reads fields from an inbound packet body. The header has already
// been consumed by the registry.
//
// Errors are sticky: after the first out-of-bounds read every further read
// returns the zero value without advancing. Handlers read all fields and
// check Err once.
type Reader struct {
	header Header
	data   []byte
	off    int
	err    error
}

func NewReader(h Header, body []byte) *Reader {
	return &Reader{header: h, data: body}
}

// Header returns the header the packet was dispatched on.
func (r *Reader) Header() Header {
	return r.header
}

// Err returns the first read error, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// take returns the next n bytes or nil after recording truncation.
func (r *Reader) take(n int, field string) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.data)-r.off {
		r.err = fmt.Errorf("%w: %s needs %d bytes at offset %d, %d left",
			ErrTruncatedPacket, field, n, r.off, len(r.data)-r.off)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) ReadInt8() int8 {
	return int8(r.ReadUint8())
}

func (r *Reader) ReadUint8() uint8 {
	b := r.take(1, "uint8")
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) ReadInt16() int16 {
	return int16(r.ReadUint16())
}

func (r *Reader) ReadUint16() uint16 {
	b := r.take(2, "uint16")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) ReadInt32() int32 {
	return int32(r.ReadUint32())
}

func (r *Reader) ReadUint32() uint32 {
	b := r.take(4, "uint32")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) ReadInt64() int64 {
	return int64(r.ReadUint64())
}

func (r *Reader) ReadUint64() uint64 {
	b := r.take(8, "uint64")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// ReadBool reads 1 byte; any non-zero value is true.
func (r *Reader) ReadBool() bool {
	return r.ReadUint8() != 0
}

// ReadString reads a uint16 length-prefixed string and returns UTF-8.
func (r *Reader) ReadString() string {
	n := r.ReadUint16()
	b := r.take(int(n), "string")
	if b == nil {
		return ""
	}
	return decodeString(b)
}

// ReadFixedString reads exactly n bytes and trims trailing zero padding.
func (r *Reader) ReadFixedString(n int) string {
	b := r.take(n, "fixed string")
	if b == nil {
		return ""
	}
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return decodeString(b[:end])
}

// ReadBytes reads n raw bytes into a new slice.
func (r *Reader) ReadBytes(n int) []byte {
	b := r.take(n, "bytes")
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Skip discards n bytes.
func (r *Reader) Skip(n int) {
	r.take(n, "skip")
}

// ReadObject lets d deserialize itself from r.
func (r *Reader) ReadObject(d Decoder) {
	d.ReadPacket(r)
}

// ReadSlice reads a uint32 element count followed by that many elements.
// fn must consume at least one byte per element; a count that the remaining
// bytes cannot satisfy is reported as truncation up front.
func ReadSlice[T any](r *Reader, fn func(*Reader) T) []T {
	n := r.ReadUint32()
	if r.err != nil {
		return nil
	}
	if int64(n) > int64(r.Remaining()) {
		r.err = fmt.Errorf("%w: slice of %d elements, %d bytes left",
			ErrTruncatedPacket, n, r.Remaining())
		return nil
	}
	out := make([]T, 0, n)
	for i := uint32(0); i < n; i++ {
		v := fn(r)
		if r.err != nil {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// ReadUntilExhausted reads elements until no bytes remain.
func ReadUntilExhausted[T any](r *Reader, fn func(*Reader) T) []T {
	var out []T
	for r.err == nil && r.Remaining() > 0 {
		start := r.off
		v := fn(r)
		if r.err != nil {
			return nil
		}
		out = append(out, v)
		if r.off == start {
			break // fn consumed nothing
		}
	}
	return out
}
