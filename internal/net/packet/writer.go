package packet

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// Encoder is implemented by types that serialize themselves into a packet.
type Encoder interface {
	WritePacket(w *Writer)
}

// Writer builds a server packet. All multi-byte writes are little-endian.
// The buffer only grows; earlier bytes are never rewritten.
type Writer struct {
	buf []byte
}

// NewWriter starts a packet with the given header.
func NewWriter(h Header) *Writer {
	w := &Writer{buf: make([]byte, 0, 64)}
	w.WriteUint16(uint16(h))
	return w
}

// NewFragment starts a header-less buffer, used for shared payloads and
// nested sub-buffers.
func NewFragment() *Writer {
	return &Writer{buf: make([]byte, 0, 32)}
}

func (w *Writer) WriteInt8(v int8) {
	w.buf = append(w.buf, byte(v))
}

func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v))
}

func (w *Writer) WriteUint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// WriteBool writes 1 byte: 1 for true, 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
		return
	}
	w.buf = append(w.buf, 0)
}

// WriteString writes a uint16 byte length followed by the string in the
// client code page. Strings longer than 65535 bytes are truncated.
func (w *Writer) WriteString(s string) {
	b := encodeString(s)
	if len(b) > 0xFFFF {
		b = b[:0xFFFF]
	}
	w.WriteUint16(uint16(len(b)))
	w.buf = append(w.buf, b...)
}

// WriteFixedString writes exactly n bytes: the encoded string truncated to n,
// zero-padded to n.
func (w *Writer) WriteFixedString(s string, n int) {
	b := encodeString(s)
	if len(b) > n {
		b = b[:n]
	}
	w.buf = append(w.buf, b...)
	for i := len(b); i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteHex writes a literal byte sequence given as hex ("008005BB" or
// "00 80 05 BB"). A malformed literal is a programming error and panics.
func (w *Writer) WriteHex(s string) {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic("packet: bad hex literal " + s)
	}
	w.buf = append(w.buf, b...)
}

// WriteWriter splices the bytes of another writer in place.
func (w *Writer) WriteWriter(sub *Writer) {
	w.buf = append(w.buf, sub.buf...)
}

// WriteObject lets e serialize itself into w.
func (w *Writer) WriteObject(e Encoder) {
	e.WritePacket(w)
}

// WriteSlice writes a uint32 element count followed by each element.
func WriteSlice[T any](w *Writer, items []T, fn func(*Writer, T)) {
	w.WriteUint32(uint32(len(items)))
	for _, it := range items {
		fn(w, it)
	}
}

// Bytes returns the packet content. The caller must not modify it.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the current length.
func (w *Writer) Len() int {
	return len(w.buf)
}
