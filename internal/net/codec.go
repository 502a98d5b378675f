package net

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize is the largest payload a frame can carry.
const MaxFrameSize = 0xFFFF - 2

var (
	ErrFrameLength   = errors.New("invalid frame length")
	ErrFrameTooLarge = errors.New("frame too large")
)

// ReadFrame reads one frame from r.
// Wire format: [2 bytes LE: total length including these 2 bytes][payload].
// Returns the payload bytes, which start with the packet header. A payload
// longer than maxPayload is rejected before it is read; maxPayload <= 0
// means MaxFrameSize.
func ReadFrame(r io.Reader, maxPayload int) ([]byte, error) {
	if maxPayload <= 0 || maxPayload > MaxFrameSize {
		maxPayload = MaxFrameSize
	}
	var header [2]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	totalLen := int(binary.LittleEndian.Uint16(header[:]))
	payloadLen := totalLen - 2
	// A payload must at least hold the packet header.
	if payloadLen < 2 {
		return nil, fmt.Errorf("%w: %d", ErrFrameLength, totalLen)
	}
	if payloadLen > maxPayload {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFrameTooLarge, payloadLen, maxPayload)
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame payload (%d bytes): %w", payloadLen, err)
	}
	return payload, nil
}

// WriteFrame writes one frame to w.
// Wire format: [2 bytes LE: len(data)+2][data].
func WriteFrame(w io.Writer, data []byte) error {
	if len(data) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(data))
	}
	buf := make([]byte, 2+len(data))
	binary.LittleEndian.PutUint16(buf, uint16(len(data)+2))
	copy(buf[2:], data)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
