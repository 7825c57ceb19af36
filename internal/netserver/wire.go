// Package netserver implements the local-stream-socket transport (spec §6):
// header+payload framing, the load and print sub-protocols, and the
// connection-handling loop that drives one session's dispatch.Dispatcher
// per client. Grounded on the teacher's cmd/server/main.go connection loop
// (banner, per-command timeout) adapted from TCP+bufio.Scanner text framing
// to the spec's binary header+payload exchange.
package netserver

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Status mirrors dispatch.Status on the wire (spec §6, §7). Declared
// separately (rather than importing dispatch) to keep the wire format
// independent of the dispatcher's internal representation.
type Status uint32

const (
	StatusOKDone Status = iota
	StatusOKWaitForResponse
	StatusUnknownCommand
	StatusObjectNotFound
	StatusIncorrectFormat
	StatusQueryUnsupported
	StatusExecutionError
)

var byteOrder = binary.LittleEndian

// headerSize is {status: uint32, length: uint32} — 8 bytes on the wire. The
// source's header additionally carries a payload pointer field that has no
// meaning off-process; it is not transmitted here.
const headerSize = 8

// Header is one logical exchange's framing metadata (spec §6).
type Header struct {
	Status Status
	Length uint32
}

// WriteHeader writes h's fixed 8-byte encoding.
func WriteHeader(w io.Writer, h Header) error {
	buf := make([]byte, headerSize)
	byteOrder.PutUint32(buf[0:4], uint32(h.Status))
	byteOrder.PutUint32(buf[4:8], h.Length)
	_, err := w.Write(buf)
	return err
}

// ReadHeader reads a fixed 8-byte header.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, err
	}
	return Header{
		Status: Status(byteOrder.Uint32(buf[0:4])),
		Length: byteOrder.Uint32(buf[4:8]),
	}, nil
}

// WriteFrame writes a header followed by its payload in one logical
// exchange (spec §6: "every logical exchange is a header + payload pair").
func WriteFrame(w io.Writer, status Status, payload []byte) error {
	if err := WriteHeader(w, Header{Status: status, Length: uint32(len(payload))}); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one header+payload exchange.
func ReadFrame(r io.Reader) (Header, []byte, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return Header{}, nil, err
	}
	if h.Length == 0 {
		return h, nil, nil
	}
	payload := make([]byte, h.Length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Header{}, nil, fmt.Errorf("read payload (%d bytes): %w", h.Length, err)
	}
	return h, payload, nil
}

// int32Bytes encodes vs as consecutive little-endian int32s.
func int32Bytes(vs []int32) []byte {
	buf := make([]byte, 4*len(vs))
	for i, v := range vs {
		byteOrder.PutUint32(buf[i*4:], uint32(v))
	}
	return buf
}

// DecodeInt32s decodes a payload of consecutive little-endian int32s, the
// inverse of int32Bytes. Exported for the client, which needs to decode the
// print sub-protocol's metadata and tile payloads.
func DecodeInt32s(payload []byte) []int32 {
	out := make([]int32, len(payload)/4)
	for i := range out {
		out[i] = int32(byteOrder.Uint32(payload[i*4:]))
	}
	return out
}
