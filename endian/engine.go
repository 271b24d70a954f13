// Package endian provides byte order helpers for TDMS sample buffers.
//
// TDMS stores raw sample data little-endian. Arrays returned by the library are annotated
// with their Order, and typed in-place views of a buffer are only possible when that order
// matches the host's. This package answers both questions.
//
// # Usage
//
//	engine := endian.Little()
//	v := engine.Uint32(raw[0:4])
//
//	if endian.LittleEndian.IsNative() {
//	    // raw bytes can be reinterpreted as []int32 without swapping
//	}
//
// All functions are safe for concurrent use; the engines are immutable.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Order is the byte order annotation of a sample array.
type Order uint8

const (
	LittleEndian Order = iota // LittleEndian is the order of all TDMS raw data.
	BigEndian
)

func (o Order) String() string {
	if o == BigEndian {
		return "big-endian"
	}

	return "little-endian"
}

// Prefix returns the array-interface style order character, '<' or '>'.
func (o Order) Prefix() byte {
	if o == BigEndian {
		return '>'
	}

	return '<'
}

// Engine returns the engine that reads and writes values in this order.
func (o Order) Engine() EndianEngine {
	if o == BigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNative reports whether o is the host byte order.
func (o Order) IsNative() bool {
	return o == Native()
}

var native = detect()

func detect() Order {
	// 0x0100 stores 0x00 first on little-endian hosts.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return BigEndian
	}

	return LittleEndian
}

// Native returns the byte order of the host.
func Native() Order {
	return native
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return native == LittleEndian
}

// Little returns the little-endian engine used for TDMS values.
func Little() EndianEngine {
	return binary.LittleEndian
}
