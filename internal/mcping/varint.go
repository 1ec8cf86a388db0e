// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

package mcping

import (
	"bytes"
	"errors"
	"io"
)

// The Minecraft protocol frames everything with VarInts: 32-bit integers in
// unsigned LEB128, at most 5 bytes on the wire.

const maxVarIntBytes = 5

var errVarIntTooLong = errors.New("mcping: varint exceeds 5 bytes")

func writeVarInt(buf *bytes.Buffer, v int32) {
	u := uint32(v)
	for {
		b := byte(u & 0x7F)
		u >>= 7
		if u != 0 {
			b |= 0x80
		}
		buf.WriteByte(b)
		if u == 0 {
			return
		}
	}
}

func readVarInt(r io.Reader) (int32, error) {
	var result uint32
	var buf [1]byte
	for i := 0; i < maxVarIntBytes; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		b := buf[0]
		result |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return int32(result), nil
		}
	}
	return 0, errVarIntTooLong
}

func writeString(buf *bytes.Buffer, s string) {
	writeVarInt(buf, int32(len(s)))
	buf.WriteString(s)
}
