package asm

import (
	"fmt"
	"sort"
	"strings"
)

// crc16CCITT computes the CRC-16-CCITT used by the machine-code listing:
// polynomial 0x1021, seed 0xFFFF, left-shift variant, no input/output
// reflection, no final XOR.
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

type addressedByte struct {
	addr int
	b    byte
}

// Listing renders the emitted bytes of a successful assembly as the
// machine-code listing: rows of up to eight consecutive bytes (a gap in
// addresses closes the row), each followed by its CRC-16-CCITT over the
// address (low, high) and data bytes.
func Listing(r *Result) string {
	if !r.Success {
		return ""
	}

	var flat []addressedByte
	for _, d := range r.Details {
		if !d.Valid {
			continue
		}
		for i, b := range d.Opcodes {
			flat = append(flat, addressedByte{addr: d.StartAddress + i, b: b})
		}
	}
	sort.SliceStable(flat, func(i, j int) bool { return flat[i].addr < flat[j].addr })

	var sb strings.Builder
	i := 0
	for i < len(flat) {
		rowStart := flat[i].addr
		var row []byte
		j := i
		for j < len(flat) && len(row) < 8 {
			if j > i && flat[j].addr != flat[j-1].addr+1 {
				break
			}
			row = append(row, flat[j].b)
			j++
		}

		crcInput := []byte{byte(rowStart), byte(rowStart >> 8)}
		crcInput = append(crcInput, row...)
		crc := crc16CCITT(crcInput)

		parts := make([]string, 0, len(row)+1)
		for _, b := range row {
			parts = append(parts, fmt.Sprintf("%d", b))
		}
		parts = append(parts, fmt.Sprintf("%d", crc))

		fmt.Fprintf(&sb, "%d Data %s\n", rowStart, strings.Join(parts, ","))
		i = j
	}
	return sb.String()
}
