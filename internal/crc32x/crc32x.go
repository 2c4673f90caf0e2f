// Package crc32x computes the standard IEEE CRC-32 used for plaintext
// self-authentication in the volume header: header-wide integrity for
// HeaderVersion >= 4 and key-area integrity for VolumeKeyAreaCrc32.
package crc32x

import "hash/crc32"

var table = crc32.MakeTable(crc32.IEEE)

// Checksum computes the IEEE CRC-32 (polynomial 0xEDB88320 reflected, initial
// 0xFFFFFFFF, final xor 0xFFFFFFFF) over buf.
func Checksum(buf []byte) uint32 {
	return crc32.Checksum(buf, table)
}
