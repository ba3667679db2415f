package oto

import (
	"encoding/binary"
	"math"
)

// FloatBufferToLE appends the samples of buff to dst as 32-bit little-endian
// floats, the sample format of the oto context.
func FloatBufferToLE(buff []float32, dst []byte) []byte {
	for _, v := range buff {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}
