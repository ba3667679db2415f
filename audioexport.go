package audioserver

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Wav encodes the rendered buffer as a .wav file with the buffer's channel
// count. With pcm16 the samples are clamped to 16-bit integers, otherwise
// they are written as IEEE float32.
func Wav(buffer AudioBuffer, sampleRate int, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	wavHeader(len(buffer.Samples), buffer.Channels, sampleRate, pcm16, buf)
	if err := rawToBuffer(buffer.Samples, pcm16, buf); err != nil {
		return nil, fmt.Errorf("Wav failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Raw encodes the samples without any header.
func Raw(buffer AudioBuffer, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := rawToBuffer(buffer.Samples, pcm16, buf); err != nil {
		return nil, fmt.Errorf("Raw failed: %w", err)
	}
	return buf.Bytes(), nil
}

func rawToBuffer(data []float32, pcm16 bool, buf *bytes.Buffer) error {
	var err error
	if pcm16 {
		int16data := make([]int16, len(data))
		for i, v := range data {
			int16data[i] = int16(clamp(int(v*math.MaxInt16), math.MinInt16, math.MaxInt16))
		}
		err = binary.Write(buf, binary.LittleEndian, int16data)
	} else {
		err = binary.Write(buf, binary.LittleEndian, data)
	}
	if err != nil {
		return fmt.Errorf("could not binary write data to binary buffer: %w", err)
	}
	return nil
}

// wavHeader writes the RIFF header for numSamples interleaved samples. Float
// files get the extended fmt chunk and a fact chunk, as required for
// non-PCM formats.
func wavHeader(numSamples, numChannels, sampleRate int, pcm16 bool, buf *bytes.Buffer) {
	// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
	bytesPerSample, fmtChunkSize, waveFormat := 4, 18, 3 // IEEE float
	if pcm16 {
		bytesPerSample, fmtChunkSize, waveFormat = 2, 16, 1 // PCM
	}
	factChunk := !pcm16
	dataSize := bytesPerSample * numSamples
	chunkSize := 4 + (8 + fmtChunkSize) + (8 + dataSize)
	if factChunk {
		chunkSize += 12
	}
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(chunkSize))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(buf, binary.LittleEndian, uint16(waveFormat))
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*numChannels*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(numChannels*bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))                      // bits per sample
	if fmtChunkSize > 16 {
		binary.Write(buf, binary.LittleEndian, uint16(0)) // size of extension
	}
	if factChunk {
		buf.Write([]byte("fact"))
		binary.Write(buf, binary.LittleEndian, uint32(4))
		binary.Write(buf, binary.LittleEndian, uint32(numSamples/max(numChannels, 1))) // frames
	}
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
