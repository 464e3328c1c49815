package audio

import "encoding/binary"

// Float32ToPCM16 converts normalized float samples in [-1, 1] to signed
// 16-bit samples by scaling by 32767 and truncating. The encode scale
// (32767) deliberately differs from the decode scale (32768); that asymmetry
// is the remote audio contract, not a rounding artifact.
func Float32ToPCM16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, v := range samples {
		out[i] = int16(v * 32767)
	}
	return out
}

// PCM16ToFloat32 converts signed 16-bit samples back to normalized floats by
// dividing by 32768.
func PCM16ToFloat32(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32768.0
	}
	return out
}

// PCM16ToBytes serializes samples as little-endian s16le for transmission.
func PCM16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// BytesToPCM16 parses little-endian s16le sample bytes. A trailing odd byte
// is dropped.
func BytesToPCM16(data []byte) []int16 {
	n := len(data) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return out
}

// Float32FramesToWire converts one captured frame of normalized floats into
// the s16le byte layout sent over the live transport.
func Float32FramesToWire(samples []float32) []byte {
	return PCM16ToBytes(Float32ToPCM16(samples))
}

// WireToFloat32Frames converts inbound s16le bytes into normalized floats
// for playback scheduling.
func WireToFloat32Frames(data []byte) []float32 {
	return PCM16ToFloat32(BytesToPCM16(data))
}
