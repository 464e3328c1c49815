// Package audio converts between the raw PCM frames used on the wire and the
// formats the rest of the system consumes: a playable WAV container for
// synthesized speech, and normalized float samples for capture and playback.
package audio

import "encoding/binary"

// Common format for synthesized speech output.
const (
	SpeechSampleRate    = 24000
	SpeechBitsPerSample = 16
	SpeechChannels      = 1
)

const wavHeaderSize = 44

// WrapPCM wraps little-endian signed PCM samples in a minimal WAV container:
// a 44-byte RIFF/WAVE header immediately followed by the unmodified sample
// bytes. The layout is the canonical minimal one, so any standard player can
// decode the result without external metadata.
func WrapPCM(pcm []byte, sampleRate, bitsPerSample, channels int) []byte {
	dataLen := len(pcm)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	out := make([]byte, wavHeaderSize, wavHeaderSize+dataLen)

	// RIFF chunk descriptor
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataLen))
	copy(out[8:12], "WAVE")

	// fmt sub-chunk: 16-byte body, format tag 1 (linear PCM)
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1)
	binary.LittleEndian.PutUint16(out[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], uint16(bitsPerSample))

	// data sub-chunk
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataLen))

	return append(out, pcm...)
}

// WrapSpeechPCM wraps PCM in a WAV container using the speech synthesis
// format (24 kHz, 16-bit, mono).
func WrapSpeechPCM(pcm []byte) []byte {
	return WrapPCM(pcm, SpeechSampleRate, SpeechBitsPerSample, SpeechChannels)
}
