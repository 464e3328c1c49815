package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestWrapPCM_PayloadRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{0x01, 0x02},
		{0xff, 0x7f, 0x00, 0x80},
		bytes.Repeat([]byte{0xab, 0xcd}, 480),
	}
	for _, pcm := range payloads {
		wav := WrapPCM(pcm, 24000, 16, 1)
		if len(wav) != 44+len(pcm) {
			t.Fatalf("len = %d, want %d", len(wav), 44+len(pcm))
		}
		if !bytes.Equal(wav[44:], pcm) {
			t.Error("payload bytes should pass through unchanged")
		}
	}
}

func TestWrapPCM_HeaderFields(t *testing.T) {
	pcm := make([]byte, 9600) // 200ms at 24kHz mono 16-bit
	wav := WrapPCM(pcm, 24000, 16, 1)

	if got := string(wav[0:4]); got != "RIFF" {
		t.Errorf("chunk ID = %q, want RIFF", got)
	}
	if got := binary.LittleEndian.Uint32(wav[4:8]); got != uint32(36+len(pcm)) {
		t.Errorf("RIFF chunk size = %d, want %d", got, 36+len(pcm))
	}
	if got := string(wav[8:12]); got != "WAVE" {
		t.Errorf("format = %q, want WAVE", got)
	}
	if got := string(wav[12:16]); got != "fmt " {
		t.Errorf("fmt chunk ID = %q", got)
	}
	if got := binary.LittleEndian.Uint32(wav[16:20]); got != 16 {
		t.Errorf("fmt chunk size = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint16(wav[20:22]); got != 1 {
		t.Errorf("format tag = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:24]); got != 1 {
		t.Errorf("channels = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 24000 {
		t.Errorf("sample rate = %d, want 24000", got)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 48000 {
		t.Errorf("byte rate = %d, want 48000", got)
	}
	if got := binary.LittleEndian.Uint16(wav[32:34]); got != 2 {
		t.Errorf("block align = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if got := string(wav[36:40]); got != "data" {
		t.Errorf("data chunk ID = %q", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data chunk size = %d, want %d", got, len(pcm))
	}
}

func TestWrapSpeechPCM(t *testing.T) {
	wav := WrapSpeechPCM([]byte{0x00, 0x01})
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != SpeechSampleRate {
		t.Errorf("sample rate = %d, want %d", got, SpeechSampleRate)
	}
}
