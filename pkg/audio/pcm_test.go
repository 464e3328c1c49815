package audio

import (
	"math"
	"testing"
)

func TestFloat32ToPCM16_Boundaries(t *testing.T) {
	got := Float32ToPCM16([]float32{1.0, -1.0, 0})
	if got[0] != 32767 {
		t.Errorf("encode(1.0) = %d, want 32767", got[0])
	}
	if got[1] != -32767 {
		t.Errorf("encode(-1.0) = %d, want -32767", got[1])
	}
	if got[2] != 0 {
		t.Errorf("encode(0) = %d, want 0", got[2])
	}
}

func TestPCM16ToFloat32_Scale(t *testing.T) {
	got := PCM16ToFloat32([]int16{-32768, 32767, 0})
	if got[0] != -1.0 {
		t.Errorf("decode(-32768) = %v, want -1.0", got[0])
	}
	if got[2] != 0 {
		t.Errorf("decode(0) = %v, want 0", got[2])
	}
}

func TestEncodeDecode_WithinQuantizationError(t *testing.T) {
	in := []float32{-1.0, -0.5, -0.001, 0, 0.25, 0.7071, 0.9999, 1.0}
	out := PCM16ToFloat32(Float32ToPCM16(in))
	for i := range in {
		diff := math.Abs(float64(in[i]) - float64(out[i]))
		if diff > 1.0/32768.0 {
			t.Errorf("sample %v: round-trip error %v exceeds 1/32768", in[i], diff)
		}
	}
}

func TestWireRoundTrip(t *testing.T) {
	samples := []int16{-32768, -1, 0, 1, 256, 32767}
	got := BytesToPCM16(PCM16ToBytes(samples))
	if len(got) != len(samples) {
		t.Fatalf("len = %d, want %d", len(got), len(samples))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Errorf("sample %d: got %d, want %d", i, got[i], samples[i])
		}
	}
}

func TestBytesToPCM16_OddTrailingByte(t *testing.T) {
	got := BytesToPCM16([]byte{0x01, 0x00, 0xff})
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("got %v, want [1]", got)
	}
}
