package engine

import (
	"testing"
)

func TestFloats(t *testing.T) {
	tests := []struct {
		name    string
		seed    string
		count   int
		wantLen int
	}{
		{
			name:    "basic float generation",
			seed:    "test_seed",
			count:   1,
			wantLen: 1,
		},
		{
			name:    "multiple floats",
			seed:    "test_seed",
			count:   8,
			wantLen: 8,
		},
		{
			name:    "round boundary crossing",
			seed:    "test_seed",
			count:   12,
			wantLen: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			floats := Floats(tt.seed, tt.count)

			if len(floats) != tt.wantLen {
				t.Errorf("Floats() returned %d floats, want %d", len(floats), tt.wantLen)
			}

			// Check that all floats are in range [0, 1)
			for i, f := range floats {
				if f < 0 || f >= 1 {
					t.Errorf("Float %d is out of range [0, 1): %f", i, f)
				}
			}
		})
	}
}

func TestDeterministicFloats(t *testing.T) {
	seed := "deterministic_test"

	// Generate floats twice with the same seed
	floats1 := Floats(seed, 5)
	floats2 := Floats(seed, 5)

	// Should be identical
	if len(floats1) != len(floats2) {
		t.Fatal("Float arrays have different lengths")
	}

	for i := range floats1 {
		if floats1[i] != floats2[i] {
			t.Errorf("Float %d differs: %f != %f", i, floats1[i], floats2[i])
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	floats1 := Floats("seed_a", 4)
	floats2 := Floats("seed_b", 4)

	same := true
	for i := range floats1 {
		if floats1[i] != floats2[i] {
			same = false
			break
		}
	}

	if same {
		t.Error("Expected different seeds to produce different sequences")
	}
}

func TestBytesToFloat(t *testing.T) {
	tests := []struct {
		name     string
		bytes    [4]byte
		expected float64
	}{
		{
			name:     "all zeros",
			bytes:    [4]byte{0, 0, 0, 0},
			expected: 0.0,
		},
		{
			name:     "all max values",
			bytes:    [4]byte{255, 255, 255, 255},
			expected: 255.0/256.0 + 255.0/(256.0*256.0) + 255.0/(256.0*256.0*256.0) + 255.0/(256.0*256.0*256.0*256.0),
		},
		{
			name:     "specific pattern",
			bytes:    [4]byte{128, 64, 32, 16},
			expected: 128.0/256.0 + 64.0/(256.0*256.0) + 32.0/(256.0*256.0*256.0) + 16.0/(256.0*256.0*256.0*256.0),
		},
		{
			name:     "edge case - first byte only",
			bytes:    [4]byte{1, 0, 0, 0},
			expected: 1.0 / 256.0,
		},
		{
			name:     "edge case - last byte only",
			bytes:    [4]byte{0, 0, 0, 1},
			expected: 1.0 / (256.0 * 256.0 * 256.0 * 256.0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := bytesToFloat(tt.bytes)
			if result != tt.expected {
				t.Errorf("bytesToFloat() = %.15f, want %.15f", result, tt.expected)
			}
		})
	}
}

func TestStreamNext(t *testing.T) {
	s := NewStream("test_seed")

	// Generate more bytes than one HMAC round holds
	bytes := make([]byte, 40)
	for i := range bytes {
		bytes[i] = s.Next()
	}

	allZero := true
	for _, b := range bytes {
		if b != 0 {
			allZero = false
			break
		}
	}

	if allZero {
		t.Error("Stream produced all zero bytes")
	}
}

func TestStreamIntn(t *testing.T) {
	s := NewStream("intn_test")

	for i := 0; i < 200; i++ {
		got := s.Intn(7)
		if got < 0 || got >= 7 {
			t.Errorf("Intn(7) = %d, out of range [0, 7)", got)
		}
	}
}

func TestStreamIntnDeterministic(t *testing.T) {
	s1 := NewStream("intn_det")
	s2 := NewStream("intn_det")

	for i := 0; i < 50; i++ {
		v1 := s1.Intn(10)
		v2 := s2.Intn(10)
		if v1 != v2 {
			t.Errorf("Intn sequence diverged at %d: %d != %d", i, v1, v2)
		}
	}
}

func TestStreamIntnPanicsOnZero(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected Intn(0) to panic")
		}
	}()

	s := NewStream("panic_test")
	s.Intn(0)
}

func TestEntropyFloat64Range(t *testing.T) {
	e := NewEntropy()

	for i := 0; i < 200; i++ {
		f := e.Float64()
		if f < 0 || f >= 1 {
			t.Errorf("Float64() = %f, out of range [0, 1)", f)
		}
	}
}

func TestEntropyIntnRange(t *testing.T) {
	e := NewEntropy()

	for i := 0; i < 200; i++ {
		got := e.Intn(4)
		if got < 0 || got >= 4 {
			t.Errorf("Intn(4) = %d, out of range [0, 4)", got)
		}
	}
}

func BenchmarkFloats(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Floats("benchmark_seed", 8)
	}
}

func BenchmarkStreamFloat64(b *testing.B) {
	s := NewStream("benchmark_seed")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Float64()
	}
}

func BenchmarkBytesToFloat(b *testing.B) {
	bytes := [4]byte{123, 45, 67, 89}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bytesToFloat(bytes)
	}
}

func BenchmarkEntropyFloat64(b *testing.B) {
	e := NewEntropy()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Float64()
	}
}
