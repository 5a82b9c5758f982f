package engine

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
)

// Source supplies the randomness consumed by the game engines. Engines never
// reach for a global generator; the caller decides between a reproducible
// stream (tests, replayable games) and real entropy (production).
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64

	// Intn returns a uniform value in [0, n). Panics if n <= 0.
	Intn(n int) int
}

// Stream is a deterministic Source backed by an HMAC-SHA256 byte stream.
// Each 32-byte round is HMAC-SHA256(seed, "round:<n>"); floats consume four
// bytes at a time. The same seed always yields the same sequence.
type Stream struct {
	seed         string
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewStream creates a deterministic source for the given seed.
func NewStream(seed string) *Stream {
	s := &Stream{seed: seed}
	s.generateRound()
	return s
}

// Next returns the next byte from the stream.
func (s *Stream) Next() byte {
	if s.currentPos >= 32 {
		s.currentRound++
		s.currentPos = 0
		s.generateRound()
	}

	b := s.buffer[s.currentPos]
	s.currentPos++
	return b
}

// Float64 generates the next float using exactly 4 bytes.
func (s *Stream) Float64() float64 {
	b0 := s.Next()
	b1 := s.Next()
	b2 := s.Next()
	b3 := s.Next()

	return bytesToFloat([4]byte{b0, b1, b2, b3})
}

// Intn maps the next float onto [0, n).
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("engine: Intn called with n=%d", n))
	}
	idx := int(s.Float64() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

func (s *Stream) generateRound() {
	h := hmac.New(sha256.New, []byte(s.seed))
	message := fmt.Sprintf("round:%d", s.currentRound)
	h.Write([]byte(message))
	copy(s.buffer[:], h.Sum(nil))
}

// bytesToFloat converts exactly 4 bytes to float64 using the byte/256^i sum.
func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		divider := math.Pow(256, float64(i+1))
		result += float64(b) / divider
	}
	return result
}

// Floats generates count floats for the given seed from the stream head.
func Floats(seed string, count int) []float64 {
	s := NewStream(seed)
	floats := make([]float64, count)

	for i := 0; i < count; i++ {
		floats[i] = s.Float64()
	}

	return floats
}

// Entropy is a crypto/rand backed Source for non-reproducible play.
type Entropy struct{}

// NewEntropy creates an entropy-backed source.
func NewEntropy() *Entropy {
	return &Entropy{}
}

// Float64 returns a uniform value in [0, 1) from crypto/rand.
func (e *Entropy) Float64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("engine: entropy read: %v", err))
	}
	// Top 53 bits, same construction as math/rand.Float64.
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// Intn returns a uniform value in [0, n) from crypto/rand.
func (e *Entropy) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("engine: Intn called with n=%d", n))
	}
	idx := int(e.Float64() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}
