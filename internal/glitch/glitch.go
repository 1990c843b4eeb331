// Package glitch scrambles text to show how much of the owner's memory
// files have rotted. Output is intentionally different on every call so
// that redrawing the same frame flickers.
package glitch

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"strings"
	"unicode"
)

// Threshold is the lowest level that alters text.
const Threshold = 20

// Noise is the alphabet substituted for corrupted runes.
var Noise = []rune{'?', '█', '▓', '░', '*', '#'}

// Source is the randomness Corrupt draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// NewSource returns a generator seeded from crypto/rand.
func NewSource() *rand.Rand {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}

// Corrupt replaces each non-space rune of text with probability level/200.
// Below Threshold the text is returned unchanged.
func Corrupt(text string, level int, rng Source) string {
	if level < Threshold || text == "" {
		return text
	}
	if level > 100 {
		level = 100
	}
	p := float64(level) / 200
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsSpace(r) || rng.Float64() >= p {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(Noise[rng.IntN(len(Noise))])
	}
	return b.String()
}
