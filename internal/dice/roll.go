package dice

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"sync"
)

// Source yields integers in [0, n).
type Source interface {
	Intn(n int) int
}

// RollFace returns a face of kind drawn uniformly from [1, kind.Faces()].
func RollFace(src Source, kind Kind) int {
	return src.Intn(kind.Faces()) + 1
}

// Normalize maps a value to the face it stands for. A d10 value of 0 is the
// "10" face; everything else is returned unchanged.
func Normalize(kind Kind, value int) int {
	if kind == D10 && value == 0 {
		return 10
	}
	return value
}

type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source { return cryptoSource{} }

// crypto-rand small helper; plenty for a dice tray
func (cryptoSource) Intn(n int) int {
	var b [8]byte
	_, _ = rand.Read(b[:])
	v := binary.LittleEndian.Uint64(b[:])
	return int(v % uint64(n))
}

// seededSource is a deterministic Source; math/rand.Rand is not goroutine
// safe so calls are serialized.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source for the given seed.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: mrand.New(mrand.NewSource(seed))}
}

func (s *seededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
