package crypto

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"sort"
	"strings"

	"github.com/polarysfoundation/chainlab/modules/common"
	pm256 "github.com/polarysfoundation/pm-256"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Algorithm identifies the hash function that produced a block hash.
type Algorithm string

const (
	SHA256  Algorithm = "SHA-256"
	SHA3256 Algorithm = "SHA3-256"
	BLAKE2b Algorithm = "BLAKE2b"
	PM256   Algorithm = "PM-256"

	Default = SHA256
)

var hashers = map[Algorithm]func() hash.Hash{
	SHA256:  sha256.New,
	SHA3256: sha3.New256,
	BLAKE2b: newBlake2b512,
	PM256:   NewPM256,
}

var aliases = map[string]Algorithm{
	"sha256":   SHA256,
	"sha-256":  SHA256,
	"sha3":     SHA3256,
	"sha3256":  SHA3256,
	"sha3-256": SHA3256,
	"blake2b":  BLAKE2b,
	"pm256":    PM256,
	"pm-256":   PM256,
}

// Unkeyed BLAKE2b with a 64 byte digest. New512 only fails for keys longer
// than 64 bytes.
func newBlake2b512() hash.Hash {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}
	return h
}

func NewPM256() hash.Hash {
	return pm256.New256()
}

// Resolve maps an algorithm to the one that will actually be used. Unknown
// identifiers resolve to Default and report false.
func Resolve(a Algorithm) (Algorithm, bool) {
	if _, ok := hashers[a]; ok {
		return a, true
	}
	return Default, false
}

// Parse is the strict counterpart of Resolve, for input coming from users.
func Parse(s string) (Algorithm, error) {
	if _, ok := hashers[Algorithm(s)]; ok {
		return Algorithm(s), nil
	}

	if a, ok := aliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
}

// Hash returns the lowercase hex digest of data. Unsupported algorithms fall
// back to Default, see Resolve.
func Hash(data []byte, a Algorithm) string {
	resolved, _ := Resolve(a)

	h := hashers[resolved]()
	h.Write(data)
	return common.EncodeToHex(h.Sum(nil))
}

// HexLen returns the length of the hex digest produced for a.
func HexLen(a Algorithm) int {
	resolved, _ := Resolve(a)
	return hashers[resolved]().Size() * 2
}

// MinHexLen returns the shortest hex digest length over all algorithms.
func MinHexLen() int {
	n := 0
	for _, a := range Algorithms() {
		if l := HexLen(a); n == 0 || l < n {
			n = l
		}
	}
	return n
}

func Algorithms() []Algorithm {
	algos := make([]Algorithm, 0, len(hashers))
	for a := range hashers {
		algos = append(algos, a)
	}
	sort.Slice(algos, func(i, j int) bool { return algos[i] < algos[j] })
	return algos
}

func (a Algorithm) String() string {
	return string(a)
}
