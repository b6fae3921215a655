package pow

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"math/bits"

	"github.com/jzelinskie/whirlpool"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/crypto/sha3"

	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
	"github.com/goodnatureofminers/factorcore/pkg/bignum"
)

const (
	scryptN = 1 << 12
	scryptR = 2
	scryptP = 1

	digestSize = 256
	halfSize   = digestSize / 2

	// MaxBits bounds the semiprime size a header may claim.
	MaxBits = 1024
)

// GHash derives the seed W from the header fields. W has exactly h.Bits bits.
// It panics when h.Bits is zero or not below MaxBits.
func GHash(h *model.BlockHeader, hashRounds int) *big.Int {
	if h.Bits == 0 || h.Bits >= MaxBits {
		panic(fmt.Sprintf("pow: gHash for %d bits", h.Bits))
	}

	var pass [32 + 32 + 8]byte
	copy(pass[0:32], h.PrevBlock[:])
	copy(pass[32:64], h.MerkleRoot[:])
	binary.LittleEndian.PutUint64(pass[64:72], h.Nonce)

	var salt [4 + 2 + 4]byte
	binary.LittleEndian.PutUint32(salt[0:4], uint32(h.Version))
	binary.LittleEndian.PutUint16(salt[4:6], h.Bits)
	binary.LittleEndian.PutUint32(salt[6:10], h.Time)

	digest := derive(pass[:], salt[:])
	for round := 0; round < hashRounds; round++ {
		digest = derive(digest, salt[:])
		hashHalves(digest)
		mix(digest)
	}

	return truncate(digest, uint(h.Bits))
}

func derive(password, salt []byte) []byte {
	out, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, digestSize)
	if err != nil {
		panic(fmt.Sprintf("pow: scrypt: %v", err))
	}
	return out
}

// hashHalves replaces the first 64 bytes of each 128-byte half with BLAKE2b-512 of the half
// when its popcount is even and SHA3-512 when odd.
func hashHalves(d []byte) {
	for _, half := range [][]byte{d[:halfSize], d[halfSize:]} {
		var sum [64]byte
		if popcount(half)%2 == 0 {
			sum = blake2b.Sum512(half)
		} else {
			sum = sha3.Sum512(half)
		}
		copy(half, sum[:])
	}
}

// mix folds a^-1 mod p into the digest, where a = isqrt(M), p = nextprime(isqrt(a)) and M is
// the digest as a little-endian integer, then runs popcount(a^-1)&0x7f branch rounds.
func mix(d []byte) {
	m := bignum.FromLE(d)
	a := new(big.Int).Sqrt(m)
	p := NextPrime(new(big.Int).Sqrt(a))

	inv := new(big.Int)
	if inv.ModInverse(a, p) == nil {
		inv.SetInt64(0)
	}

	// limbs mirrors a 64-bit word export buffer: each export rewrites only the words the
	// value occupies, higher words keep what the previous export left.
	var limbs [digestSize]byte
	exportWords(limbs[:], inv)
	xorInto(d, limbs[:])

	rounds := popcount(limbs[:]) & 0x7f
	exp := big.NewInt(int64(rounds))
	for i := 0; i < rounds; i++ {
		branch := popcount(d[:8]) % 3

		inv.Exp(inv, exp, p)
		exportWords(limbs[:], inv)
		xorInto(d, limbs[:])

		switch branch {
		case 0:
			sum := sha3.Sum512(d[:128])
			copy(d[0:64], sum[:])
		case 2:
			sum := blake2b.Sum512(d[128:256])
			copy(d[192:256], sum[:])
		default:
			w := whirlpool.New()
			_, _ = w.Write(d)
			copy(d[112:176], w.Sum(nil))
		}
	}
}

func truncate(d []byte, n uint) *big.Int {
	w := bignum.FromLE(d[:MaxBits/8])
	mask := new(big.Int).Lsh(big.NewInt(1), n)
	mask.Sub(mask, big.NewInt(1))
	w.And(w, mask)
	return w.SetBit(w, int(n-1), 1)
}

func exportWords(buf []byte, v *big.Int) {
	be := v.Bytes()
	size := (len(be) + 7) / 8 * 8
	if size > len(buf) {
		panic("pow: export exceeds digest")
	}
	clear(buf[:size])
	for i, b := range be {
		buf[len(be)-1-i] = b
	}
}

func xorInto(dst, src []byte) {
	for i := range src {
		dst[i] ^= src[i]
	}
}

func popcount(b []byte) int {
	n := 0
	for len(b) >= 8 {
		n += bits.OnesCount64(binary.LittleEndian.Uint64(b))
		b = b[8:]
	}
	for _, v := range b {
		n += bits.OnesCount8(v)
	}
	return n
}
