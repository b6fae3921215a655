// Package model defines the block header and the rows persisted for verified headers.
package model

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/factorcore/pkg/bignum"
)

const (
	// FactorSize is the width in bytes of the serialized nP1 field.
	FactorSize = 128
	// HeaderSize is the length of a serialized header.
	HeaderSize = FactorSize + chainhash.HashSize*2 + 8 + 8 + 4 + 4 + 2
)

// Field offsets within a serialized header.
const (
	offPrevBlock  = FactorSize
	offMerkleRoot = offPrevBlock + chainhash.HashSize
	offNonce      = offMerkleRoot + chainhash.HashSize
	offWOffset    = offNonce + 8
	offVersion    = offWOffset + 8
	offTime       = offVersion + 4
	offBits       = offTime + 4
)

var (
	// ErrFactorTooWide is returned when nP1 needs more than 1024 bits.
	ErrFactorTooWide = errors.New("factor wider than 1024 bits")
	// ErrNegativeFactor is returned when nP1 is negative.
	ErrNegativeFactor = errors.New("negative factor")
	// ErrHeaderLength is returned when raw header bytes have the wrong size.
	ErrHeaderLength = errors.New("invalid header length")
)

// BlockHeader carries the fields covered by the factoring proof of work.
type BlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Time       uint32

	// Bits is the bit length of the semiprime the miner factored.
	Bits  uint16
	Nonce uint64

	// WOffset moves the hash-derived W to the submitted semiprime n = W + WOffset.
	WOffset int64

	// P1 is the smaller prime factor of n.
	P1 *big.Int
}

// Serialize writes the header in its fixed little-endian layout:
// nP1, prev, merkle, nonce, wOffset, version, time, bits.
func (h *BlockHeader) Serialize(w io.Writer) error {
	factor, err := h.factorBytes()
	if err != nil {
		return err
	}

	var buf [HeaderSize]byte
	copy(buf[:offPrevBlock], factor)
	copy(buf[offPrevBlock:offMerkleRoot], h.PrevBlock[:])
	copy(buf[offMerkleRoot:offNonce], h.MerkleRoot[:])
	binary.LittleEndian.PutUint64(buf[offNonce:offWOffset], h.Nonce)
	binary.LittleEndian.PutUint64(buf[offWOffset:offVersion], uint64(h.WOffset))
	binary.LittleEndian.PutUint32(buf[offVersion:offTime], uint32(h.Version))
	binary.LittleEndian.PutUint32(buf[offTime:offBits], h.Time)
	binary.LittleEndian.PutUint16(buf[offBits:], h.Bits)

	_, err = w.Write(buf[:])
	return err
}

// Deserialize reads a header written by Serialize.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	h.P1 = bignum.FromLE(buf[:offPrevBlock])
	copy(h.PrevBlock[:], buf[offPrevBlock:offMerkleRoot])
	copy(h.MerkleRoot[:], buf[offMerkleRoot:offNonce])
	h.Nonce = binary.LittleEndian.Uint64(buf[offNonce:offWOffset])
	h.WOffset = int64(binary.LittleEndian.Uint64(buf[offWOffset:offVersion]))
	h.Version = int32(binary.LittleEndian.Uint32(buf[offVersion:offTime]))
	h.Time = binary.LittleEndian.Uint32(buf[offTime:offBits])
	h.Bits = binary.LittleEndian.Uint16(buf[offBits:])
	return nil
}

// Bytes returns the serialized header.
func (h *BlockHeader) Bytes() ([]byte, error) {
	var b bytes.Buffer
	b.Grow(HeaderSize)
	if err := h.Serialize(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// BlockHash returns the double SHA-256 of the serialized header.
// Headers whose factor cannot be serialized hash to the zero hash.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	raw, err := h.Bytes()
	if err != nil {
		return chainhash.Hash{}
	}
	return chainhash.DoubleHashH(raw)
}

func (h *BlockHeader) factorBytes() ([]byte, error) {
	if h.P1 == nil {
		return make([]byte, FactorSize), nil
	}
	if h.P1.Sign() < 0 {
		return nil, ErrNegativeFactor
	}
	if h.P1.BitLen() > FactorSize*8 {
		return nil, fmt.Errorf("%w: %d bits", ErrFactorTooWide, h.P1.BitLen())
	}
	return bignum.ToFixedLE(h.P1, FactorSize)
}

// HeaderFromBytes decodes a serialized header.
func HeaderFromBytes(raw []byte) (*BlockHeader, error) {
	if len(raw) != HeaderSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrHeaderLength, len(raw), HeaderSize)
	}
	h := &BlockHeader{}
	if err := h.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return h, nil
}

// ParseHeaderHex decodes a hex encoded serialized header, as returned by getblockheader with verbose=false.
func ParseHeaderHex(s string) (*BlockHeader, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode header hex: %w", err)
	}
	return HeaderFromBytes(raw)
}
