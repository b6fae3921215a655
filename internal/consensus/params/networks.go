package params

import (
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
)

const (
	twoWeeks      = 14 * 24 * 60 * 60
	thirtyMinutes = 30 * 60

	millerRabinRounds = 50
)

// genesisMerkleRoot is shared by every network: the genesis coinbase is identical.
var genesisMerkleRoot = mustHash("fe56b75eb001df55cfe63e768ff54a7a376a3108119c9cedd1c6b5045649b108")

// MainNet is the production network.
var MainNet = Params{
	Network:           "mainnet",
	PowLimit:          230,
	TargetSpacing:     thirtyMinutes,
	TargetTimespan:    twoWeeks,
	MillerRabinRounds: millerRabinRounds,
	HashRounds:        1,
	MinimumChainWork:  big.NewInt(0x10a8),
	GenesisHash:       mustHash("79cb40f8075b0e3dc2bc468c5ce2a7acbe0afd36c6c3d3a134ea692edac7de49"),
	Genesis:           genesis(1650449340, 4081969520, 230, 2375, "5b541e0fc53ad9c40daa99c31c17b"),
	DefaultPort:       "30030",
}

// TestNet allows minimum difficulty blocks after a stall and retargets daily.
var TestNet = Params{
	Network:                  "testnet",
	PowLimit:                 210,
	TargetSpacing:            5 * 60,
	TargetTimespan:           24 * 60 * 60,
	AllowMinDifficultyBlocks: true,
	MillerRabinRounds:        millerRabinRounds,
	HashRounds:               1,
	MinimumChainWork:         big.NewInt(0x10a8),
	GenesisHash:              mustHash("550bbf0a444d9f92189f067dd225f5b8a5d92587ebc2e8398d143236072580af"),
	Genesis:                  genesis(1650442708, 4143631544, 210, -2813, "166ad939aed84a268f7c2ae4f5d"),
	DefaultPort:              "42069",
}

// SigNet carries no genesis checkpoint: each signet derives its own.
var SigNet = Params{
	Network:           "signet",
	PowLimit:          32,
	TargetSpacing:     thirtyMinutes,
	TargetTimespan:    twoWeeks,
	MillerRabinRounds: millerRabinRounds,
	HashRounds:        1,
	MinimumChainWork:  big.NewInt(0),
	DefaultPort:       "38333",
}

// RegTest never retargets.
var RegTest = Params{
	Network:                  "regtest",
	PowLimit:                 32,
	TargetSpacing:            thirtyMinutes,
	TargetTimespan:           twoWeeks,
	AllowMinDifficultyBlocks: true,
	NoRetargeting:            true,
	MillerRabinRounds:        millerRabinRounds,
	HashRounds:               1,
	MinimumChainWork:         big.NewInt(0),
	GenesisHash:              mustHash("38039464f800f026086985e81e6af3ceb35c2b93f042d79ab637d692eb002136"),
	Genesis:                  genesis(1650443545, 2706135317, 32, 254, "b5ff"),
	DefaultPort:              "18444",
}

var networks = map[string]*Params{
	MainNet.Network: &MainNet,
	TestNet.Network: &TestNet,
	SigNet.Network:  &SigNet,
	RegTest.Network: &RegTest,
}

func genesis(time uint32, nonce uint64, bits uint16, offset int64, p1Hex string) model.BlockHeader {
	p1, ok := new(big.Int).SetString(p1Hex, 16)
	if !ok {
		panic("params: bad genesis factor " + p1Hex)
	}
	return model.BlockHeader{
		Version:    0,
		MerkleRoot: genesisMerkleRoot,
		Time:       time,
		Bits:       bits,
		Nonce:      nonce,
		WOffset:    offset,
		P1:         p1,
	}
}

func mustHash(s string) chainhash.Hash {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		panic(err)
	}
	return *h
}
