package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/jessevdk/go-flags"

	"github.com/goodnatureofminers/factorcore/internal/consensus/chain"
	"github.com/goodnatureofminers/factorcore/internal/consensus/model"
	"github.com/goodnatureofminers/factorcore/internal/consensus/params"
	"github.com/goodnatureofminers/factorcore/internal/consensus/pow"
	"github.com/goodnatureofminers/factorcore/pkg/bignum"
)

var (
	errRejected = errors.New("proof of work rejected")
	errNoFactor = errors.New("no two-prime factorization found")
)

func newParser(out io.Writer) *flags.Parser {
	parser := flags.NewParser(nil, flags.Default)
	mustAdd(parser.AddCommand("ghash", "Derive W from a header",
		"Prints the hash-derived integer W for a serialized header.", &ghashCommand{out: out}))
	mustAdd(parser.AddCommand("check", "Check a header's proof of work",
		"Runs every proof-of-work check on a serialized header and prints the verdict.", &checkCommand{out: out}))
	mustAdd(parser.AddCommand("factor", "Factor a semiprime",
		"Splits a decimal integer into two primes with Pollard's rho.", &factorCommand{out: out}))
	mustAdd(parser.AddCommand("work", "Work credited to a factor size",
		"Prints the block work credited for a smaller factor of the given bit length.", &workCommand{out: out}))
	mustAdd(parser.AddCommand("encode", "Encode an integer",
		"Prints the canonical signed little-endian encoding of a decimal integer.", &encodeCommand{out: out}))
	mustAdd(parser.AddCommand("decode", "Decode an integer",
		"Parses a signed little-endian encoding and prints the decimal value.", &decodeCommand{out: out}))
	return parser
}

func mustAdd(_ *flags.Command, err error) {
	if err != nil {
		panic(err)
	}
}

type ghashCommand struct {
	out io.Writer

	Network string `long:"network" short:"n" env:"POWTOOL_NETWORK" default:"mainnet" description:"network parameters"`
	Args    struct {
		Header string `positional-arg-name:"header-hex" required:"yes"`
	} `positional-args:"yes"`
}

func (c *ghashCommand) Execute([]string) error {
	h, p, err := parseHeader(c.Args.Header, c.Network)
	if err != nil {
		return err
	}
	if h.Bits == 0 || h.Bits >= pow.MaxBits {
		return fmt.Errorf("%w: %d", pow.ErrBitsOutOfRange, h.Bits)
	}
	w := pow.GHash(h, p.HashRounds)
	fmt.Fprintf(c.out, "hash: %s\n", h.BlockHash())
	fmt.Fprintf(c.out, "bits: %d\n", h.Bits)
	fmt.Fprintf(c.out, "W:    %s\n", w.Text(16))
	return nil
}

type checkCommand struct {
	out io.Writer

	Network string `long:"network" short:"n" env:"POWTOOL_NETWORK" default:"mainnet" description:"network parameters"`
	Args    struct {
		Header string `positional-arg-name:"header-hex" required:"yes"`
	} `positional-args:"yes"`
}

func (c *checkCommand) Execute([]string) error {
	h, p, err := parseHeader(c.Args.Header, c.Network)
	if err != nil {
		return err
	}
	proof, err := pow.EvaluateProofOfWork(h, p)
	fmt.Fprintf(c.out, "hash:   %s\n", h.BlockHash())
	printIfSet(c.out, "W:     ", proof.W)
	printIfSet(c.out, "n:     ", proof.N)
	printIfSet(c.out, "p1:    ", proof.P1)
	printIfSet(c.out, "p2:    ", proof.P2)
	fmt.Fprintf(c.out, "reason: %s\n", pow.RejectReason(err))
	if err != nil {
		return fmt.Errorf("%w: %w", errRejected, err)
	}
	return nil
}

type factorCommand struct {
	out io.Writer

	Args struct {
		N string `positional-arg-name:"n" required:"yes"`
	} `positional-args:"yes"`
}

func (c *factorCommand) Execute([]string) error {
	n, ok := new(big.Int).SetString(c.Args.N, 10)
	if !ok {
		return fmt.Errorf("not a decimal integer: %q", c.Args.N)
	}
	g, prime := pow.Rho(n)
	if g == nil || !prime {
		return fmt.Errorf("%w: %s", errNoFactor, n)
	}
	p1, p2 := g, new(big.Int).Quo(n, g)
	if p1.Cmp(p2) > 0 {
		p1, p2 = p2, p1
	}
	fmt.Fprintf(c.out, "p1: %s (%d bits)\n", p1, p1.BitLen())
	fmt.Fprintf(c.out, "p2: %s (%d bits)\n", p2, p2.BitLen())
	return nil
}

type workCommand struct {
	out io.Writer

	Bits int `long:"bits" short:"b" required:"yes" description:"bit length of the smaller factor"`
}

func (c *workCommand) Execute([]string) error {
	if c.Bits < 0 {
		return fmt.Errorf("bits must not be negative: %d", c.Bits)
	}
	fmt.Fprintln(c.out, chain.WorkForFactorBits(c.Bits))
	return nil
}

type encodeCommand struct {
	out io.Writer

	Args struct {
		Value string `positional-arg-name:"value" required:"yes"`
	} `positional-args:"yes"`
}

func (c *encodeCommand) Execute([]string) error {
	v, ok := new(big.Int).SetString(c.Args.Value, 10)
	if !ok {
		return fmt.Errorf("not a decimal integer: %q", c.Args.Value)
	}
	fmt.Fprintln(c.out, hex.EncodeToString(bignum.Encode(v)))
	return nil
}

type decodeCommand struct {
	out io.Writer

	Args struct {
		Encoded string `positional-arg-name:"hex" required:"yes"`
	} `positional-args:"yes"`
}

func (c *decodeCommand) Execute([]string) error {
	raw, err := hex.DecodeString(c.Args.Encoded)
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}
	v, err := bignum.Decode(raw)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, v)
	return nil
}

func parseHeader(raw, network string) (*model.BlockHeader, *params.Params, error) {
	p, err := params.ForNetwork(network)
	if err != nil {
		return nil, nil, err
	}
	h, err := model.ParseHeaderHex(raw)
	if err != nil {
		return nil, nil, err
	}
	return h, p, nil
}

func printIfSet(out io.Writer, label string, v *big.Int) {
	if v != nil {
		fmt.Fprintf(out, "%s %s\n", label, v.Text(16))
	}
}
