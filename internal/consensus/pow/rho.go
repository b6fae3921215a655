package pow

import "math/big"

const (
	rhoInputRounds  = 25
	rhoFactorRounds = 30

	// rhoSeeds bounds how many starting points are tried when a cycle closes on n itself.
	rhoSeeds = 16
)

// Rho looks for a factorization of n into two primes with Pollard's rho over z^2 + 1.
// It returns the factor found and whether both it and its cofactor are prime.
// Primes and values below 4 report no factor.
func Rho(n *big.Int) (*big.Int, bool) {
	if n == nil || n.Cmp(big.NewInt(4)) < 0 || IsProbablePrime(n, rhoInputRounds) {
		return nil, false
	}
	if n.Bit(0) == 0 {
		return split(n, big.NewInt(2))
	}

	for seed := int64(2); seed < 2+rhoSeeds; seed++ {
		if g := floyd(n, seed); g.Cmp(n) != 0 {
			return split(n, g)
		}
	}
	return nil, false
}

// RhoUint64 is Rho for machine-sized inputs.
func RhoUint64(n uint64) (uint64, bool) {
	g, ok := Rho(new(big.Int).SetUint64(n))
	if g == nil {
		return 0, false
	}
	return g.Uint64(), ok
}

// floyd runs the tortoise and hare from seed until gcd(x-y, n) leaves 1.
func floyd(n *big.Int, seed int64) *big.Int {
	x := big.NewInt(seed)
	y := big.NewInt(seed)
	g := big.NewInt(1)
	diff := new(big.Int)
	for g.Cmp(bigOne) == 0 {
		step(x, n)
		step(y, n)
		step(y, n)
		diff.Sub(x, y)
		g.GCD(nil, nil, diff.Abs(diff), n)
	}
	return g
}

// step advances z to z^2 + 1 mod n.
func step(z, n *big.Int) {
	z.Mul(z, z)
	z.Add(z, bigOne)
	z.Mod(z, n)
}

func split(n, g *big.Int) (*big.Int, bool) {
	cofactor := new(big.Int).Quo(n, g)
	return g, IsProbablePrime(g, rhoFactorRounds) && IsProbablePrime(cofactor, rhoFactorRounds)
}
