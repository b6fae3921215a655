package pow

import "math/big"

const nextPrimeRounds = 25

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// NextPrime returns the smallest probable prime strictly greater than x.
func NextPrime(x *big.Int) *big.Int {
	if x.Cmp(bigTwo) < 0 {
		return big.NewInt(2)
	}
	c := new(big.Int).Add(x, bigOne)
	if c.Bit(0) == 0 {
		c.Add(c, bigOne)
	}
	for !c.ProbablyPrime(nextPrimeRounds) {
		c.Add(c, bigTwo)
	}
	return c
}

// IsProbablePrime runs rounds Miller-Rabin tests plus Baillie-PSW on n. Values below 2 are not prime.
func IsProbablePrime(n *big.Int, rounds int) bool {
	if n == nil || n.Sign() <= 0 {
		return false
	}
	return n.ProbablyPrime(rounds)
}
