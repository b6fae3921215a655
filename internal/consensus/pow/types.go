package pow

import "time"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// Metrics records proof-of-work verdicts.
type Metrics interface {
	ObserveCheck(reason string, started time.Time)
}
