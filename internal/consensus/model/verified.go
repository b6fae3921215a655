package model

import "time"

// HeaderStatus is the verdict recorded for a header.
type HeaderStatus string

var (
	// HeaderAccepted marks a header that passed every check.
	HeaderAccepted HeaderStatus = "accepted"
	// HeaderRejected marks a header that failed a check; Reason names which.
	HeaderRejected HeaderStatus = "rejected"
)

// VerifiedHeader is a header verdict persisted to ClickHouse.
type VerifiedHeader struct {
	Network    string
	Height     uint64
	Hash       string
	PrevHash   string
	Timestamp  time.Time
	Version    int32
	Bits       uint16
	Nonce      uint64
	WOffset    int64
	P1         string // canonical signed encoding, hex
	ChainWork  string
	Status     HeaderStatus
	Reason     string
	VerifiedAt time.Time
}
