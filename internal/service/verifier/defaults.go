package verifier

import "time"

const (
	defaultWorkerCount = 8
	defaultFetchBatch  = 500

	defaultPollInterval = 10 * time.Second
	minBackoff          = time.Second
	maxBackoff          = time.Minute

	defaultMaxReorgDepth int32 = 1000

	writeBatchSize     = 1000
	writeFlushInterval = 5 * time.Second
	writeRPS           = 10

	// maxFutureBlockTime is how far ahead of the local clock a header time may be.
	maxFutureBlockTime = 2 * time.Hour
)
