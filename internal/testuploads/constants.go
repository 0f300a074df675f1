package testuploads

import "time"

// HTTP status code constants.
const (
	StatusOK          = 200
	StatusConflict    = 409
	StatusTooMany     = 429
	StatusUnsupported = 415
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	BusyRetryLimit       = 5
	BusyRetryDelay       = 250 * time.Millisecond
	PercentageMultiplier = 100
)
