package db

import (
	"time"
)

// Reading is one persisted uplink from a CreekLink flood node. Rows are
// append-only; ID and ReceivedAt are assigned by the database at insert
// time. Nil WaterLevelMM or BucketTips means the device did not report the
// field, which is distinct from reporting zero.
type Reading struct {
	ID           int64
	ReceivedAt   time.Time
	DeviceID     string
	WaterLevelMM *int32
	BucketTips   *int32
	RawPayload   []byte
}
