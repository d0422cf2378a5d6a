package flakeid

import (
	"strconv"
	"sync"
	"time"
)

// ID layout, high to low:
// Timestamp (41 bits, ms since epoch)
// Node ID (11 bits)
// Increment (12 bits)

const Epoch int64 = 1640995200000 // 2022-01-01 12am GMT

const (
	nodeIdBits    = 11
	incrementBits = 12

	maxIncrement = (1 << incrementBits) - 1
)

var nodeId int64

var incrementLock = sync.Mutex{}
var incrementTs int64 = 0
var increment int64 = 0

func Init(id string) error {
	var err error
	nodeId, err = strconv.ParseInt(id, 10, 64)
	return err
}

// Next returns a fresh k-sortable id rendered as a decimal string, the shape
// the platform mints server-side.
func Next() string {
	incrementLock.Lock()
	defer incrementLock.Unlock()

	ts := time.Now().UnixMilli()
	if incrementTs != ts {
		incrementTs = ts
		increment = 0
	} else if increment >= maxIncrement {
		// Increment space for this millisecond is exhausted, wait it out.
		for time.Now().UnixMilli() == ts {
		}
		incrementTs = time.Now().UnixMilli()
		increment = 0
		ts = incrementTs
	} else {
		increment += 1
	}

	id := (ts - Epoch) << (nodeIdBits + incrementBits)
	id |= nodeId << incrementBits
	id |= increment

	return strconv.FormatInt(id, 10)
}

// Timestamp extracts the millisecond creation time embedded in an id.
func Timestamp(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, false
	}
	return (n >> (nodeIdBits + incrementBits)) + Epoch, true
}
