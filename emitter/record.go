package emitter

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	// RecordName is the name carried by every emitted record.
	RecordName = "example"
	// RecordValue is the value carried by every emitted record.
	RecordValue Float = 250.0
)

// Record is the synthetic message published on every tick.
type Record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Value     Float  `json:"value"`
	Timestamp int64  `json:"timestamp"`
}

// NewRecord builds the record for the given sequence number, stamped with
// now in Unix milliseconds.
func NewRecord(id uint64, now time.Time) Record {
	return Record{
		ID:        strconv.FormatUint(id, 10),
		Name:      RecordName,
		Value:     RecordValue,
		Timestamp: now.UnixNano() / int64(time.Millisecond),
	}
}

// Float is a float64 that always encodes with a fractional part, so
// 250 goes on the wire as 250.0.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return nil, fmt.Errorf("unsupported float value %v", float64(f))
	}
	b := strconv.AppendFloat(nil, float64(f), 'f', -1, 64)
	for _, c := range b {
		if c == '.' {
			return b, nil
		}
	}
	return append(b, '.', '0'), nil
}

// Sequence hands out record ids. The zero value starts at 1.
type Sequence struct {
	n uint64
}

// Next advances the sequence and returns the new id.
func (s *Sequence) Next() uint64 {
	s.n++
	return s.n
}
