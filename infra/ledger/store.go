// Package ledger keeps a history of allocation runs. Each record carries the
// seniority offset that continues the rotation, so a later run can pick up
// where the previous one stopped.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/charterbid/core/allocation"
)

// ErrEmpty is returned by Last when the ledger holds no record.
var ErrEmpty = errors.New("ledger: no runs recorded")

// Record captures the outcome of one allocation run.
type Record struct {
	ID                  uuid.UUID `json:"id"`
	Timestamp           time.Time `json:"timestamp"`
	Offset              int       `json:"offset"`
	LastDriverID        string    `json:"last_driver_id,omitempty"`
	LastSeniorityNumber string    `json:"last_seniority_number,omitempty"`
	NextOffset          int       `json:"next_offset"`
	SeatsDeclared       int       `json:"seats_declared"`
	SeatsFilled         int       `json:"seats_filled"`
	SeatsOpen           int       `json:"seats_open"`
	Rounds              int       `json:"rounds"`
	Stop                string    `json:"stop"`
}

// NewRecord builds the record of res, a run started at offset. When nobody
// received a seat the next run starts at the same offset.
func NewRecord(res *allocation.Result, offset int, now time.Time) Record {
	rec := Record{
		ID:          uuid.New(),
		Timestamp:   now.UTC(),
		Offset:      offset,
		NextOffset:  offset,
		SeatsFilled: res.SeatsFilled(),
		SeatsOpen:   res.SeatsOpen(),
		Rounds:      res.Rounds,
		Stop:        res.Stop.String(),
	}
	for _, c := range res.Charters {
		rec.SeatsDeclared += c.Capacity
	}
	if last := res.LastAssigned; last != nil {
		rec.LastDriverID = string(last.DriverID)
		rec.LastSeniorityNumber = last.Seniority
		rec.NextOffset = last.NextOffset
	}
	return rec
}

// Query filters records by time. A zero Limit returns every match.
type Query struct {
	Since time.Time
	Until time.Time
	Limit int
}

func (q Query) match(r Record) bool {
	if !q.Since.IsZero() && r.Timestamp.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && r.Timestamp.After(q.Until) {
		return false
	}
	return true
}

// Store persists run records.
type Store interface {
	Append(ctx context.Context, rec Record) error
	// Query returns matching records oldest first.
	Query(ctx context.Context, q Query) ([]Record, error)
	// Last returns the most recent record or ErrEmpty.
	Last(ctx context.Context) (Record, error)
	Close() error
}
