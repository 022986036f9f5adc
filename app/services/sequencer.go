package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/shopadmin/app/repositories"
)

// Sequence is one reserved order identifier. At is the clock reading the
// day was taken from.
type Sequence struct {
	ID  string // YYYY-MM-DD-NNN
	Day string
	Seq int
	At  time.Time
}

// Sequencer hands out per-day order numbers. It holds no state of its own;
// the day's counter row is the reservation, and it must be bumped inside the
// transaction that inserts the order.
type Sequencer struct {
	now func() time.Time
	loc *time.Location
}

func NewSequencer(now func() time.Time, loc *time.Location) *Sequencer {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Sequencer{now: now, loc: loc}
}

// Day is today's date in the order time zone.
func (s *Sequencer) Day() string {
	return s.day(s.now())
}

func (s *Sequencer) day(t time.Time) string {
	return t.In(s.loc).Format(time.DateOnly)
}

// Next reserves the next identifier for today using tx, which must be bound
// to an open transaction. Errors wrap ErrSequencing; lock conflicts keep
// their driver cause so the caller can tell them apart and retry.
func (s *Sequencer) Next(ctx context.Context, tx *repositories.OrderRepository) (Sequence, error) {
	at := s.now()
	day := s.day(at)

	next, err := tx.BumpCounter(ctx, day)
	if err != nil {
		return Sequence{}, fmt.Errorf("%w: bump counter for %s: %w", ErrSequencing, day, err)
	}

	// Orders written before the counter existed still occupy their numbers.
	floor, err := tx.DayFloor(ctx, day)
	if err != nil {
		return Sequence{}, fmt.Errorf("%w: count orders for %s: %w", ErrSequencing, day, err)
	}
	if next <= floor {
		next = floor + 1
		if err := tx.RaiseCounter(ctx, day, next); err != nil {
			return Sequence{}, fmt.Errorf("%w: raise counter for %s: %w", ErrSequencing, day, err)
		}
	}

	return Sequence{ID: FormatOrderID(day, next), Day: day, Seq: next, At: at}, nil
}

// FormatOrderID renders day and seq as YYYY-MM-DD-NNN. Sequences past 999
// simply widen.
func FormatOrderID(day string, seq int) string {
	return fmt.Sprintf("%s-%03d", day, seq)
}
