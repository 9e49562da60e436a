package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrSlotTaken reports a unique index violation on a timetable slot.
	ErrSlotTaken = errors.New("timetable slot already taken")
	// ErrUnknownReference reports a foreign key violation.
	ErrUnknownReference = errors.New("referenced record does not exist")
)

const (
	pqUniqueViolation     = pq.ErrorCode("23505")
	pqForeignKeyViolation = pq.ErrorCode("23503")
)

// translatePQError maps constraint violations to repository sentinels and keeps
// the driver error in the chain.
func translatePQError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return errors.Join(ErrSlotTaken, err)
	case pqForeignKeyViolation:
		return errors.Join(ErrUnknownReference, err)
	}
	return err
}
