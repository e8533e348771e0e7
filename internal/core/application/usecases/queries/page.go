package queries

import (
	"errors"
	"fmt"
)

const (
	// DefaultPageLimit is used when a caller does not ask for a page size.
	DefaultPageLimit = 50

	// MaxPageLimit caps the page size of list queries.
	MaxPageLimit = 500
)

var (
	ErrLimitIsOutOfRange = fmt.Errorf("limit must be between 1 and %d", MaxPageLimit)
	ErrOffsetIsNegative  = errors.New("offset must not be negative")
)

type page struct {
	limit  int
	offset int
}

func newPage(limit, offset int) (page, error) {
	var errs []error
	if limit < 1 || limit > MaxPageLimit {
		errs = append(errs, ErrLimitIsOutOfRange)
	}
	if offset < 0 {
		errs = append(errs, ErrOffsetIsNegative)
	}
	if len(errs) > 0 {
		return page{}, errors.Join(errs...)
	}
	return page{limit: limit, offset: offset}, nil
}
