package repository

import (
	"context"
	"errors"

	taxonomy "threadline/pkg/errors"

	"gorm.io/gorm"
)

// translate maps storage errors onto the shared taxonomy at the repository
// boundary. Timeouts become retryable; everything unexpected propagates
// unchanged so the caller can classify it as Internal.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return taxonomy.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return taxonomy.ErrUnavailable
	default:
		return err
	}
}

func clampPage(page, limit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
