package services

import (
	"errors"

	"github.com/oKhodus/spy-cat/internal/myerrors"
)

// notFound turns a repository not-found error into a client error naming the
// entity. Other errors pass through.
func notFound(err error, entity string, id int64) error {
	var reqErr *myerrors.RequestError
	if errors.As(err, &reqErr) {
		return err
	}
	if errors.Is(err, myerrors.ErrNotFound) {
		return myerrors.NotFound(entity, id)
	}
	return err
}
