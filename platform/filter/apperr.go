package filter

import (
	"errors"

	"motormarket_backend/platform/apperr"
)

// AsAppError turns a rejected criterion into an apperr validation error that
// names the field. Other errors are returned unchanged.
func AsAppError(err error) error {
	var fe *Error
	if !errors.As(err, &fe) {
		return err
	}
	return apperr.Wrap(apperr.KindValidation, fe.Error(), err).
		WithDetails(map[string]string{"field": fe.Field, "reason": fe.Reason})
}
