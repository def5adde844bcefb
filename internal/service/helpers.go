package service

import (
	"errors"

	appErrors "github.com/campus-labs/college-erp-api/pkg/errors"
)

func isNotFound(err error) bool {
	return errors.Is(err, appErrors.ErrNotFound)
}
