package service

import (
	"errors"

	dErrors "yojanamitra/pkg/domain-errors"
	"yojanamitra/pkg/platform/sentinel"
)

func translateSelectionErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "no scheme selected")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load selected scheme")
}
