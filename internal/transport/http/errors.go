package http

import (
	"context"
	"errors"

	"feargreed/internal/config"
	apierrors "feargreed/internal/errors"
	"feargreed/internal/services"
	"feargreed/internal/sources"
)

// serviceError maps dashboard service errors onto API errors. Errors it does
// not know are returned unchanged and end up as 500s.
func serviceError(err error, chart string) error {
	var loadErr *sources.LoadError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, services.ErrNotLoaded):
		return apierrors.DataUnavailableError(config.LoadErrorMessage)
	case errors.Is(err, services.ErrUnknownChart):
		return apierrors.NotFoundError("chart " + chart)
	case errors.Is(err, services.ErrUnknownOverlay):
		return apierrors.ErrValidation("overlays", err.Error())
	case errors.Is(err, services.ErrInvalidPeriod):
		return apierrors.ErrValidation("period", err.Error())
	case errors.As(err, &loadErr):
		return apierrors.SourceLoadError(config.LoadErrorMessage, err)
	}
	return err
}
