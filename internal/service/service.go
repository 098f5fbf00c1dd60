// Package service holds the orchestration layer. Services validate input,
// enforce authorization and domain rules, drive the repositories, and fan
// domain events out through the notifier. Each service declares the narrow
// interfaces it consumes.
package service

import (
	"errors"

	"github.com/yugash007/nexel-api/internal/store"
	appErrors "github.com/yugash007/nexel-api/pkg/errors"
)

// mapReadError converts a store lookup failure into the API error taxonomy.
func mapReadError(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMsg)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internalMsg)
}
