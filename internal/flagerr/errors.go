// Package flagerr defines the error taxonomy shared by the store, model and API
// layers. It builds on apperrors the same way the teacher's dberror package builds
// its vocabulary: a root kind per HTTP status, and more specific kinds chained off it
// with New so errors.Is matches against any ancestor in the chain.
package flagerr

import (
	"net/http"

	"github.com/mbuczko/flagrant/internal/common/apperrors"
)

var (
	// ErrStoreUnavailable marks a transient store failure. The surrounding
	// transaction is guaranteed to have rolled back.
	ErrStoreUnavailable apperrors.Error = apperrors.New("store unavailable").SetStatusCode(http.StatusInternalServerError)

	// ErrInternal marks a bug: anything not anticipated by the taxonomy below.
	ErrInternal apperrors.Error = apperrors.New("internal error").SetStatusCode(http.StatusInternalServerError)

	// ErrNotFound marks a missing project, environment, feature or variant.
	ErrNotFound apperrors.Error = apperrors.New("not found").SetStatusCode(http.StatusNotFound)

	// ErrNoValue marks a feature with no control variant in the target environment.
	ErrNoValue apperrors.Error = apperrors.New("feature has no value in this environment").SetStatusCode(http.StatusNotFound)

	// ErrBadRequest is the root of every caller-correctable invariant breach.
	ErrBadRequest apperrors.Error = apperrors.New("bad request").SetStatusCode(http.StatusBadRequest)

	// ErrNameInvalid marks a feature or environment name that fails the naming rule.
	ErrNameInvalid apperrors.Error = ErrBadRequest.New("invalid name").SetStatusCode(http.StatusBadRequest)

	// ErrNameTaken marks a name collision within a project.
	ErrNameTaken apperrors.Error = ErrBadRequest.New("name already in use").SetStatusCode(http.StatusBadRequest)

	// ErrWeightOutOfRange marks a weight outside [0, 100].
	ErrWeightOutOfRange apperrors.Error = ErrBadRequest.New("weight out of range").SetStatusCode(http.StatusBadRequest)

	// ErrWeightExceeded marks a standard variant weight that would push the
	// environment's non-control weight sum past 100.
	ErrWeightExceeded apperrors.Error = ErrBadRequest.New("weight exceeds 100 for this environment").SetStatusCode(http.StatusBadRequest)

	// ErrNoDefaultValue marks an attempt to add a standard variant before a
	// control variant exists for the environment.
	ErrNoDefaultValue apperrors.Error = ErrBadRequest.New("feature has no default value in this environment").SetStatusCode(http.StatusBadRequest)

	// ErrControlVariantImmutable marks an attempt to update a control variant
	// through the variant-update path.
	ErrControlVariantImmutable apperrors.Error = ErrBadRequest.New("control variant cannot be updated directly").SetStatusCode(http.StatusBadRequest)

	// ErrControlHasDependents marks an attempt to delete a control variant while
	// standard variants of the same feature still exist.
	ErrControlHasDependents apperrors.Error = ErrBadRequest.New("control variant has standard variants depending on it").SetStatusCode(http.StatusBadRequest)
)
