// Package flagapi implements the Evaluation and Admin HTTP surfaces of §6,
// translating chi path/body parameters into flagmodel calls and typed errors
// into HTTP responses, grounded on the teacher's apis package and its
// httpx.WrapHttpRsp handler shape.
package flagapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mbuczko/flagrant/internal/common/httpx"
	"github.com/mbuczko/flagrant/internal/flagerr"
	"github.com/mbuczko/flagrant/internal/flagmetrics"
	"github.com/mbuczko/flagrant/internal/flagmodel"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

// FeatureValueRsp is the wire shape of §6's evaluation response.
type FeatureValueRsp struct {
	ValueType flagstore.ValueType `json:"value_type"`
	Value     string              `json:"value"`
}

// API bundles a flagmodel.Service for the Admin/Evaluation handlers to close
// over, the way the teacher's apis handlers close over a resource manager
// factory.
type API struct {
	model *flagmodel.Service
}

// New wraps a Service into an API.
func New(model *flagmodel.Service) *API {
	return &API{model: model}
}

func recordEvalOutcome(timer *flagmetrics.Timer, outcome string) {
	flagmetrics.EvaluationsTotal.WithLabelValues(outcome).Inc()
	timer.ObserveDurationVec(flagmetrics.EvaluationDuration, outcome)
}

// evaluate implements spec §4.4: GET /api/v1/envs/{env_id}/ident/{ident}/features/{name}.
// ident identifies the caller for request tracing; the distributor itself is
// stateless per (feature, environment) and does not hash on identity.
func (a *API) evaluate(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	timer := flagmetrics.NewTimer()

	envID, parseErr := strconv.ParseInt(chi.URLParam(r, "env_id"), 10, 64)
	if parseErr != nil {
		return nil, httpx.ErrInvalidRequest("invalid env_id")
	}
	name := chi.URLParam(r, "name")
	ident := chi.URLParam(r, "ident")
	log.Ctx(ctx).Debug().Str("ident", ident).Str("feature", name).Int64("env_id", envID).Msg("evaluating feature")

	env, envErr := a.model.EnvironmentGetByID(ctx, envID)
	if envErr != nil {
		recordEvalOutcome(timer, "not_found")
		return nil, envErr
	}

	feature, featErr := a.model.FeatureGet(ctx, env.ProjectID, name)
	if featErr != nil {
		recordEvalOutcome(timer, "not_found")
		return nil, featErr
	}

	value, kind, evalErr := a.model.Evaluate(ctx, envID, feature.ID, feature.IsEnabled)
	if evalErr != nil {
		outcome := "error"
		if errors.Is(evalErr, flagerr.ErrNoValue) {
			outcome = "no_value"
		}
		recordEvalOutcome(timer, outcome)
		return nil, evalErr
	}

	flagmetrics.VariantHitsTotal.WithLabelValues(feature.Name, kind).Inc()
	recordEvalOutcome(timer, "ok")

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: &FeatureValueRsp{
			ValueType: feature.ValueType,
			Value:     value,
		},
	}, nil
}
