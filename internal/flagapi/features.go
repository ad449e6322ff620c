package flagapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mbuczko/flagrant/internal/common/httpx"
	"github.com/mbuczko/flagrant/internal/flagmodel"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

// FeatureValueWire is the `(value_type, text)` pair of §6's wire value encoding.
type FeatureValueWire struct {
	ValueType flagstore.ValueType `json:"value_type"`
	Value     string              `json:"value"`
}

// FeatureReq is the POST/PUT .../features request body of §6. Description is
// accepted on the wire but the Feature entity has no description field to
// persist it into (spec §3 does not list one).
type FeatureReq struct {
	Name        string            `json:"name"`
	Value       *FeatureValueWire `json:"value,omitempty"`
	Description string            `json:"description,omitempty"`
	IsEnabled   bool              `json:"is_enabled"`
}

func (req *FeatureReq) toModelValue() *flagmodel.FeatureValue {
	if req.Value == nil {
		return nil
	}
	return &flagmodel.FeatureValue{ValueType: req.Value.ValueType, Value: req.Value.Value}
}

func (a *API) createFeature(r *http.Request) (*httpx.Response, error) {
	envID, err := strconv.ParseInt(chi.URLParam(r, "env_id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid env_id")
	}
	var req FeatureReq
	if reqErr := httpx.GetRequestData(r, &req); reqErr != nil {
		return nil, reqErr
	}
	feature, _, createErr := a.model.FeatureCreate(r.Context(), envID, req.Name, req.toModelValue(), req.IsEnabled)
	if createErr != nil {
		return nil, createErr
	}
	return &httpx.Response{StatusCode: http.StatusCreated, Response: feature}, nil
}

func (a *API) updateFeature(r *http.Request) (*httpx.Response, error) {
	envID, err := strconv.ParseInt(chi.URLParam(r, "env_id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid env_id")
	}
	featureID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid feature id")
	}
	var req FeatureReq
	if reqErr := httpx.GetRequestData(r, &req); reqErr != nil {
		return nil, reqErr
	}
	feature, updateErr := a.model.FeatureUpdate(r.Context(), envID, featureID, req.Name, req.toModelValue(), req.IsEnabled)
	if updateErr != nil {
		return nil, updateErr
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: feature}, nil
}

func (a *API) deleteFeature(r *http.Request) (*httpx.Response, error) {
	featureID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid feature id")
	}
	if delErr := a.model.FeatureDelete(r.Context(), featureID); delErr != nil {
		return nil, delErr
	}
	return &httpx.Response{StatusCode: http.StatusOK}, nil
}

func (a *API) getFeature(r *http.Request) (*httpx.Response, error) {
	envID, err := strconv.ParseInt(chi.URLParam(r, "env_id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid env_id")
	}
	idOrName := chi.URLParam(r, "id_or_name")

	env, envErr := a.model.EnvironmentGetByID(r.Context(), envID)
	if envErr != nil {
		return nil, envErr
	}
	feature, getErr := a.model.FeatureGet(r.Context(), env.ProjectID, idOrName)
	if getErr != nil {
		return nil, getErr
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: feature}, nil
}

func (a *API) listFeatures(r *http.Request) (*httpx.Response, error) {
	envID, err := strconv.ParseInt(chi.URLParam(r, "env_id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid env_id")
	}
	env, envErr := a.model.EnvironmentGetByID(r.Context(), envID)
	if envErr != nil {
		return nil, envErr
	}
	q := r.URL.Query()
	features, listErr := a.model.FeatureList(r.Context(), env.ProjectID, q.Get("prefix"), q.Get("name"))
	if listErr != nil {
		return nil, listErr
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: features}, nil
}
