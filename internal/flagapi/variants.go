package flagapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mbuczko/flagrant/internal/common/httpx"
)

// VariantReq is the POST/PUT .../variants request body of §6.
type VariantReq struct {
	Value  string `json:"value"`
	Weight int    `json:"weight"`
}

func (a *API) createVariant(r *http.Request) (*httpx.Response, error) {
	envID, err := strconv.ParseInt(chi.URLParam(r, "env_id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid env_id")
	}
	featureID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid feature id")
	}
	var req VariantReq
	if reqErr := httpx.GetRequestData(r, &req); reqErr != nil {
		return nil, reqErr
	}
	variant, createErr := a.model.StandardVariantCreate(r.Context(), envID, featureID, req.Value, req.Weight)
	if createErr != nil {
		return nil, createErr
	}
	return &httpx.Response{StatusCode: http.StatusCreated, Response: variant}, nil
}

func (a *API) listVariants(r *http.Request) (*httpx.Response, error) {
	envID, err := strconv.ParseInt(chi.URLParam(r, "env_id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid env_id")
	}
	featureID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid feature id")
	}
	variants, listErr := a.model.VariantList(r.Context(), featureID, envID)
	if listErr != nil {
		return nil, listErr
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: variants}, nil
}

func (a *API) getVariant(r *http.Request) (*httpx.Response, error) {
	envID, err := strconv.ParseInt(chi.URLParam(r, "env_id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid env_id")
	}
	variantID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid variant id")
	}
	variant, getErr := a.model.VariantGet(r.Context(), envID, variantID)
	if getErr != nil {
		return nil, getErr
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: variant}, nil
}

func (a *API) updateVariant(r *http.Request) (*httpx.Response, error) {
	envID, err := strconv.ParseInt(chi.URLParam(r, "env_id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid env_id")
	}
	variantID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid variant id")
	}
	var req VariantReq
	if reqErr := httpx.GetRequestData(r, &req); reqErr != nil {
		return nil, reqErr
	}
	variant, updateErr := a.model.StandardVariantUpdate(r.Context(), envID, variantID, req.Value, req.Weight)
	if updateErr != nil {
		return nil, updateErr
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: variant}, nil
}

func (a *API) deleteVariant(r *http.Request) (*httpx.Response, error) {
	envID, err := strconv.ParseInt(chi.URLParam(r, "env_id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid env_id")
	}
	variantID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid variant id")
	}
	if delErr := a.model.VariantDelete(r.Context(), envID, variantID); delErr != nil {
		return nil, delErr
	}
	return &httpx.Response{StatusCode: http.StatusOK}, nil
}
