package flagapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mbuczko/flagrant/internal/common/httpx"
)

// EnvironmentCreateReq is the POST .../envs request body of §6.
type EnvironmentCreateReq struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (a *API) createEnvironment(r *http.Request) (*httpx.Response, error) {
	projectID, err := strconv.ParseInt(chi.URLParam(r, "project_id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid project_id")
	}
	var req EnvironmentCreateReq
	if reqErr := httpx.GetRequestData(r, &req); reqErr != nil {
		return nil, reqErr
	}
	env, createErr := a.model.EnvironmentCreate(r.Context(), projectID, req.Name, req.Description)
	if createErr != nil {
		return nil, createErr
	}
	return &httpx.Response{StatusCode: http.StatusCreated, Response: env}, nil
}

func (a *API) getEnvironment(r *http.Request) (*httpx.Response, error) {
	projectID, err := strconv.ParseInt(chi.URLParam(r, "project_id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid project_id")
	}
	idOrName := chi.URLParam(r, "env_id_or_name")
	env, getErr := a.model.EnvironmentGet(r.Context(), projectID, idOrName)
	if getErr != nil {
		return nil, getErr
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: env}, nil
}

func (a *API) listEnvironments(r *http.Request) (*httpx.Response, error) {
	projectID, err := strconv.ParseInt(chi.URLParam(r, "project_id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid project_id")
	}
	q := r.URL.Query()
	envs, listErr := a.model.EnvironmentList(r.Context(), projectID, q.Get("prefix"), q.Get("name"))
	if listErr != nil {
		return nil, listErr
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: envs}, nil
}
