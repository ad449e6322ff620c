package flagapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mbuczko/flagrant/internal/common/httpx"
)

// ProjectCreateReq is the POST /projects request body. (expansion: spec.md's
// HTTP table starts from GET /projects/{id}; creation is implied by the
// Admin API's CRUD contract in §4.5.)
type ProjectCreateReq struct {
	Name string `json:"name"`
}

func (a *API) createProject(r *http.Request) (*httpx.Response, error) {
	var req ProjectCreateReq
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	project, err := a.model.ProjectCreate(r.Context(), req.Name)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusCreated, Response: project}, nil
}

func (a *API) getProject(r *http.Request) (*httpx.Response, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "project_id"), 10, 64)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("invalid project_id")
	}
	project, getErr := a.model.ProjectGet(r.Context(), id)
	if getErr != nil {
		return nil, getErr
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: project}, nil
}
