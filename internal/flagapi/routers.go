package flagapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mbuczko/flagrant/internal/common/httpx"
)

// handlerRoute pairs one HTTP verb and path with its handler, the same shape
// the teacher's apis.Router iterates over (minus the auth/policy fields,
// which spec.md's Non-goals place out of core scope).
type handlerRoute struct {
	Method  string
	Path    string
	Handler httpx.RequestHandler
}

// AdminRouter mounts the Admin API of §6 under r.
func (a *API) AdminRouter(r chi.Router) chi.Router {
	routes := []handlerRoute{
		{Method: http.MethodPost, Path: "/projects", Handler: a.createProject},
		{Method: http.MethodGet, Path: "/projects/{project_id}", Handler: a.getProject},
		{Method: http.MethodPost, Path: "/projects/{project_id}/envs", Handler: a.createEnvironment},
		{Method: http.MethodGet, Path: "/projects/{project_id}/envs", Handler: a.listEnvironments},
		{Method: http.MethodGet, Path: "/projects/{project_id}/envs/{env_id_or_name}", Handler: a.getEnvironment},
		{Method: http.MethodPost, Path: "/envs/{env_id}/features", Handler: a.createFeature},
		{Method: http.MethodGet, Path: "/envs/{env_id}/features", Handler: a.listFeatures},
		{Method: http.MethodGet, Path: "/envs/{env_id}/features/{id_or_name}", Handler: a.getFeature},
		{Method: http.MethodPut, Path: "/envs/{env_id}/features/{id}", Handler: a.updateFeature},
		{Method: http.MethodDelete, Path: "/envs/{env_id}/features/{id}", Handler: a.deleteFeature},
		{Method: http.MethodGet, Path: "/envs/{env_id}/features/{id}/variants", Handler: a.listVariants},
		{Method: http.MethodPost, Path: "/envs/{env_id}/features/{id}/variants", Handler: a.createVariant},
		{Method: http.MethodGet, Path: "/envs/{env_id}/variants/{id}", Handler: a.getVariant},
		{Method: http.MethodPut, Path: "/envs/{env_id}/variants/{id}", Handler: a.updateVariant},
		{Method: http.MethodDelete, Path: "/envs/{env_id}/variants/{id}", Handler: a.deleteVariant},
	}
	for _, route := range routes {
		r.Method(route.Method, route.Path, httpx.WrapHttpRsp(route.Handler))
	}
	return r
}

// EvaluationRouter mounts the Evaluation API of §6 under r.
func (a *API) EvaluationRouter(r chi.Router) chi.Router {
	r.Method(http.MethodGet, "/envs/{env_id}/ident/{ident}/features/{name}", httpx.WrapHttpRsp(a.evaluate))
	return r
}
