package flagclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbuczko/flagrant/internal/flagstore"
)

// newTestServer stands up a minimal fake Admin/Evaluation API, grounded on
// the shape flagserver.MountHandlers mounts: /projects/{id} and
// /projects/{id}/envs/{idOrName} at server root, /api/v1/envs/{id}/ident/{ident}/features/{name}
// under the Evaluation API's prefix.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/projects/1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(flagstore.Project{ID: 1, Name: "demo"})
	})
	mux.HandleFunc("/projects/1/envs/prod", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(flagstore.Environment{ID: 2, ProjectID: 1, Name: "prod"})
	})
	mux.HandleFunc("/api/v1/envs/2/ident/u1/features/dark-mode", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(FeatureValue{ValueType: flagstore.ValueTypeText, Value: "true"})
	})
	return httptest.NewServer(mux)
}

func TestSessionGetProjectBindsCurrent(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	s := NewSession(srv.URL)
	require.Nil(t, s.Project())

	project, err := s.GetProject(1)
	require.NoError(t, err)
	require.Equal(t, int64(1), project.ID)
	require.Equal(t, project, s.Project())
}

func TestSessionGetEnvironmentRequiresProject(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	s := NewSession(srv.URL)
	_, err := s.GetEnvironment("prod")
	require.Error(t, err)
}

func TestSessionGetEnvironmentBindsCurrent(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	s := NewSession(srv.URL)
	_, err := s.GetProject(1)
	require.NoError(t, err)

	env, err := s.GetEnvironment("prod")
	require.NoError(t, err)
	require.Equal(t, int64(2), env.ID)
	require.Equal(t, env, s.Environment())
}

func TestSessionGetFeatureRequiresEnvironment(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	s := NewSession(srv.URL)
	_, err := s.GetFeature("u1", "dark-mode")
	require.Error(t, err)
}

func TestSessionGetFeature(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	s := NewSession(srv.URL)
	s.SetEnvironment(&flagstore.Environment{ID: 2})

	value, err := s.GetFeature("u1", "dark-mode")
	require.NoError(t, err)
	require.Equal(t, "true", value.Value)
	require.Equal(t, flagstore.ValueTypeText, value.ValueType)
}

func TestResourceSubpath(t *testing.T) {
	r := ProjectResource(7)
	require.Equal(t, "/projects/7", r.Subpath(""))
	require.Equal(t, "/projects/7/envs", r.Subpath("envs"))

	e := EnvironmentResource(3)
	require.Equal(t, "/envs/3/features", e.Subpath("features"))
}
