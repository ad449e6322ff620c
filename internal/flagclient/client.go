// Package flagclient implements the in-process client session of spec §4.6:
// a base URL plus an HTTP capability, with the currently selected Project
// and Environment held behind read/write locks so a command handler can
// rebind either atomically. Grounded on the teacher's internal/cli package
// (a Configurator + httpclient.HTTPClient pair) adapted to flagrant's
// project/environment resource shape instead of catalogs/variants.
package flagclient

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mbuczko/flagrant/internal/common/httpclient"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

// Resource is a path builder prefixed to one project or environment, per
// §4.6's as_base_resource()/subpath(suffix) contract.
type Resource struct {
	base string
}

// Subpath appends suffix to the resource's base path.
func (r Resource) Subpath(suffix string) string {
	if suffix == "" {
		return r.base
	}
	return r.base + "/" + suffix
}

// ProjectResource returns the resource rooted at /projects/{id}, per spec
// §6's Admin HTTP surface: paths are relative to server root, with no
// /api/v1 or /admin prefix.
func ProjectResource(id int64) Resource {
	return Resource{base: fmt.Sprintf("/projects/%d", id)}
}

// EnvironmentResource returns the resource rooted at /envs/{id}.
func EnvironmentResource(id int64) Resource {
	return Resource{base: fmt.Sprintf("/envs/%d", id)}
}

// Session is the client-side handle described in spec §4.6: a base URL, an
// HTTP client, and the currently selected Project/Environment, each
// swappable atomically behind its own RWMutex.
type Session struct {
	baseURL string
	http    *httpclient.HTTPClient

	projectMu sync.RWMutex
	project   *flagstore.Project

	envMu sync.RWMutex
	env   *flagstore.Environment
}

// sessionConfig adapts Session to httpclient.Configurator.
type sessionConfig struct {
	baseURL string
}

func (c sessionConfig) GetServerURL() string { return c.baseURL }

// NewSession opens a client session against baseURL (e.g. "http://localhost:8080"),
// the server root: the Admin API hangs off it directly, the Evaluation API
// under its /api/v1 prefix.
func NewSession(baseURL string) *Session {
	return &Session{
		baseURL: baseURL,
		http:    httpclient.NewClient(sessionConfig{baseURL: baseURL}),
	}
}

// SetProject atomically rebinds the session's current project.
func (s *Session) SetProject(p *flagstore.Project) {
	s.projectMu.Lock()
	defer s.projectMu.Unlock()
	s.project = p
}

// Project returns the currently selected project, or nil if none is bound.
func (s *Session) Project() *flagstore.Project {
	s.projectMu.RLock()
	defer s.projectMu.RUnlock()
	return s.project
}

// SetEnvironment atomically rebinds the session's current environment.
func (s *Session) SetEnvironment(e *flagstore.Environment) {
	s.envMu.Lock()
	defer s.envMu.Unlock()
	s.env = e
}

// Environment returns the currently selected environment, or nil if none is bound.
func (s *Session) Environment() *flagstore.Environment {
	s.envMu.RLock()
	defer s.envMu.RUnlock()
	return s.env
}

// GetProject fetches and binds the project identified by id as current.
func (s *Session) GetProject(id int64) (*flagstore.Project, error) {
	body, _, err := s.http.DoRequest(httpclient.RequestOptions{
		Method: "GET",
		Path:   ProjectResource(id).Subpath(""),
	})
	if err != nil {
		return nil, err
	}
	var project flagstore.Project
	if err := json.Unmarshal(body, &project); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}
	s.SetProject(&project)
	return &project, nil
}

// GetEnvironment fetches and binds the environment identified by idOrName
// within the current project as current.
func (s *Session) GetEnvironment(idOrName string) (*flagstore.Environment, error) {
	project := s.Project()
	if project == nil {
		return nil, fmt.Errorf("no project selected")
	}
	resource := ProjectResource(project.ID)
	body, _, err := s.http.DoRequest(httpclient.RequestOptions{
		Method: "GET",
		Path:   resource.Subpath("envs/" + idOrName),
	})
	if err != nil {
		return nil, err
	}
	var env flagstore.Environment
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	s.SetEnvironment(&env)
	return &env, nil
}

// GetFeature implements spec §4.6's get_feature(ident, name): it calls the
// evaluation endpoint for the current environment and returns the resolved
// FeatureValue.
func (s *Session) GetFeature(ident, name string) (*FeatureValue, error) {
	env := s.Environment()
	if env == nil {
		return nil, fmt.Errorf("no environment selected")
	}
	path := fmt.Sprintf("/api/v1/envs/%d/ident/%s/features/%s", env.ID, ident, name)
	body, _, err := s.http.DoRequest(httpclient.RequestOptions{Method: "GET", Path: path})
	if err != nil {
		return nil, err
	}
	var value FeatureValue
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, fmt.Errorf("failed to parse feature value: %w", err)
	}
	return &value, nil
}

// FeatureValue is the wire shape of an evaluation response, per spec §6's
// wire value encoding: a value_type/text pair.
type FeatureValue struct {
	ValueType flagstore.ValueType `json:"value_type"`
	Value     string              `json:"value"`
}
