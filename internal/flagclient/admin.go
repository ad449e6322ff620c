package flagclient

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mbuczko/flagrant/internal/common/httpclient"
	"github.com/mbuczko/flagrant/internal/flagstore"
)

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return buf.Bytes(), nil
}

// CreateProject creates a project and binds it as current.
func (s *Session) CreateProject(name string) (*flagstore.Project, error) {
	body, err := marshal(map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	resp, _, err := s.http.DoRequest(httpclient.RequestOptions{Method: "POST", Path: "/projects", Body: body})
	if err != nil {
		return nil, err
	}
	var project flagstore.Project
	if err := json.Unmarshal(resp, &project); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}
	s.SetProject(&project)
	return &project, nil
}

// CreateEnvironment creates an environment inside the current project and binds it as current.
func (s *Session) CreateEnvironment(name, description string) (*flagstore.Environment, error) {
	project := s.Project()
	if project == nil {
		return nil, fmt.Errorf("no project selected")
	}
	body, err := marshal(map[string]string{"name": name, "description": description})
	if err != nil {
		return nil, err
	}
	resource := ProjectResource(project.ID)
	resp, _, err := s.http.DoRequest(httpclient.RequestOptions{
		Method: "POST",
		Path:   resource.Subpath("envs"),
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	var env flagstore.Environment
	if err := json.Unmarshal(resp, &env); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	s.SetEnvironment(&env)
	return &env, nil
}

// ListEnvironments lists the environments of the current project.
func (s *Session) ListEnvironments(prefix string) ([]*flagstore.Environment, error) {
	project := s.Project()
	if project == nil {
		return nil, fmt.Errorf("no project selected")
	}
	resource := ProjectResource(project.ID)
	queryParams := map[string]string{}
	if prefix != "" {
		queryParams["prefix"] = prefix
	}
	resp, _, err := s.http.DoRequest(httpclient.RequestOptions{
		Method:      "GET",
		Path:        resource.Subpath("envs"),
		QueryParams: queryParams,
	})
	if err != nil {
		return nil, err
	}
	var envs []*flagstore.Environment
	if err := json.Unmarshal(resp, &envs); err != nil {
		return nil, fmt.Errorf("failed to parse environments: %w", err)
	}
	return envs, nil
}

// featureValueWire mirrors flagapi's wire shape for a feature's value pair.
type featureValueWire struct {
	ValueType flagstore.ValueType `json:"value_type"`
	Value     string              `json:"value"`
}

type featureReq struct {
	Name      string            `json:"name"`
	Value     *featureValueWire `json:"value,omitempty"`
	IsEnabled bool              `json:"is_enabled"`
}

// CreateFeature creates a feature in the current environment.
func (s *Session) CreateFeature(name string, valueType flagstore.ValueType, value string, isEnabled bool) (*flagstore.Feature, error) {
	env := s.Environment()
	if env == nil {
		return nil, fmt.Errorf("no environment selected")
	}
	req := featureReq{Name: name, IsEnabled: isEnabled}
	if value != "" {
		req.Value = &featureValueWire{ValueType: valueType, Value: value}
	}
	body, err := marshal(req)
	if err != nil {
		return nil, err
	}
	resource := EnvironmentResource(env.ID)
	resp, _, err := s.http.DoRequest(httpclient.RequestOptions{
		Method: "POST",
		Path:   resource.Subpath("features"),
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	var feature flagstore.Feature
	if err := json.Unmarshal(resp, &feature); err != nil {
		return nil, fmt.Errorf("failed to parse feature: %w", err)
	}
	return &feature, nil
}

// ListFeatures lists the features visible in the current environment.
func (s *Session) ListFeatures(prefix string) ([]*flagstore.Feature, error) {
	env := s.Environment()
	if env == nil {
		return nil, fmt.Errorf("no environment selected")
	}
	resource := EnvironmentResource(env.ID)
	queryParams := map[string]string{}
	if prefix != "" {
		queryParams["prefix"] = prefix
	}
	resp, _, err := s.http.DoRequest(httpclient.RequestOptions{
		Method:      "GET",
		Path:        resource.Subpath("features"),
		QueryParams: queryParams,
	})
	if err != nil {
		return nil, err
	}
	var features []*flagstore.Feature
	if err := json.Unmarshal(resp, &features); err != nil {
		return nil, fmt.Errorf("failed to parse features: %w", err)
	}
	return features, nil
}

// CreateVariant creates a standard variant on featureID in the current environment.
func (s *Session) CreateVariant(featureID int64, value string, weight int) (*flagstore.Variant, error) {
	env := s.Environment()
	if env == nil {
		return nil, fmt.Errorf("no environment selected")
	}
	body, err := marshal(map[string]any{"value": value, "weight": weight})
	if err != nil {
		return nil, err
	}
	resource := EnvironmentResource(env.ID)
	resp, _, err := s.http.DoRequest(httpclient.RequestOptions{
		Method: "POST",
		Path:   resource.Subpath(fmt.Sprintf("features/%d/variants", featureID)),
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	var variant flagstore.Variant
	if err := json.Unmarshal(resp, &variant); err != nil {
		return nil, fmt.Errorf("failed to parse variant: %w", err)
	}
	return &variant, nil
}

// DeleteVariant deletes variantID in the current environment.
func (s *Session) DeleteVariant(variantID int64) error {
	env := s.Environment()
	if env == nil {
		return fmt.Errorf("no environment selected")
	}
	resource := EnvironmentResource(env.ID)
	_, _, err := s.http.DoRequest(httpclient.RequestOptions{
		Method: "DELETE",
		Path:   resource.Subpath(fmt.Sprintf("variants/%d", variantID)),
	})
	return err
}
