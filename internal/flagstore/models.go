// Package flagstore defines the persistence contracts for projects, environments,
// features and variants, and a PostgreSQL-backed transactional pool implementing
// them. It mirrors the teacher's db/db.go + db/postgresql split: a small set of
// interfaces here, a concrete implementation in the postgresql subpackage.
package flagstore

// ValueType carries the semantic intent of a feature's value to clients. The
// engine itself treats every value as an opaque string.
type ValueType string

const (
	ValueTypeText ValueType = "text"
	ValueTypeJSON ValueType = "json"
	ValueTypeTOML ValueType = "toml"
)

// Project is the top-level namespace owning Environments and Features.
type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Environment is a named slice of a Project along which variant weights and
// control values differ.
type Environment struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Feature is a named flag inside one Project.
type Feature struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Name      string    `json:"name"`
	IsEnabled bool      `json:"is_enabled"`
	ValueType ValueType `json:"value_type"`
}

// Variant is one weighted value carrier for a Feature, resolved against a
// single environment: Weight and Accumulator are the values that apply in
// EvaluatedEnvID. EnvironmentID is non-nil only for the control variant,
// which is pinned to exactly one environment; standard variants carry a nil
// EnvironmentID and a per-environment Weight/Accumulator pair looked up
// separately.
type Variant struct {
	ID             int64  `json:"id"`
	FeatureID      int64  `json:"feature_id"`
	Value          string `json:"value"`
	Weight         int    `json:"weight"`
	Accumulator    int    `json:"accumulator"`
	EnvironmentID  *int64 `json:"environment_id,omitempty"`
	EvaluatedEnvID int64  `json:"-"`
}

// IsControl reports whether v is the control variant of its feature.
func (v *Variant) IsControl() bool {
	return v.EnvironmentID != nil
}
