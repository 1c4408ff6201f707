package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/john-thuo1/sentiment/internal/domain"
)

const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Limits are the configured upload limits passed to the policy. Zero disables a limit.
type Limits struct {
	MaxBytes int64 `json:"max_bytes"`
	MaxRows  int   `json:"max_rows"`
}

// Input describes an upload under evaluation.
type Input struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	RowCount  int    `json:"row_count"`
	Limits    Limits `json:"limits"`
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.upload_policy.verdict"),
		rego.Module("upload_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate runs the upload policy.
// Returns: decision (allow, block), reasons for a block, error
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, []string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", nil, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil, nil
	}

	verdict, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return "", nil, fmt.Errorf("unexpected policy result %T", results[0].Expressions[0].Value)
	}

	decision, _ := verdict["decision"].(string)
	if decision == "" {
		decision = DecisionAllow
	}

	var reasons []string
	if raw, ok := verdict["reasons"].([]interface{}); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				reasons = append(reasons, s)
			}
		}
	}

	return decision, reasons, nil
}

// Check evaluates the policy and turns a block into a *domain.PolicyError.
func (e *Engine) Check(ctx context.Context, input Input) error {
	decision, reasons, err := e.Evaluate(ctx, input)
	if err != nil {
		return err
	}
	if decision == DecisionBlock {
		return &domain.PolicyError{Reasons: reasons}
	}
	return nil
}

// DefaultPolicy is the default upload policy.
const DefaultPolicy = `
package upload_policy

default decision := "allow"

decision := "block" if count(deny) > 0

deny contains msg if {
	not endswith(lower(input.filename), ".csv")
	msg := sprintf("file %v is not a .csv file", [input.filename])
}

deny contains msg if {
	input.limits.max_bytes > 0
	input.size_bytes > input.limits.max_bytes
	msg := sprintf("file is %v bytes, limit is %v", [input.size_bytes, input.limits.max_bytes])
}

deny contains msg if {
	input.limits.max_rows > 0
	input.row_count > input.limits.max_rows
	msg := sprintf("file has %v rows, limit is %v", [input.row_count, input.limits.max_rows])
}

verdict := {"decision": decision, "reasons": deny}
`
