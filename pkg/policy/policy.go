package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/open-policy-agent/opa/rego"
	"github.com/open-policy-agent/opa/storage/inmem"

	"github.com/kondukto-io/dspolicy/pkg/logger"
)

// GeoQuery is the decision of the bundled geo allow-list policy
const GeoQuery = "data.dspolicy.geo.allow"

// Policy evaluates the Rego modules of a bundle against a data document
type Policy struct {
	modules map[string]string
	data    map[string]interface{}
	query   string

	prepared *rego.PreparedEvalQuery
}

// New loads every .rego file of the bundle and the JSON data document
func New(bundleFS fs.FS, data []byte) (*Policy, error) {
	var p = &Policy{modules: map[string]string{}}

	if err := json.Unmarshal(data, &p.data); err != nil {
		return nil, fmt.Errorf("failed to decode policy data: %w", err)
	}

	err := fs.WalkDir(bundleFS, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(name) != ".rego" {
			return nil
		}

		src, err := fs.ReadFile(bundleFS, name)
		if err != nil {
			return err
		}
		p.modules[name] = string(src)
		logger.Log.Debugf("loaded policy module [%s]", name)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read policy bundle: %w", err)
	}

	if len(p.modules) == 0 {
		return nil, errors.New("policy bundle has no rego modules")
	}

	return p, nil
}

// AddQuery sets the decision to evaluate
func (p *Policy) AddQuery(query string) {
	p.query = query
	p.prepared = nil
}

// Eval evaluates the query for the JSON input and returns the boolean
// decision. An undefined decision is false.
func (p *Policy) Eval(ctx context.Context, input []byte) (bool, error) {
	if p.query == "" {
		return false, errors.New("no query set")
	}

	var in interface{}
	if err := json.Unmarshal(input, &in); err != nil {
		return false, fmt.Errorf("failed to decode policy input: %w", err)
	}

	if p.prepared == nil {
		if err := p.prepare(ctx); err != nil {
			return false, err
		}
	}

	rs, err := p.prepared.Eval(ctx, rego.EvalInput(in))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate %s: %w", p.query, err)
	}

	return rs.Allowed(), nil
}

func (p *Policy) prepare(ctx context.Context) error {
	opts := []func(*rego.Rego){
		rego.Query(p.query),
		rego.Store(inmem.NewFromObject(p.data)),
	}
	for name, src := range p.modules {
		opts = append(opts, rego.Module(name, src))
	}

	pq, err := rego.New(opts...).PrepareForEval(ctx)
	if err != nil {
		return fmt.Errorf("failed to prepare %s: %w", p.query, err)
	}

	p.prepared = &pq
	return nil
}
