// Package service runs one attribute search from a JSON request. The HTTP
// server and the Lambda handler share it.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	annealing "github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection"
	"github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection/dataset"
	"github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection/merit"
)

// ErrBadRequest marks malformed request bodies.
var ErrBadRequest = errors.New("bad request")

// Request is the body of a search call.
//
// Params and Options are alternatives: Params is a JSON object overlaid on
// the defaults, Options an option list such as ["-I", "10", "-C"]. With
// neither the defaults apply.
type Request struct {
	Dataset   json.RawMessage   `json:"dataset"`
	Class     string            `json:"class,omitempty"`
	Evaluator string            `json:"evaluator,omitempty"`
	Params    *annealing.Params `json:"params,omitempty"`
	Options   []string          `json:"options,omitempty"`
}

// Response is the outcome of a search call.
type Response struct {
	Relation   string                      `json:"relation,omitempty" yaml:"relation,omitempty"`
	Evaluator  string                      `json:"evaluator" yaml:"evaluator"`
	Subset     []int                       `json:"subset" yaml:"subset"`
	Names      []string                    `json:"names" yaml:"names"`
	Merit      float64                     `json:"merit" yaml:"merit"`
	Iterations []annealing.IterationResult `json:"iterations" yaml:"iterations"`
	Options    []string                    `json:"options" yaml:"options"`
	Summary    string                      `json:"summary" yaml:"-"`
	TimeMs     int64                       `json:"timeMs" yaml:"timeMs"`
}

// DecodeRequest reads a request body.
func DecodeRequest(body []byte) (Request, error) {
	if !gjson.ValidBytes(body) {
		return Request{}, fmt.Errorf("%w: invalid JSON", ErrBadRequest)
	}
	root := gjson.ParseBytes(body)

	ds := root.Get("dataset")
	if !ds.IsObject() {
		return Request{}, fmt.Errorf("%w: missing dataset field", ErrBadRequest)
	}
	req := Request{
		Dataset:   json.RawMessage(ds.Raw),
		Class:     root.Get("class").String(),
		Evaluator: root.Get("evaluator").String(),
	}

	if v := root.Get("params"); v.Exists() {
		if !v.IsObject() {
			return Request{}, fmt.Errorf("%w: params must be an object", ErrBadRequest)
		}
		p := annealing.DefaultParams()
		if err := json.Unmarshal([]byte(v.Raw), &p); err != nil {
			return Request{}, fmt.Errorf("%w: params: %w", ErrBadRequest, err)
		}
		req.Params = &p
	}

	if v := root.Get("options"); v.Exists() {
		if !v.IsArray() {
			return Request{}, fmt.Errorf("%w: options must be an array", ErrBadRequest)
		}
		for _, o := range v.Array() {
			req.Options = append(req.Options, o.String())
		}
	}
	return req, nil
}

// ResolveParams returns the annealing configuration of r.
func (r Request) ResolveParams() (annealing.Params, error) {
	switch {
	case r.Params != nil && len(r.Options) > 0:
		return annealing.Params{}, fmt.Errorf("%w: params and options are mutually exclusive", ErrBadRequest)
	case len(r.Options) > 0:
		return annealing.ParseOptions(r.Options)
	case r.Params != nil:
		p := *r.Params
		return p, p.Validate()
	}
	return annealing.DefaultParams(), nil
}

// Run loads the request's dataset and searches it. opts are passed to the
// Searcher, typically a logger and an observer.
func Run(ctx context.Context, req Request, opts ...annealing.Option) (Response, error) {
	p, err := req.ResolveParams()
	if err != nil {
		return Response{}, err
	}

	ds, err := dataset.LoadJSON(string(req.Dataset))
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if req.Class != "" {
		if err := ds.SetClass(req.Class); err != nil {
			return Response{}, err
		}
	}
	return Search(ctx, ds, req.Evaluator, p, opts...)
}

// Search runs one search over a loaded dataset with the named evaluator
// ("" selects cfs).
func Search(ctx context.Context, ds *dataset.Dataset, evaluator string, p annealing.Params, opts ...annealing.Option) (Response, error) {
	if evaluator == "" {
		evaluator = "cfs"
	}
	eval, err := merit.New(evaluator, ds)
	if err != nil {
		return Response{}, err
	}
	if p.Workers > 1 {
		if w, ok := eval.(interface{ Matrix() *merit.Matrix }); ok {
			if err := w.Matrix().Warm(ctx, p.Workers); err != nil {
				return Response{}, err
			}
		}
	}

	s, err := annealing.New(p, opts...)
	if err != nil {
		return Response{}, err
	}
	desc := ds.Descriptor()
	start := time.Now()
	subset, err := s.Search(ctx, eval, eval.Capabilities(), &desc)
	if err != nil {
		return Response{}, err
	}
	res := s.Result()

	all := ds.Names()
	names := make([]string, len(subset))
	for i, a := range subset {
		names[i] = all[a]
	}

	return Response{
		Relation:   ds.Relation,
		Evaluator:  evaluator,
		Subset:     subset,
		Names:      names,
		Merit:      res.Merit,
		Iterations: res.Iterations,
		Options:    p.Options(),
		Summary:    s.String() + "\n" + annealing.FormatResult(res, all),
		TimeMs:     time.Since(start).Milliseconds(),
	}, nil
}

// Status maps a Run error to an HTTP status code.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, annealing.ErrInvalidOption),
		errors.Is(err, annealing.ErrInvalidRange),
		errors.Is(err, dataset.ErrUnknownAttribute),
		errors.Is(err, merit.ErrUnknownEvaluator):
		return http.StatusBadRequest
	case errors.Is(err, annealing.ErrIncompatibleEvaluator),
		errors.Is(err, annealing.ErrTooFewAttributes),
		errors.Is(err, annealing.ErrLabelOutOfRange),
		errors.Is(err, merit.ErrNoClass):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
