package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of one item of a batch.
type Result[T any] struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Value  T      `json:"value,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OK reports whether the item succeeded.
func (r Result[T]) OK() bool {
	return r.Status == StatusSuccess
}

// Report aggregates the results of a batch.
type Report[T any] struct {
	Total      int         `json:"total"`
	Successful int         `json:"successful"`
	Failed     int         `json:"failed"`
	Results    []Result[T] `json:"results"`
}

// Process runs fn for every id in order. A failing item is recorded and the
// batch continues. Once ctx is done the remaining items fail with its error.
func Process[T any](ctx context.Context, ids []string, fn func(ctx context.Context, id string) (T, error)) []Result[T] {
	results := make([]Result[T], 0, len(ids))

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			results = append(results, NewErrorResult[T](id, err))
			continue
		}

		v, err := fn(ctx, id)
		if err != nil {
			results = append(results, NewErrorResult[T](id, err))
			continue
		}
		results = append(results, NewSuccessResult(id, v))
	}

	return results
}

// NewReport counts the successes and failures in results.
func NewReport[T any](results []Result[T]) Report[T] {
	r := Report[T]{Total: len(results), Results: results}
	for _, res := range results {
		if res.OK() {
			r.Successful++
		} else {
			r.Failed++
		}
	}
	return r
}

// FormatResults renders results as an indented JSON report.
func FormatResults[T any](results []Result[T]) string {
	b, err := json.MarshalIndent(NewReport(results), "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(b)
}

// NewSuccessResult creates a success result.
func NewSuccessResult[T any](id string, v T) Result[T] {
	return Result[T]{ID: id, Status: StatusSuccess, Value: v}
}

// NewErrorResult creates an error result.
func NewErrorResult[T any](id string, err error) Result[T] {
	return Result[T]{ID: id, Status: StatusError, Error: err.Error()}
}

// ParseStringOrArray parses a tool argument that is either one string, an
// array of strings, or a string holding a JSON array of strings.
func ParseStringOrArray(param any, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		// a filename may itself start with "[", so only valid JSON counts
		var items []any
		if trimmed := strings.TrimSpace(v); strings.HasPrefix(trimmed, "[") && json.Unmarshal([]byte(trimmed), &items) == nil {
			return ParseStringOrArray(items, paramName)
		}
		return []string{v}, nil
	case []string:
		return ParseStringOrArray(toAny(v), paramName)
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		result := make([]string, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			if str == "" {
				return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
			}
			result = append(result, str)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
