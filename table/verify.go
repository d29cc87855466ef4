package table

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// ValidationError is a mismatch between a descriptor and its live table.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of a table verification. Errors are
// mapped columns the table lacks: fetching them yields no value, and
// writing them fails. Warnings are table columns no field maps.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	for _, group := range []struct {
		title string
		errs  []*ValidationError
	}{{"Errors", r.Errors}, {"Warnings", r.Warnings}} {
		if len(group.errs) == 0 {
			continue
		}
		sb.WriteString(group.title + ":\n")
		for _, e := range group.errs {
			sb.WriteString("  - " + e.Error() + "\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("table matches its descriptor\n")
	}
	return sb.String()
}

// Verify compares the columns of T with the columns of the live table.
func (r *Repo[T]) Verify(ctx context.Context) (*ValidationResult, error) {
	desc, err := r.Descriptor()
	if err != nil {
		return nil, err
	}
	live, err := r.client.columns(ctx, "verify", desc.Table(), r.client.builder.Probe(desc))
	if err != nil {
		return nil, err
	}
	res := &ValidationResult{}
	for _, name := range desc.ColumnNames() {
		if !slices.Contains(live, name) {
			res.Errors = append(res.Errors, &ValidationError{Table: desc.Table(), Column: name, Message: "mapped column missing from table"})
		}
	}
	for _, name := range live {
		if _, ok := desc.Lookup(name); !ok {
			res.Warnings = append(res.Warnings, &ValidationError{Table: desc.Table(), Column: name, Message: "table column not mapped"})
		}
	}
	return res, nil
}
