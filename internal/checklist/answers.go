package checklist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/errs"
	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/scoring"
)

// Answer is one (item, value) pair of a batch.
type Answer struct {
	ID    int
	Value scoring.ResponseValue
}

// ParseAnswers parses a batch written as "1=yes,2=no,3=si". Pairs may also be
// separated by ";" or whitespace. Values accept every ParseResponse alias
// except the unanswered ones.
func ParseAnswers(s string) ([]Answer, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no answers given: expected pairs like 1=yes,2=no")
	}

	out := make([]Answer, 0, len(fields))
	for _, f := range fields {
		idStr, valStr, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("malformed answer %q: expected <item>=<value>", f)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil {
			return nil, fmt.Errorf("malformed item id in %q: %w", f, err)
		}
		v, err := scoring.ParseResponse(valStr)
		if err != nil || !v.Writable() {
			return nil, &errs.InvalidResponseError{ID: id, Value: valStr}
		}
		out = append(out, Answer{ID: id, Value: v})
	}
	return out, nil
}

// SetResponses applies a batch in order. Every pair is validated first, so
// either the whole batch is applied or none of it is.
func (e *Engine) SetResponses(answers []Answer) error {
	for _, a := range answers {
		if !e.def.Has(a.ID) {
			return &errs.UnknownItemError{ID: a.ID}
		}
		if !a.Value.Writable() {
			return &errs.InvalidResponseError{ID: a.ID, Value: string(a.Value)}
		}
	}
	for _, a := range answers {
		if err := e.SetResponse(a.ID, a.Value); err != nil {
			return err
		}
	}
	return nil
}
