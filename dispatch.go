package facet

import (
	"context"
	"net/http"
	"reflect"
	"time"
)

// dispatch runs the shared pipeline for one operation call: bind the input,
// run constraint tags, self-validation, the registry validator, then invoke
// the business logic. Every adapter funnels through here, so validation and
// metrics behave identically regardless of wire protocol.
//
// The returned status is the operation's default (204 when the output is
// nil); adapters let the output override it via StatusCoder.
func (reg *Registry) dispatch(ctx context.Context, op *operation, src paramSource, decode bodyDecoder) (out any, status int, err error) {
	start := time.Now()
	defer func() {
		if reg.metrics != nil {
			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			reg.metrics.observe(op, outcome, time.Since(start))
		}
	}()

	in := op.newInput()

	if err := bindInput(in, op.inType, src, decode); err != nil {
		return nil, 0, Error(http.StatusBadRequest, err.Error())
	}

	if err := validateConstraints(in); err != nil {
		return nil, 0, err
	}

	if sv, ok := in.(SelfValidator); ok {
		if err := sv.Validate(); err != nil {
			return nil, 0, err
		}
	}

	if reg.validator != nil {
		if err := reg.validator.Validate(in); err != nil {
			return nil, 0, err
		}
	}

	out, err = op.invoke(ctx, in)
	if err != nil {
		return nil, 0, err
	}

	status = op.status
	if op.outType == reflect.TypeFor[Void]() {
		out = nil
	} else if out == nil {
		status = http.StatusNoContent
	}
	return out, status, nil
}
