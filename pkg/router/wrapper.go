package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
	"gopkg.in/go-playground/validator.v9"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type parser[Request any] func(req *http.Request) (*Request, error)

func wrap[Request, Response any](
	r *Router, parse parser[Request], handler HandlerFunc[Request, Response],
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, httpReq *http.Request) {
		ctx := r.newContext(httpReq)

		resp, err := func() (*Response, error) {
			for _, before := range r.befores {
				newCtx, err := before(ctx)
				if err != nil {
					return nil, err
				}

				if newCtx != nil {
					ctx = newCtx
				}
			}

			req, err := parse(httpReq)
			if err != nil {
				xcontext.Logger(ctx).Debugf("Cannot parse request: %v", err)
				return nil, errorx.New(errorx.BadRequest, "Invalid request")
			}

			if err := validateRequest(req); err != nil {
				return nil, err
			}

			return handler(ctx, req)
		}()

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
		} else {
			ctx = xcontext.WithResponse(ctx, resp)
		}

		writeResponse(ctx, w)

		for _, closer := range r.closers {
			closer(ctx)
		}
	})
}

func parseBody[Request any](req *http.Request) (*Request, error) {
	var result Request
	if err := json.NewDecoder(req.Body).Decode(&result); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &result, nil
}

func parseQuery[Request any](req *http.Request) (*Request, error) {
	input := map[string]any{}
	for key, values := range req.URL.Query() {
		if len(values) == 1 {
			input[key] = values[0]
		} else {
			input[key] = values
		}
	}

	var result Request
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &result,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(input); err != nil {
		return nil, err
	}

	return &result, nil
}

func validateRequest(req any) error {
	if reflect.Indirect(reflect.ValueOf(req)).Kind() != reflect.Struct {
		return nil
	}

	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return errorx.New(errorx.BadRequest, "Invalid field %s", verrs[0].Field())
	}

	return errorx.New(errorx.BadRequest, "Invalid request")
}
