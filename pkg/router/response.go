package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ywitter/backend/pkg/errorx"
	"github.com/ywitter/backend/pkg/xcontext"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{Code: 0, Data: data}
}

func newErrorResponse(err error) response {
	var errx errorx.Error
	if errors.As(err, &errx) {
		return response{Code: int64(errx.Code), Error: errx.Message}
	}

	return response{Code: int64(errorx.Unknown.Code), Error: errorx.Unknown.Message}
}

func writeResponse(ctx context.Context, w http.ResponseWriter) {
	resp := newResponse(xcontext.Response(ctx))
	if err := xcontext.Error(ctx); err != nil {
		resp = newErrorResponse(err)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := WriteJson(w, resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func WriteJson(w http.ResponseWriter, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	_, err = w.Write(b)
	return err
}
