package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/canonlab/backend/pkg/errorx"
	"github.com/gin-gonic/gin"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func (r *Router) writeResponse(ctx context.Context, gctx *gin.Context, data any, err error) {
	if err == nil {
		gctx.JSON(http.StatusOK, response{Code: 0, Data: data})
	} else {
		errx := errorx.Unknown
		if !errors.As(err, &errx) {
			errx = errorx.Unknown
		}

		gctx.JSON(httpStatus(errx.Code), response{Code: int64(errx.Code), Error: errx.Message})
	}

	for _, closer := range r.closers {
		closer(ctx, err)
	}
}

func httpStatus(code errorx.Code) int {
	switch code {
	case errorx.BadRequest:
		return http.StatusBadRequest
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.AlreadyExists, errorx.AlreadyCrafted, errorx.PositionOccupied:
		return http.StatusConflict
	case errorx.LimitExceeded:
		return http.StatusUnprocessableEntity
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	case errorx.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
