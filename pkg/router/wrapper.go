package router

import (
	"net/http"

	"github.com/canonlab/backend/pkg/errorx"
	"github.com/canonlab/backend/pkg/xcontext"
	"github.com/gin-gonic/gin"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := xcontext.WithHTTPRequest(r.ctx, gctx.Request)
		ctx = xcontext.WithHTTPWriter(ctx, gctx.Writer)

		var err error
		for _, middleware := range r.befores {
			ctx, err = middleware(ctx)
			if err != nil {
				r.writeResponse(ctx, gctx, nil, err)
				return
			}
		}

		var req Request
		switch method {
		case http.MethodGet:
			err = gctx.ShouldBindQuery(&req)
		default:
			if gctx.Request.ContentLength > 0 {
				err = gctx.ShouldBindJSON(&req)
			}
		}
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
			r.writeResponse(ctx, gctx, nil, errorx.New(errorx.BadRequest, "Cannot bind the request"))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			r.writeResponse(ctx, gctx, nil, err)
			return
		}

		r.writeResponse(ctx, gctx, resp, nil)
	}
}
