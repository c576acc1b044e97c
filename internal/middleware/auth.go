package middleware

import (
	"context"
	"strings"

	"github.com/canonlab/backend/pkg/errorx"
	"github.com/canonlab/backend/pkg/router"
	"github.com/canonlab/backend/pkg/xcontext"
)

// WithAuthentication parses the bearer token and puts the user id into the
// context. Requests without a token pass through unauthenticated; handlers
// that need an identity reject them.
func WithAuthentication() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := extractToken(ctx)
		if token == "" {
			return ctx, nil
		}

		accessToken, err := xcontext.TokenEngine(ctx).Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

// Authenticate rejects requests that did not present a valid token.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}

func extractToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)

	authorization := req.Header.Get("Authorization")
	if after, found := strings.CutPrefix(authorization, "Bearer "); found {
		return after
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
