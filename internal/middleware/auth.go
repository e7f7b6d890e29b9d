package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/questx-lab/classroom/internal/model"
	"github.com/questx-lab/classroom/pkg/errorx"
	"github.com/questx-lab/classroom/pkg/jwt"
	"github.com/questx-lab/classroom/pkg/router"
	"github.com/questx-lab/classroom/pkg/xcontext"
)

type tokenSource func(r *http.Request, tokenName string) string

type AuthVerifier struct {
	sources []tokenSource
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

// WithAccessToken accepts the access token from the Authorization header, the
// cookie, or the access_token query parameter, in this order.
func (a *AuthVerifier) WithAccessToken() *AuthVerifier {
	a.sources = append(a.sources, fromAuthorizationHeader, fromCookie, fromQuery)
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		cfg := xcontext.Configs(ctx).Auth
		req := xcontext.HTTPRequest(ctx)
		verifier := jwt.NewVerifier[model.AccessToken](cfg.TokenSecret)

		for _, source := range a.sources {
			token := source(req, cfg.AccessToken.Name)
			if token == "" {
				continue
			}

			info, err := verifier.Verify(token)
			if err != nil {
				xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
				continue
			}

			if info.ID != "" {
				return xcontext.WithRequestUserID(ctx, info.ID), nil
			}
		}

		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}
}

func fromAuthorizationHeader(r *http.Request, _ string) string {
	auth, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if found && auth == "Bearer" {
		return token
	}

	return ""
}

func fromCookie(r *http.Request, tokenName string) string {
	cookie, err := r.Cookie(tokenName)
	if err != nil {
		return ""
	}

	return cookie.Value
}

// fromQuery serves browsers, which cannot set headers on a websocket
// handshake.
func fromQuery(r *http.Request, _ string) string {
	return r.URL.Query().Get("access_token")
}
