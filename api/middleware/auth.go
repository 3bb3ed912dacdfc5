package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	pkgAuth "github.com/stockroomhq/stockroom-backend/pkg/auth"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
)

// bearerToken strips an optional case-insensitive "Bearer " prefix.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// Auth validates the bearer token and seeds the request context with the
// authenticated identity. The rejection reason (missing vs invalid vs
// expired) stays in the logged cause; every 401 body is identical so the
// response never hints at why verification failed.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	unauthorized := pkgerrors.MetadataFor(pkgerrors.CodeUnauthorized).PublicMessage
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				err := pkgerrors.Wrap(pkgerrors.CodeUnauthorized, errors.New("missing bearer token"), unauthorized)
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, unauthorized))
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, claims.Email)
			if logg != nil {
				ctx = logg.WithUserID(ctx, fmt.Sprintf("%d", claims.UserID))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
