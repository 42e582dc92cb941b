package middleware

import (
	"context"
	"net/http"

	"nomadhub/pkg/model"
)

// Identity headers are set by the gateway after it has verified the session
// token. This service trusts them and never sees a credential.
const (
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
	HeaderUserRole  = "X-User-Role"
)

const identityKey contextKey = "identity"

// Identity materializes the gateway-verified caller identity into the request
// context. Requests without identity headers pass through anonymously;
// handlers that need a caller check IdentityFrom and reject.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := r.Header.Get(HeaderUserEmail)
			if email != "" {
				id := model.Identity{
					Email: email,
					Name:  r.Header.Get(HeaderUserName),
					Role:  r.Header.Get(HeaderUserRole),
				}
				if id.Role == "" {
					id.Role = model.RoleGuest
				}
				r = r.WithContext(context.WithValue(r.Context(), identityKey, id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFrom returns the caller identity, if the gateway supplied one.
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey).(model.Identity)
	return id, ok
}
