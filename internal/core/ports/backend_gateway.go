package ports

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/image-ehr/clinic-console/internal/core/domain"
)

// BackendGateway is the console's only view of the remote clinic/EHR API.
// Implementations translate wire failures into the domain error taxonomy:
// a rejected login becomes *domain.AuthError, a rejected token becomes
// domain.ErrSessionExpired, transport failures wrap
// domain.ErrBackendUnavailable, and any other resource-level error becomes
// a *domain.RemoteError relayed unchanged.
type BackendGateway interface {
	// Login exchanges credentials for a bearer token and the user record.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)

	// Me re-checks the identity behind a stored token.
	Me(ctx context.Context, token string) (*domain.User, error)

	// Logout notifies the backend that the token is being discarded.
	// Best effort; callers ignore the error beyond logging it.
	Logout(ctx context.Context, token string) error

	// Fetch relays a GET to a backend resource path and returns the raw
	// JSON body.
	Fetch(ctx context.Context, token, path string, query url.Values) (json.RawMessage, error)

	// Submit relays a mutating request (POST/PUT/DELETE) with a JSON body.
	Submit(ctx context.Context, token, method, path string, body any) (json.RawMessage, error)
}
