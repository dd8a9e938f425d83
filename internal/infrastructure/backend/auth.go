package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/image-ehr/clinic-console/internal/core/domain"
)

// Wire contract, pinned to one backend variant end-to-end: login is
// form-encoded and answers {access_token, user}; the identity check returns
// the bare user object; errors carry {detail}.
const (
	loginPath  = "/api/auth/login"
	mePath     = "/api/auth/me"
	logoutPath = "/api/auth/logout"
)

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

// Login exchanges credentials for a bearer token. Any HTTP rejection becomes
// a *domain.AuthError carrying the backend's message, so the caller can show
// it inline; transport failures stay transport failures.
func (c *Client) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	body, status, err := c.roundTrip(ctx, "", http.MethodPost, loginPath, nil, strings.NewReader(form.Encode()), contentTypeForm)
	if err != nil {
		return "", nil, err
	}
	if status >= 400 {
		return "", nil, &domain.AuthError{Detail: decodeDetail(body)}
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", nil, fmt.Errorf("%w: malformed login response: %v", domain.ErrBackendUnavailable, err)
	}
	if resp.AccessToken == "" || resp.User == nil {
		return "", nil, fmt.Errorf("%w: login response missing token or user", domain.ErrBackendUnavailable)
	}

	return resp.AccessToken, resp.User, nil
}

// Me re-checks the identity behind a token. Anything other than a valid user
// record (rejection, malformed body, missing id) means the session is over.
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	body, status, err := c.roundTrip(ctx, token, http.MethodGet, mePath, nil, nil, "")
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, domain.ErrSessionExpired
	}

	var user domain.User
	if err := json.Unmarshal(body, &user); err != nil || user.ID == 0 {
		return nil, domain.ErrSessionExpired
	}

	return &user, nil
}

// Logout tells the backend the token is being discarded. Callers treat the
// result as advisory.
func (c *Client) Logout(ctx context.Context, token string) error {
	body, status, err := c.roundTrip(ctx, token, http.MethodPost, logoutPath, nil, nil, "")
	if err != nil {
		return err
	}
	if status >= 400 {
		return &domain.RemoteError{StatusCode: status, Detail: decodeDetail(body)}
	}
	return nil
}
