package domain

import "time"

// Session is the server-side record of one authenticated browser session.
// It owns the backend bearer token: the backend client reads the token from
// here on every call, so destroying the session atomically stops any later
// request from carrying it.
type Session struct {
	ID             string    `json:"id"`
	Token          string    `json:"token"`
	User           *User     `json:"user,omitempty"`
	SelectedClinic *Clinic   `json:"selected_clinic,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	RefreshedAt    time.Time `json:"refreshed_at"`
}

// IsAuthenticated reports whether the session carries a verified principal.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// CanAccess reports whether the session's user may use the given module.
// Always false without a user.
func (s *Session) CanAccess(module Module) bool {
	if !s.IsAuthenticated() {
		return false
	}
	return HasModuleAccess(s.User.Role, module)
}

// LoginAttempt is one audit-trail entry for a console login, successful
// or not.
type LoginAttempt struct {
	ID        string    `json:"id,omitempty"`
	Username  string    `json:"username"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent,omitempty"`
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}
