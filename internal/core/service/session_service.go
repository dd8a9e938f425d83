package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/image-ehr/clinic-console/internal/core/domain"
	"github.com/image-ehr/clinic-console/internal/core/ports"
)

const defaultRevalidateAfter = 5 * time.Minute

type sessionService struct {
	store           ports.SessionStore
	gateway         ports.BackendGateway
	guard           ports.LoginGuard
	audit           ports.AuditSink
	revalidateAfter time.Duration
	log             zerolog.Logger
}

// NewSessionService returns a SessionService implementation. revalidateAfter
// controls how stale a session's last identity check may grow before Current
// re-checks the token against the backend; <= 0 selects the default.
func NewSessionService(
	store ports.SessionStore,
	gateway ports.BackendGateway,
	guard ports.LoginGuard,
	audit ports.AuditSink,
	revalidateAfter time.Duration,
	log zerolog.Logger,
) ports.SessionService {
	if revalidateAfter <= 0 {
		revalidateAfter = defaultRevalidateAfter
	}
	return &sessionService{
		store:           store,
		gateway:         gateway,
		guard:           guard,
		audit:           audit,
		revalidateAfter: revalidateAfter,
		log:             log,
	}
}

// Login authenticates against the backend and creates the session record.
func (s *sessionService) Login(ctx context.Context, in ports.LoginInput) (*domain.Session, error) {
	// 1. Reject a duplicate submit while a login for this username is still
	// in flight. A guard failure is not fatal: proceed and let the backend
	// arbitrate.
	acquired, err := s.guard.Acquire(ctx, in.Username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("login guard unavailable, proceeding")
	} else if !acquired {
		return nil, domain.ErrLoginInFlight
	}
	defer func() {
		if err := s.guard.Release(ctx, in.Username); err != nil {
			s.log.Warn().Err(err).Str("username", in.Username).Msg("login guard release failed")
		}
	}()

	// 2. Exchange credentials for a token. Rejection leaves no state behind.
	token, user, err := s.gateway.Login(ctx, in.Username, in.Password)
	if err != nil {
		s.recordAttempt(in, false, err.Error())
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.log.Info().Str("username", in.Username).Msg("login rejected")
		} else {
			s.log.Error().Err(err).Str("username", in.Username).Msg("login failed against backend")
		}
		return nil, err
	}

	// 3. Build and persist the session; clinic scope defaults to the user's
	// home clinic for clinic-bound roles.
	now := time.Now().UTC()
	sess := &domain.Session{
		ID:          uuid.NewString(),
		Token:       token,
		User:        user,
		CreatedAt:   now,
		RefreshedAt: now,
	}
	s.autoSelectClinic(sess)

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.recordAttempt(in, true, "")
	s.log.Info().
		Str("username", in.Username).
		Str("role", string(user.Role)).
		Str("session_id", sess.ID).
		Msg("login successful")

	return sess, nil
}

// Current loads the session and revalidates a stale token against the
// backend. Every revalidation failure collapses to ErrSessionExpired: the
// stored record is destroyed and the caller lands back on the login screen.
func (s *sessionService) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if time.Since(sess.RefreshedAt) < s.revalidateAfter {
		return sess, nil
	}

	user, err := s.gateway.Me(ctx, sess.Token)
	if err != nil {
		// Expected end-of-session path, not a user-facing error.
		s.log.Debug().Err(err).Str("session_id", sessionID).Msg("identity re-check failed, destroying session")
		if delErr := s.store.Delete(ctx, sessionID); delErr != nil {
			s.log.Warn().Err(delErr).Str("session_id", sessionID).Msg("failed to delete expired session")
		}
		return nil, domain.ErrSessionExpired
	}

	sess.User = user
	sess.RefreshedAt = time.Now().UTC()
	s.autoSelectClinic(sess)

	if err := s.store.Save(ctx, sess); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to persist refreshed session")
	}

	return sess, nil
}

// Logout destroys the session. The backend notify is best effort; local
// teardown always completes, and a second call finds nothing to do.
func (s *sessionService) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("session load failed during logout")
	}

	if sess != nil && sess.Token != "" {
		if err := s.gateway.Logout(ctx, sess.Token); err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("backend logout notify failed")
		}
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		// Local logout must still succeed from the caller's perspective.
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("failed to delete session record")
	}

	return nil
}

// SwitchClinic changes the session's clinic scope without touching the token.
func (s *sessionService) SwitchClinic(ctx context.Context, sessionID string, clinicID int) (*domain.Session, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	clinic, ok := domain.ClinicByID(clinicID)
	if !ok {
		return nil, domain.ErrUnknownClinic
	}

	sess.SelectedClinic = &clinic
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return sess, nil
}

// autoSelectClinic pins the user's home clinic for clinic-bound roles when
// no clinic is selected yet. A clinic_id outside the registry is a silent
// no-op beyond the warning: the backend remains the source of truth.
func (s *sessionService) autoSelectClinic(sess *domain.Session) {
	if sess.User == nil || sess.User.Role.IsAdminEquivalent() || sess.SelectedClinic != nil {
		return
	}
	if sess.User.ClinicID == 0 {
		s.log.Warn().Str("username", sess.User.Username).Msg("clinic-bound user without clinic_id")
		return
	}
	clinic, ok := domain.ClinicByID(sess.User.ClinicID)
	if !ok {
		s.log.Warn().
			Str("username", sess.User.Username).
			Int("clinic_id", sess.User.ClinicID).
			Msg("user clinic_id not in registry, leaving scope unselected")
		return
	}
	sess.SelectedClinic = &clinic
}

func (s *sessionService) recordAttempt(in ports.LoginInput, success bool, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.LoginAttempt{
		Username:  in.Username,
		IP:        in.IP,
		UserAgent: in.UserAgent,
		Success:   success,
		Reason:    reason,
		At:        time.Now().UTC(),
	})
}
