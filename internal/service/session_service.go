package service

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/decor-manager/internal/clock"
	"github.com/spec-kit/decor-manager/internal/config"
	"github.com/spec-kit/decor-manager/internal/domain"
	"github.com/spec-kit/decor-manager/internal/observability"
	"github.com/spec-kit/decor-manager/internal/persistence"
	"github.com/spec-kit/decor-manager/internal/repository"
)

// Storage keys of a client scope.
const (
	keyIdentity      = "wedding_auth_user"
	keyAuthProviders = "wedding_auth_settings"
	keyChallenge     = "wedding_otp_data"
	keyOTPFlow       = "auth_phone"
)

// SessionService holds what every client session shares.
type SessionService struct {
	directory repository.Directory
	demo      repository.Directory
	provider  CredentialProvider
	sender    OTPSender
	host      HostUI
	clock     clock.Clock
	logger    *zap.Logger
	metrics   *observability.Metrics

	otpCode        string
	otpTTL         time.Duration
	resendCooldown time.Duration
	maxAttempts    int
	demoPassword   string
	minPassword    int
	latency        time.Duration

	challengeLocks challengeLocks
}

// SessionDependencies encapsulates collaborators for the session service.
type SessionDependencies struct {
	Directory     repository.Directory
	// DemoDirectory holds the accounts accepted with the demo password.
	// It defaults to Directory when no provider is configured.
	DemoDirectory repository.Directory
	Provider      CredentialProvider
	OTPSender     OTPSender
	HostUI        HostUI
	Clock         clock.Clock
	Logger        *zap.Logger
	Metrics       *observability.Metrics
}

// NewSessionService builds the service.
func NewSessionService(cfg config.AuthConfig, deps SessionDependencies) *SessionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.System{}
	}
	sender := deps.OTPSender
	if sender == nil {
		sender = LogOTPSender{Logger: logger}
	}
	demo := deps.DemoDirectory
	if demo == nil && deps.Provider == nil {
		demo = deps.Directory
	}
	maxAttempts := cfg.OTPMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &SessionService{
		directory:      deps.Directory,
		demo:           demo,
		provider:       deps.Provider,
		sender:         sender,
		host:           hostOrLog(deps.HostUI, logger),
		clock:          clk,
		logger:         logger,
		metrics:        deps.Metrics,
		otpCode:        cfg.DemoOTPCode,
		otpTTL:         cfg.OTPTTL(),
		resendCooldown: cfg.ResendCooldown(),
		maxAttempts:    maxAttempts,
		demoPassword:   cfg.DemoPassword,
		minPassword:    cfg.MinPasswordLength,
		latency:        cfg.SimulatedLatency(),
	}
}

// SessionStores are the two storage namespaces of one client.
type SessionStores struct {
	// Client identifies the scope. Sessions of one client serialize OTP checks.
	Client  string
	Durable persistence.Store
	Session persistence.Store
}

// Session is the controller of a single client scope.
type Session struct {
	svc     *SessionService
	client  string
	durable persistence.Store
	scoped  persistence.Store

	mu      sync.RWMutex
	current *domain.Identity
}

// Open builds a client controller and restores any stored identity.
func (s *SessionService) Open(ctx context.Context, stores SessionStores) *Session {
	sess := &Session{svc: s, client: stores.Client, durable: stores.Durable, scoped: stores.Session}
	sess.restore(ctx)
	return sess
}

// Current returns a copy of the authenticated identity, if any.
func (s *Session) Current() (*domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	identity := *s.current
	return &identity, true
}

// IsAuthenticated reports whether an identity is present.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// Providers returns the login method flags merged over the defaults.
func (s *Session) Providers(ctx context.Context) domain.AuthProviders {
	providers := domain.DefaultAuthProviders()
	stored := providers
	if ok := s.read(ctx, s.durable, keyAuthProviders, &stored); ok {
		providers = stored
	}
	return providers
}

// SetProviders persists the login method flags.
func (s *Session) SetProviders(ctx context.Context, providers domain.AuthProviders) {
	s.write(ctx, s.durable, keyAuthProviders, providers)
}

// Logout clears the identity and every session-scoped key.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current != nil && s.svc.provider != nil {
		if err := s.svc.provider.SignOut(ctx, current.ID); err != nil {
			s.svc.logger.Warn("provider sign-out failed", zap.Error(err))
		}
	}
	if err := s.durable.Delete(ctx, keyIdentity); err != nil {
		s.svc.logger.Warn("clear durable identity", zap.Error(err))
	}
	if err := s.scoped.DeletePrefix(ctx, ""); err != nil {
		s.svc.logger.Warn("clear session storage", zap.Error(err))
	}
	s.svc.host.Toast("Logged out successfully", "success")
}

// establish records identity as authenticated in the requested store.
func (s *Session) establish(ctx context.Context, identity domain.Identity, remember bool) {
	s.mu.Lock()
	s.current = &identity
	s.mu.Unlock()

	target, other := s.scoped, s.durable
	if remember {
		target, other = s.durable, s.scoped
	}
	s.write(ctx, target, keyIdentity, identity)
	if err := other.Delete(ctx, keyIdentity); err != nil {
		s.svc.logger.Warn("clear stale identity", zap.Error(err))
	}
	if err := s.scoped.Delete(ctx, keyOTPFlow); err != nil {
		s.svc.logger.Warn("clear otp flow", zap.Error(err))
	}
}

func (s *Session) restore(ctx context.Context) {
	for _, store := range []persistence.Store{s.durable, s.scoped} {
		var stored domain.Identity
		if ok := s.read(ctx, store, keyIdentity, &stored); !ok {
			continue
		}
		live, err := s.svc.revalidate(ctx, stored)
		if err != nil {
			s.svc.logger.Info("discarding stored identity", zap.String("identity_id", stored.ID), zap.Error(err))
			if err := store.Delete(ctx, keyIdentity); err != nil {
				s.svc.logger.Warn("clear stored identity", zap.String("identity_id", stored.ID), zap.Error(err))
			}
			continue
		}
		s.mu.Lock()
		s.current = live
		s.mu.Unlock()
		return
	}
}

var errIdentityInactive = errors.New("identity inactive")

// revalidate returns the live directory copy of a stored identity.
func (s *SessionService) revalidate(ctx context.Context, stored domain.Identity) (*domain.Identity, error) {
	live, err := s.directory.FindByID(ctx, stored.ID)
	if errors.Is(err, repository.ErrNotFound) && s.provider != nil {
		live, err = s.provider.FetchProfile(ctx, stored.ID)
	}
	if err != nil {
		return nil, err
	}
	if !live.IsActive {
		return nil, errIdentityInactive
	}
	return live, nil
}

// read loads key from store, logging storage failures and treating them as absent.
func (s *Session) read(ctx context.Context, store persistence.Store, key string, dst any) bool {
	ok, err := persistence.LoadJSON(ctx, store, key, dst)
	if err != nil {
		s.svc.logger.Warn("storage read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

// write is best-effort: failures are logged only.
func (s *Session) write(ctx context.Context, store persistence.Store, key string, v any) {
	if err := persistence.SaveJSON(ctx, store, key, v); err != nil {
		s.svc.logger.Warn("storage write failed", zap.String("key", key), zap.Error(err))
	}
}

const challengeLockStripes = 64

// challengeLocks guards the read-modify-write of a client's OTP challenge.
type challengeLocks [challengeLockStripes]sync.Mutex

func (l *challengeLocks) lock(client string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(client))
	m := &l[h.Sum32()%challengeLockStripes]
	m.Lock()
	return m.Unlock
}
