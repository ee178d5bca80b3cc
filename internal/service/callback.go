package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/localspot/localspot-api/internal/domain/auth"
	"github.com/localspot/localspot-api/internal/ports"
)

// CallbackDeps groups the ports the callback pipeline needs.
type CallbackDeps struct {
	Exchanger ports.SessionExchanger
	Profiles  ports.ProfileStore
	Ownership ports.OwnershipStore
	Sessions  ports.SessionStore
}

// CallbackServiceOptions groups dependencies for CallbackService.
type CallbackServiceOptions struct {
	Deps   CallbackDeps
	Wait   ProfileWaitConfig
	Logger *slog.Logger
}

// CallbackService resolves one post-authentication callback request into a
// single redirect decision: classify, exchange, resolve identity, check
// business tie-in, sync the profile role, decide. Stateless across requests.
type CallbackService struct {
	exchanger ports.SessionExchanger
	profiles  ports.ProfileStore
	ownership ports.OwnershipStore
	sessions  ports.SessionStore
	wait      ProfileWaitConfig
	log       *slog.Logger

	// sleepFn overrides the backoff sleep in tests.
	sleepFn func(time.Duration)
}

// NewCallbackService constructs a new CallbackService.
func NewCallbackService(opts CallbackServiceOptions) *CallbackService {
	if opts.Deps.Exchanger == nil {
		panic("SessionExchanger is required")
	}
	if opts.Deps.Profiles == nil {
		panic("ProfileStore is required")
	}
	if opts.Deps.Ownership == nil {
		panic("OwnershipStore is required")
	}

	wait := opts.Wait
	wait.Sanitize()

	return &CallbackService{
		exchanger: opts.Deps.Exchanger,
		profiles:  opts.Deps.Profiles,
		ownership: opts.Deps.Ownership,
		sessions:  opts.Deps.Sessions,
		wait:      wait,
		log:       opts.Logger,
	}
}

func (s *CallbackService) logger() *slog.Logger {
	if s.log != nil {
		return s.log
	}
	return slog.Default()
}

// Outcome is the pipeline's result for one request. Exactly one of the
// shapes applies: a hash-fragment confirmation page, or a redirect decision
// (with a session when the exchange succeeded).
type Outcome struct {
	Classification Classification
	Decision       Decision
	// Session is non-nil only after a successful exchange.
	Session *domainauth.Session
}

// Complete runs the full callback pipeline for one request.
// It never returns an error for exchange or lookup failures; those collapse
// into the decision so the user always gets forward progress.
func (s *CallbackService) Complete(ctx context.Context, params CallbackParams) Outcome {
	cls := Classify(params)

	switch cls.Kind {
	case KindError:
		s.logger().InfoContext(ctx, "provider error on callback",
			"error", params.Error, "description", params.ErrorDescription)
		return Outcome{
			Classification: cls,
			Decision: Decide(Facts{
				ProviderError: true,
				ErrorMessage:  cls.ErrorMessage,
				Next:          params.Next,
			}),
		}

	case KindHashFragment:
		// The tokens never reached the server; the HTTP layer returns the
		// client-side confirmation document.
		return Outcome{Classification: cls}

	default:
		return s.completeExchange(ctx, params, cls)
	}
}

func (s *CallbackService) completeExchange(ctx context.Context, params CallbackParams, cls Classification) Outcome {
	result, err := s.exchange(ctx, params, cls)
	if err != nil {
		s.logger().WarnContext(ctx, "session exchange failed",
			"flow", string(cls.Flow), "error", err)
		return Outcome{
			Classification: cls,
			Decision:       Decide(Facts{ExchangeFailed: true, Flow: cls.Flow, Next: params.Next}),
		}
	}

	user := result.User
	res := s.resolveIdentity(ctx, user)

	tieIn := false
	if res.IsNewUser() && cls.Flow == domainauth.FlowOAuth {
		tieIn = s.checkBusinessTieIn(ctx, user)
	}

	s.syncProfileRole(ctx, user, res)

	session := s.persistSession(ctx, user, res.Role, result)

	facts := Facts{
		Flow:           cls.Flow,
		IsNewUser:      res.IsNewUser(),
		Role:           res.Role,
		EmailConfirmed: user.EmailConfirmed(),
		TieIn:          tieIn,
		Next:           params.Next,
	}
	if res.Profile != nil {
		facts.OnboardingComplete = res.Profile.OnboardingComplete
	}

	return Outcome{
		Classification: cls,
		Decision:       Decide(facts),
		Session:        session,
	}
}

func (s *CallbackService) exchange(ctx context.Context, params CallbackParams, cls Classification) (ports.ExchangeResult, error) {
	if params.Code != "" {
		return s.exchanger.ExchangeCode(ctx, params.Code)
	}
	return s.exchanger.VerifyOTP(ctx, ports.VerifyOTPInput{
		Token: params.OTPToken(),
		Flow:  cls.Flow,
		Email: params.Email,
	})
}

// persistSession mints and saves the server-side session. Best-effort: the
// exchange already succeeded, so a store failure is logged and the request
// still moves forward with the token cookies alone.
func (s *CallbackService) persistSession(ctx context.Context, user domainauth.User, role domainauth.Role, result ports.ExchangeResult) *domainauth.Session {
	session := &domainauth.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		Email:        user.Email,
		Role:         role,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    result.ExpiresAt,
	}

	if s.sessions == nil {
		return session
	}
	if err := s.sessions.Save(ctx, *session); err != nil {
		s.logger().WarnContext(ctx, "session save failed",
			"user_id", user.ID, "error", err)
	}
	return session
}
