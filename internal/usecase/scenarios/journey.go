package scenarios

import (
	"context"
	"fmt"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/usecase/pages"
)

var _ output.ScenarioPort = (*Journey)(nil)

// Journey walks a full account lifecycle: register, sign out, sign back in.
type Journey struct {
	deps Deps
}

func NewJourney(deps Deps) *Journey {
	return &Journey{deps: deps}
}

func (s *Journey) Name() string {
	return "journey"
}

func (s *Journey) Description() string {
	return "Registers, logs out, logs back in and logs out again."
}

func (s *Journey) Run(ctx context.Context, session output.SessionPort, target entity.ScenarioTarget) error {
	creds := credentials(target)
	register := pages.NewRegisterPage(session, s.deps.Navigator, s.deps.Logger)
	login := pages.NewLoginPage(session, s.deps.Navigator, s.deps.Logger)

	if err := register.Navigate(ctx, target.BaseURL); err != nil {
		return err
	}
	if err := register.Register(ctx, creds.Email, creds.Password, creds.Password); err != nil {
		return err
	}
	if err := s.expectLoggedIn(ctx, login, true, "after registration"); err != nil {
		return err
	}

	if err := login.Logout(ctx); err != nil {
		return err
	}
	if err := login.Navigate(ctx, target.BaseURL); err != nil {
		return err
	}
	if err := s.expectLoggedIn(ctx, login, false, "after logout"); err != nil {
		return err
	}

	if err := login.Login(ctx, creds.Email, creds.Password); err != nil {
		return err
	}
	if err := s.expectLoggedIn(ctx, login, true, "after login"); err != nil {
		return err
	}
	return login.Logout(ctx)
}

func (s *Journey) expectLoggedIn(ctx context.Context, login *pages.LoginPage, want bool, when string) error {
	got, err := login.IsLoggedIn(ctx)
	if err != nil {
		return fmt.Errorf("check login state %s: %w", when, err)
	}
	return expect(got == want, "logged in = %t %s, want %t (at %s)", got, when, want, login.CurrentURL())
}
