package scenarios

import (
	"context"
	"errors"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/usecase/pages"
)

var _ output.ScenarioPort = (*PasswordMismatch)(nil)

type PasswordMismatch struct {
	deps Deps
}

func NewPasswordMismatch(deps Deps) *PasswordMismatch {
	return &PasswordMismatch{deps: deps}
}

func (s *PasswordMismatch) Name() string {
	return "password-mismatch"
}

func (s *PasswordMismatch) Description() string {
	return "Submits a mismatched confirmation and expects the registration to be refused."
}

func (s *PasswordMismatch) Run(ctx context.Context, session output.SessionPort, target entity.ScenarioTarget) error {
	creds := credentials(target)
	page := pages.NewRegisterPage(session, s.deps.Navigator.WithTimeout(s.deps.RejectionTimeout), s.deps.Logger)

	if err := page.Navigate(ctx, target.BaseURL); err != nil {
		return err
	}

	err := page.Register(ctx, creds.Email, creds.Password, creds.Password+"-mismatch")
	if err == nil {
		return expect(false, "registration with mismatched confirmation succeeded, at %s", page.CurrentURL())
	}
	if !errors.Is(err, entity.ErrNavigationTimeout) || !errors.Is(err, entity.ErrPasswordMismatch) {
		return err
	}

	return expect(!page.IsRegistrationConfirmed(ctx), "registration confirmed despite mismatch")
}
