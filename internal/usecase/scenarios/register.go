package scenarios

import (
	"context"
	"fmt"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/usecase/pages"
)

var _ output.ScenarioPort = (*Register)(nil)

type Register struct {
	deps Deps
}

func NewRegister(deps Deps) *Register {
	return &Register{deps: deps}
}

func (s *Register) Name() string {
	return "register"
}

func (s *Register) Description() string {
	return "Registers a fresh account and expects to land signed in."
}

func (s *Register) Run(ctx context.Context, session output.SessionPort, target entity.ScenarioTarget) error {
	creds := credentials(target)
	page := pages.NewRegisterPage(session, s.deps.Navigator, s.deps.Logger)

	if err := page.Navigate(ctx, target.BaseURL); err != nil {
		return err
	}
	if err := page.Register(ctx, creds.Email, creds.Password, creds.Password); err != nil {
		return err
	}

	link, err := page.GetEmailConfirmationLink(ctx)
	if err != nil {
		return fmt.Errorf("confirmation link: %w", err)
	}
	if link != "" {
		s.deps.Logger.Info("Confirmation link issued", "link", link)
	}
	if err := page.ConfirmAccount(ctx); err != nil {
		return fmt.Errorf("confirm account: %w", err)
	}

	return expect(page.IsRegistrationConfirmed(ctx), "registration of %s not confirmed, at %s", creds.Email, page.CurrentURL())
}
