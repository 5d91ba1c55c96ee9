package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reactapp-uitests/internal/application/port/input"
	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/usecase/navigation"
)

var _ input.RegistrationFlow = (*RegisterPage)(nil)

var (
	confirmPasswordInput = entity.TestID("confirm-password-input").Descendant("input")
	registerButton       = entity.TestID("register-button")
	passwordMismatchHint = entity.TestID("password-mismatch-error")
	duplicateEmailHint   = entity.TestID("duplicate-email-error")
)

type RegisterPage struct {
	Base
}

func NewRegisterPage(session output.SessionPort, navigator *navigation.Navigator, logger output.LoggerPort) *RegisterPage {
	return &RegisterPage{Base: NewBase(session, navigator, logger.Named("register_page"))}
}

func (p *RegisterPage) Navigate(ctx context.Context, baseURL string) error {
	return p.Base.Navigate(ctx, baseURL, RegisterPath)
}

// Register submits the form and waits for the authenticated landing page; the
// application signs new accounts in directly.
func (p *RegisterPage) Register(ctx context.Context, email, password, confirmPassword string) error {
	p.logger.Info("Registering", "email", email)

	if err := p.fill(ctx, emailInput, email); err != nil {
		return fmt.Errorf("fill email: %w", err)
	}
	if err := p.fill(ctx, passwordInput, password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := p.fill(ctx, confirmPasswordInput, confirmPassword); err != nil {
		return fmt.Errorf("fill confirm password: %w", err)
	}

	err := p.submit(ctx, registerButton)
	if err == nil {
		return nil
	}
	if !errors.Is(err, entity.ErrNavigationTimeout) {
		return fmt.Errorf("register %s: %w", email, err)
	}
	if reason := p.rejectionReason(ctx, password, confirmPassword); reason != nil {
		p.logger.Warn("Registration rejected", "email", email, "reason", reason)
		return &entity.RegistrationError{Email: email, Reason: reason, Err: err}
	}
	return fmt.Errorf("register %s: %w", email, err)
}

func (p *RegisterPage) rejectionReason(ctx context.Context, password, confirmPassword string) error {
	if password != confirmPassword {
		return entity.ErrPasswordMismatch
	}
	// the submit deadline has passed; probes get their own budget
	probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ControlReadyTimeout)
	defer cancel()

	if ok, err := p.present(probeCtx, passwordMismatchHint); err == nil && ok {
		return entity.ErrPasswordMismatch
	}
	if ok, err := p.present(probeCtx, duplicateEmailHint); err == nil && ok {
		return entity.ErrDuplicateRegistration
	}
	return nil
}

func (p *RegisterPage) IsRegistrationConfirmed(ctx context.Context) bool {
	return strings.Contains(p.CurrentURL(), authenticatedRoute)
}

func (p *RegisterPage) GetEmailConfirmationLink(ctx context.Context) (string, error) {
	return "", nil
}

func (p *RegisterPage) ConfirmAccount(ctx context.Context) error {
	return nil
}
