package pages

import (
	"context"
	"fmt"
	"strings"

	"reactapp-uitests/internal/application/port/input"
	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/usecase/navigation"
)

var _ input.LoginFlow = (*LoginPage)(nil)

var (
	loginButton   = entity.TestID("login-button")
	logoutButton  = entity.HasText("button", "Logout")
	myRoomsButton = entity.HasText("button", "My Rooms")
)

type LoginPage struct {
	Base
}

func NewLoginPage(session output.SessionPort, navigator *navigation.Navigator, logger output.LoggerPort) *LoginPage {
	return &LoginPage{Base: NewBase(session, navigator, logger.Named("login_page"))}
}

func (p *LoginPage) Navigate(ctx context.Context, baseURL string) error {
	return p.Base.Navigate(ctx, baseURL, LoginPath)
}

func (p *LoginPage) Login(ctx context.Context, email, password string) error {
	p.logger.Info("Logging in", "email", email)

	if err := p.fill(ctx, emailInput, email); err != nil {
		return fmt.Errorf("fill email: %w", err)
	}
	if err := p.fill(ctx, passwordInput, password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := p.submit(ctx, loginButton); err != nil {
		return fmt.Errorf("login %s: %w", email, err)
	}
	return nil
}

// IsLoggedIn decides by URL first and falls back to authenticated-only controls.
// Counting instead of a single-match lookup tolerates zero or many matches.
func (p *LoginPage) IsLoggedIn(ctx context.Context) (bool, error) {
	url := p.CurrentURL()
	if strings.Contains(url, authenticatedRoute) {
		return true, nil
	}
	if strings.Contains(url, loginRoute) {
		return false, nil
	}

	hasLogout, err := p.present(ctx, logoutButton)
	if err != nil {
		return false, fmt.Errorf("probe logout button: %w", err)
	}
	hasMyRooms, err := p.present(ctx, myRoomsButton)
	if err != nil {
		return false, fmt.Errorf("probe my rooms button: %w", err)
	}
	return hasLogout || hasMyRooms, nil
}

// Logout returns once the network is idle so the server side session teardown has been sent.
func (p *LoginPage) Logout(ctx context.Context) error {
	p.logger.Info("Logging out", "url", p.CurrentURL())

	clickCtx, cancel := context.WithTimeout(ctx, p.navigator.Timeout())
	err := p.session.Click(clickCtx, logoutButton, false)
	cancel()
	if err != nil {
		return fmt.Errorf("click logout: %w", err)
	}
	return p.navigator.WaitForNetworkIdle(ctx, p.session, 0)
}
