package input

import "context"

type LoginFlow interface {
	Navigate(ctx context.Context, baseURL string) error
	Login(ctx context.Context, email, password string) error
	IsLoggedIn(ctx context.Context) (bool, error)
	Logout(ctx context.Context) error
}

type RegistrationFlow interface {
	Navigate(ctx context.Context, baseURL string) error
	Register(ctx context.Context, email, password, confirmPassword string) error
	IsRegistrationConfirmed(ctx context.Context) bool

	// GetEmailConfirmationLink and ConfirmAccount exist for parity with
	// applications that require email confirmation.
	GetEmailConfirmationLink(ctx context.Context) (string, error)
	ConfirmAccount(ctx context.Context) error
}
