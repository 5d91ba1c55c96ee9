// Package pages holds the page objects of the application under test.
// Each page object owns its session for its lifetime and is used by a single flow.
package pages

import (
	"context"
	"time"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/usecase/navigation"
)

const (
	LoginPath    = "login"
	RegisterPath = "register"

	authenticatedRoute = "/my-rooms"
	loginRoute         = "/login"

	// ControlReadyTimeout covers event handlers attached after the first render.
	ControlReadyTimeout = 5 * time.Second
)

var authenticatedLanding = entity.Glob("**" + authenticatedRoute)

var (
	emailInput    = entity.TestID("email-input").Descendant("input")
	passwordInput = entity.TestID("password-input").Descendant("input")
)

type Base struct {
	session   output.SessionPort
	navigator *navigation.Navigator
	logger    output.LoggerPort
}

func NewBase(session output.SessionPort, navigator *navigation.Navigator, logger output.LoggerPort) Base {
	return Base{
		session:   session,
		navigator: navigator,
		logger:    logger,
	}
}

func (b *Base) Navigate(ctx context.Context, baseURL, path string) error {
	target, err := entity.NewNavigationTarget(baseURL, path)
	if err != nil {
		return err
	}
	return b.navigator.NavigateTo(ctx, b.session, target)
}

func (b *Base) Session() output.SessionPort {
	return b.session
}

func (b *Base) CurrentURL() string {
	return b.session.CurrentURL()
}

func (b *Base) fill(ctx context.Context, sel entity.Selector, text string) error {
	ctx, cancel := context.WithTimeout(ctx, b.navigator.Timeout())
	defer cancel()
	return b.session.Fill(ctx, sel, text)
}

// submit waits for the control, then force-clicks it and waits for the
// authenticated landing page. Forcing skips occlusion checks that misreport
// on some headless Linux setups.
func (b *Base) submit(ctx context.Context, control entity.Selector) error {
	if err := b.navigator.WaitForControl(ctx, b.session, control, ControlReadyTimeout); err != nil {
		return err
	}

	click := func(ctx context.Context) error {
		return b.session.Click(ctx, control, true)
	}
	return b.navigator.PerformActionAndAwaitURL(ctx, b.session, click, entity.WaitCondition{
		URL:       authenticatedLanding,
		Timeout:   b.navigator.Timeout(),
		LoadState: entity.LoadStateLoad,
	})
}

func (b *Base) present(ctx context.Context, sel entity.Selector) (bool, error) {
	n, err := b.session.Count(ctx, sel)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
