package navigation

import (
	"context"

	"github.com/stretchr/testify/mock"

	"reactapp-uitests/internal/domain/entity"
)

type mockSession struct {
	mock.Mock
}

func (m *mockSession) Goto(ctx context.Context, url string, state entity.LoadState) error {
	args := m.Called(ctx, url, state)
	return args.Error(0)
}

func (m *mockSession) CurrentURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockSession) Fill(ctx context.Context, sel entity.Selector, text string) error {
	args := m.Called(ctx, sel, text)
	return args.Error(0)
}

func (m *mockSession) Click(ctx context.Context, sel entity.Selector, force bool) error {
	args := m.Called(ctx, sel, force)
	return args.Error(0)
}

func (m *mockSession) Count(ctx context.Context, sel entity.Selector) (int, error) {
	args := m.Called(ctx, sel)
	return args.Int(0), args.Error(1)
}

func (m *mockSession) WaitForElement(ctx context.Context, sel entity.Selector, state entity.ElementState) error {
	args := m.Called(ctx, sel, state)
	return args.Error(0)
}

func (m *mockSession) WaitForURL(ctx context.Context, pattern entity.URLPattern, state entity.LoadState) error {
	args := m.Called(ctx, pattern, state)
	return args.Error(0)
}

func (m *mockSession) WaitForLoadState(ctx context.Context, state entity.LoadState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *mockSession) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Screenshot), args.Error(1)
}

func (m *mockSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

// blockUntilDone stands in for a driver wait that never succeeds.
func blockUntilDone(args mock.Arguments) {
	<-args.Get(0).(context.Context).Done()
}
