// Package scenarios composes the page objects into end-to-end checks.
package scenarios

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
	"reactapp-uitests/internal/usecase/navigation"
)

var ErrExpectation = errors.New("expectation failed")

const DefaultPassword = "Passw0rd!"

type Deps struct {
	Navigator *navigation.Navigator
	Logger    output.LoggerPort
	// RejectionTimeout bounds submits that are expected to be refused.
	RejectionTimeout time.Duration
}

// All returns the catalogue in run order.
func All(deps Deps) []output.ScenarioPort {
	return []output.ScenarioPort{
		NewRegister(deps),
		NewJourney(deps),
		NewPasswordMismatch(deps),
	}
}

// UniqueEmail derives a fresh address from base so reruns never collide with
// accounts left behind by earlier runs.
func UniqueEmail(base string) string {
	tag := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	local, domain, ok := strings.Cut(base, "@")
	if !ok || local == "" || domain == "" {
		return fmt.Sprintf("uitest+%s@example.com", tag)
	}
	if i := strings.IndexByte(local, '+'); i >= 0 {
		local = local[:i]
	}
	return fmt.Sprintf("%s+%s@%s", local, tag, domain)
}

func credentials(target entity.ScenarioTarget) entity.Credentials {
	password := target.Credentials.Password
	if password == "" {
		password = DefaultPassword
	}
	return entity.Credentials{Email: UniqueEmail(target.Credentials.Email), Password: password}
}

func expect(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrExpectation, fmt.Sprintf(format, args...))
}
