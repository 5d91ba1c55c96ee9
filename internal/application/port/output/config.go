package output

import "reactapp-uitests/internal/domain/entity"

type ConfigPort interface {
	Get(key string) string
	MustGet(key string) string
	GetWithDefault(key string, defaultValue string) string
	GetBool(key string, defaultValue bool) bool
	GetInt(key string, defaultValue int) int

	// RunConfiguration resolves browser execution settings. The returned errors
	// are non-fatal parse problems; the configuration already holds the fallbacks.
	RunConfiguration() (entity.RunConfiguration, []error)
}
