package env

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"reactapp-uitests/internal/application/port/output"
	"reactapp-uitests/internal/domain/entity"
)

var _ output.ConfigPort = (*EnvService)(nil)

type EnvService struct {
	lookup func(string) (string, bool)
	loaded []string
}

// NewEnvService loads .env and then .env.<APP_ENV> from the working directory;
// the environment-specific file overrides .env, and variables already present
// in the process environment always win.
func NewEnvService() *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}
	return NewEnvServiceFromFiles(".env", fmt.Sprintf(".env.%s", appEnv))
}

// NewEnvServiceFromFiles layers files in order, so later files override
// earlier ones. The merged values are exported without replacing variables
// the process environment already sets.
func NewEnvServiceFromFiles(files ...string) *EnvService {
	svc := &EnvService{lookup: os.LookupEnv}
	merged := map[string]string{}
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Printf("Warning: could not load %s: %v", file, err)
			}
			continue
		}
		for k, v := range values {
			merged[k] = v
		}
		svc.loaded = append(svc.loaded, file)
	}
	for k, v := range merged {
		if _, set := os.LookupEnv(k); set {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			log.Printf("Warning: could not set %s: %v", k, err)
		}
	}
	return svc
}

// NewEnvServiceFromMap reads only from vars; used where the process environment must not leak in.
func NewEnvServiceFromMap(vars map[string]string) *EnvService {
	return &EnvService{lookup: func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}}
}

func (e *EnvService) Loaded() []string {
	return e.loaded
}

func (e *EnvService) Get(key string) string {
	v, _ := e.lookup(key)
	return v
}

func (e *EnvService) MustGet(key string) string {
	val := e.Get(key)
	if val == "" {
		log.Fatalf("ENV %s is missing", key)
	}
	return val
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	if val := e.Get(key); val != "" {
		return val
	}
	return defaultValue
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) RunConfiguration() (entity.RunConfiguration, []error) {
	return ResolveRunConfiguration(e.lookup)
}
