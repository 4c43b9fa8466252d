package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/host-uk/coolifyctl/client"
	"github.com/host-uk/coolifyctl/faults"
)

const (
	// CatalogFileEnvVar points the catalog at an alternative file, mainly
	// for tests and CI.
	CatalogFileEnvVar = "COOLIFY_CONTEXTS_FILE"

	// APIURLEnvVar and APITokenEnvVar override the selected context's
	// endpoint and credential without touching the catalog file.
	APIURLEnvVar   = "COOLIFY_API_URL"
	APITokenEnvVar = "COOLIFY_API_TOKEN"

	DefaultCatalogPath = "~/.config/coolifyctl/contexts.yaml"
)

// Catalog is the persisted set of named API contexts.
type Catalog struct {
	Contexts   []Context `yaml:"contexts"`
	CurrentCtx string    `yaml:"current-ctx,omitempty"`
}

// Context is one named Coolify endpoint plus its client settings. APIToken
// is a bearer secret; it is sent in the Authorization header and never
// logged or echoed.
type Context struct {
	Name     string `yaml:"name"`
	APIURL   string `yaml:"api-url"`
	APIToken string `yaml:"api-token,omitempty"`

	// SpecPath locates the OpenAPI document for this endpoint: a local
	// file path or an http(s) URL.
	SpecPath string `yaml:"spec-path,omitempty"`

	Timeout            string  `yaml:"timeout,omitempty"`
	InsecureSkipVerify bool    `yaml:"insecure-skip-verify,omitempty"`
	MaxAttempts        int     `yaml:"max-attempts,omitempty"`
	BackoffBase        string  `yaml:"backoff-base,omitempty"`
	RequestsPerSecond  float64 `yaml:"requests-per-second,omitempty"`
}

// Validate checks the fields a context needs before a client can be built
// from it.
func (c Context) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return faults.NewTypedError(faults.ValidationError, "context name is required", nil)
	}
	if strings.TrimSpace(c.APIURL) == "" {
		return faults.NewTypedError(faults.ValidationError, "context '"+c.Name+"' has no api-url", nil)
	}
	if _, err := parseDuration(c.Timeout); err != nil {
		return faults.NewTypedError(faults.ValidationError, "context '"+c.Name+"' has an invalid timeout", err)
	}
	if _, err := parseDuration(c.BackoffBase); err != nil {
		return faults.NewTypedError(faults.ValidationError, "context '"+c.Name+"' has an invalid backoff-base", err)
	}
	return nil
}

// ClientOptions converts the context into transport options. Zero values
// fall through to the client defaults.
func (c Context) ClientOptions() (client.Options, error) {
	timeout, err := parseDuration(c.Timeout)
	if err != nil {
		return client.Options{}, faults.NewTypedError(faults.ValidationError,
			"context '"+c.Name+"' has an invalid timeout", err)
	}
	backoff, err := parseDuration(c.BackoffBase)
	if err != nil {
		return client.Options{}, faults.NewTypedError(faults.ValidationError,
			"context '"+c.Name+"' has an invalid backoff-base", err)
	}
	return client.Options{
		BaseURL:            c.APIURL,
		Token:              c.APIToken,
		Timeout:            timeout,
		InsecureSkipVerify: c.InsecureSkipVerify,
		MaxAttempts:        c.MaxAttempts,
		BackoffBase:        backoff,
		RequestsPerSecond:  c.RequestsPerSecond,
	}, nil
}

func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return time.ParseDuration(value)
}

// ApplyEnvOverrides layers the well-known environment variables over the
// context.
func (c Context) ApplyEnvOverrides() Context {
	if url := strings.TrimSpace(os.Getenv(APIURLEnvVar)); url != "" {
		c.APIURL = url
	}
	if token := strings.TrimSpace(os.Getenv(APITokenEnvVar)); token != "" {
		c.APIToken = token
	}
	return c
}

// CatalogPath resolves the catalog file location: the env override when
// set, otherwise the default under the user's home directory.
func CatalogPath() (string, error) {
	if path := strings.TrimSpace(os.Getenv(CatalogFileEnvVar)); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", faults.NewTypedError(faults.InternalError, "resolve home directory", err)
	}
	return filepath.Join(home, strings.TrimPrefix(DefaultCatalogPath, "~/")), nil
}
