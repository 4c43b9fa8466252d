package common

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/host-uk/coolifyctl/client"
	"github.com/host-uk/coolifyctl/config"
	"github.com/host-uk/coolifyctl/debugctx"
	"github.com/host-uk/coolifyctl/faults"
	"github.com/host-uk/coolifyctl/openapi"
	"github.com/host-uk/coolifyctl/reconcile"
)

// Dependencies carries the services commands need. Tests swap in a Manager
// pointed at a temporary catalog file.
type Dependencies struct {
	Contexts *config.Manager
}

// ResolveContext picks the effective context for a command: catalog
// selection first, then environment overrides, then command-line flags.
func ResolveContext(deps Dependencies, flags *GlobalFlags) (config.Context, error) {
	if deps.Contexts == nil {
		return config.Context{}, ValidationError("context catalog is not configured", nil)
	}

	// Flag-supplied endpoints work without any catalog entry.
	resolved, err := deps.Contexts.Resolve(flags.Context)
	if err != nil {
		if strings.TrimSpace(flags.APIURL) == "" {
			return config.Context{}, err
		}
		resolved = config.Context{Name: "default"}
	}

	if strings.TrimSpace(flags.APIURL) != "" {
		resolved.APIURL = flags.APIURL
	}
	if strings.TrimSpace(flags.APIToken) != "" {
		resolved.APIToken = flags.APIToken
	}
	if strings.TrimSpace(flags.SpecPath) != "" {
		resolved.SpecPath = flags.SpecPath
	}
	if strings.TrimSpace(flags.Timeout) != "" {
		resolved.Timeout = flags.Timeout
	}
	if flags.Insecure {
		resolved.InsecureSkipVerify = true
	}
	return resolved, nil
}

// Connect builds a reconciler for the effective context: resolve settings,
// load and index the OpenAPI document, construct the API client.
func Connect(command *cobra.Command, deps Dependencies, flags *GlobalFlags) (*reconcile.Reconciler, error) {
	resolved, err := ResolveContext(deps, flags)
	if err != nil {
		return nil, err
	}

	opts, err := resolved.ClientOptions()
	if err != nil {
		return nil, err
	}

	doc, err := loadSpecDocument(command.Context(), resolved, opts)
	if err != nil {
		return nil, err
	}
	index, err := openapi.BuildIndex(doc)
	if err != nil {
		return nil, err
	}

	apiClient, err := client.New(index, opts)
	if err != nil {
		return nil, err
	}
	return reconcile.New(client.NewCoolify(apiClient), flags.Check), nil
}

func loadSpecDocument(ctx context.Context, resolved config.Context, opts client.Options) (*openapi.Document, error) {
	source := strings.TrimSpace(resolved.SpecPath)
	if source == "" {
		return nil, ValidationError(
			"no OpenAPI document configured: pass --spec or set spec-path in context '"+resolved.Name+"'", nil)
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err := fetchSpec(ctx, source, opts)
		if err != nil {
			return nil, err
		}
		return openapi.LoadDocument(data)
	}
	return openapi.LoadDocumentFile(source)
}

func fetchSpec(ctx context.Context, specURL string, opts client.Options) ([]byte, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	requestCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(requestCtx, http.MethodGet, specURL, nil)
	if err != nil {
		return nil, faults.NewTypedError(faults.SpecLoadError, "build specification request", err)
	}
	request.Header.Set("Accept", "application/json, application/yaml")

	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify},
		},
	}
	debugctx.Printf(ctx, "fetching OpenAPI document from %s", specURL)

	response, err := httpClient.Do(request)
	if err != nil {
		return nil, faults.NewTypedError(faults.SpecLoadError, "fetch specification from "+specURL, err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, faults.NewTypedError(faults.SpecLoadError,
			"fetch specification from "+specURL+": unexpected status "+response.Status, nil)
	}
	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, faults.NewTypedError(faults.SpecLoadError, "read specification response", err)
	}
	return data, nil
}
