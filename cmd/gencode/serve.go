package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rhuss/gencode/pkg/config"
	"github.com/rhuss/gencode/pkg/debug"
	"github.com/rhuss/gencode/pkg/gateway"
	"github.com/rhuss/gencode/pkg/mockupstream"
	"github.com/rhuss/gencode/pkg/provider"
	"github.com/rhuss/gencode/pkg/provider/anthropic"
	"github.com/rhuss/gencode/pkg/provider/gemini"
	"github.com/rhuss/gencode/pkg/provider/openai"
	transporthttp "github.com/rhuss/gencode/pkg/transport/http"
)

type serveOptions struct {
	configPath string
	mockAddr   string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config file")
	cmd.Flags().StringVar(&opts.mockAddr, "mock-upstream", "",
		"also run the mock upstream on this address and route every provider to it")
	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	debug.Init(debug.Options{
		Categories: cfg.Logging.Debug,
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
	})

	if opts.mockAddr != "" {
		useMockUpstream(cfg, opts.mockAddr)
	}

	providers, err := buildProviders(cfg)
	if err != nil {
		return err
	}
	gw, err := gateway.New(providers)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}
	defer gw.Close()

	srvOpts := []transporthttp.ServerOption{
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithErrorTrailer(cfg.Server.ErrorTrailer),
		transporthttp.WithReadTimeout(cfg.Server.ReadTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithMetrics(cfg.Observability.Metrics.Enabled),
		transporthttp.WithHandler("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok\n"))
		})),
	}
	if cfg.Observability.Metrics.Enabled {
		srvOpts = append(srvOpts, transporthttp.WithHandler("GET "+cfg.Observability.Metrics.Path, promhttp.Handler()))
	}
	srv := transporthttp.NewServer(gw, gw, srvOpts...)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	if opts.mockAddr != "" {
		mock := mockupstream.New(mockupstream.Options{})
		g.Go(func() error { return mock.Run(ctx, opts.mockAddr) })
	}
	return g.Wait()
}

// buildProviders creates one adapter per provider. A provider without an
// API key is still registered; its requests fail with provider_auth_error.
func buildProviders(cfg *config.Config) ([]provider.Provider, error) {
	pc := cfg.Providers

	gp, err := gemini.New(gemini.Config{
		APIKey:  pc.Gemini.APIKey,
		BaseURL: pc.Gemini.BaseURL,
		Timeout: pc.Gemini.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini provider: %w", err)
	}
	op, err := openai.New(openai.Config{
		APIKey:  pc.OpenAI.APIKey,
		BaseURL: pc.OpenAI.BaseURL,
		Timeout: pc.OpenAI.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating openai provider: %w", err)
	}
	ap, err := anthropic.New(anthropic.Config{
		APIKey:    pc.Anthropic.APIKey,
		BaseURL:   pc.Anthropic.BaseURL,
		MaxTokens: pc.Anthropic.MaxTokens,
		Timeout:   pc.Anthropic.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating anthropic provider: %w", err)
	}

	keys := map[string]string{
		"gemini":    pc.Gemini.APIKey,
		"openai":    pc.OpenAI.APIKey,
		"anthropic": pc.Anthropic.APIKey,
	}
	for name, key := range keys {
		if key == "" {
			slog.Warn("provider has no API key; its requests will fail", "provider", name)
		}
	}

	return []provider.Provider{gp, op, ap}, nil
}

// useMockUpstream points every provider at a local mock upstream.
func useMockUpstream(cfg *config.Config, addr string) {
	base := "http://" + hostPort(addr)
	pc := &cfg.Providers
	pc.Gemini.BaseURL = base
	pc.OpenAI.BaseURL = base + "/v1"
	pc.Anthropic.BaseURL = base
	for _, key := range []*string{&pc.Gemini.APIKey, &pc.OpenAI.APIKey, &pc.Anthropic.APIKey} {
		if *key == "" {
			*key = "mock"
		}
	}
	slog.Info("routing all providers to the mock upstream", "base_url", base)
}

// hostPort turns a listen address such as ":9090" into a dialable one.
func hostPort(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
