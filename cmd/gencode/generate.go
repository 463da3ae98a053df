package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rhuss/gencode/pkg/api"
	"github.com/rhuss/gencode/pkg/client"
	"github.com/rhuss/gencode/pkg/router"
	"github.com/rhuss/gencode/pkg/transport"
)

type generateOptions struct {
	server    string
	model     string
	update    string
	original  string
	output    string
	highlight bool
	style     string
	raw       bool
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate [flags] PROMPT",
		Short: "Generate a React component and stream it to the terminal",
		Long: `Generate posts PROMPT to the gateway and streams the generated code.

With --update FILE the prompt is treated as a modification of the code in
FILE; --original carries the prompt that produced it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), opts, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.server, "server", "s", envOr("GENCODE_SERVER", "http://localhost:3000"), "gateway base URL")
	f.StringVarP(&opts.model, "model", "m", router.DefaultModelID, "model identifier")
	f.StringVar(&opts.update, "update", "", "file with previously generated code to modify")
	f.StringVar(&opts.original, "original", "", "prompt that produced the code in --update")
	f.StringVarP(&opts.output, "output", "o", "", "also write the cleaned code to this file")
	f.BoolVar(&opts.highlight, "highlight", false, "print the finished code with syntax highlighting instead of streaming it")
	f.StringVar(&opts.style, "style", client.DefaultStyle, "highlighting style")
	f.BoolVar(&opts.raw, "raw", false, "keep markdown code fences in the saved and highlighted output")
	return cmd
}

func runGenerate(ctx context.Context, stdout io.Writer, opts generateOptions, prompt string) error {
	req, err := buildRequest(opts, prompt)
	if err != nil {
		return err
	}

	c := client.New(opts.server)
	defer c.Close()

	id := transport.NewRequestID()
	ctx = transport.ContextWithRequestID(ctx, id)

	var live io.Writer
	if !opts.highlight {
		live = stdout
	}

	res, err := c.Generate(ctx, req, live)
	if ctx.Err() != nil {
		// Interrupted: ask the server to stop the upstream call too.
		cancelCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := c.Cancel(cancelCtx, id); cerr != nil {
			fmt.Fprintf(os.Stderr, "cancelling %s: %v\n", id, cerr)
		}
		return ctx.Err()
	}
	if res == nil {
		return describeError(err)
	}

	code := res.Code
	if !opts.raw {
		code = client.StripFences(code)
	}

	if opts.highlight {
		if herr := client.Highlight(stdout, code+"\n", "tsx", opts.style); herr != nil {
			return fmt.Errorf("highlighting: %w", herr)
		}
	} else {
		fmt.Fprintln(stdout)
	}

	if opts.output != "" {
		if werr := os.WriteFile(opts.output, []byte(code+"\n"), 0o644); werr != nil {
			return fmt.Errorf("writing %s: %w", opts.output, werr)
		}
	}

	if errors.Is(err, client.ErrTruncated) {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return nil
	}
	return err
}

func buildRequest(opts generateOptions, prompt string) (*api.GenerationRequest, error) {
	if opts.update == "" {
		return client.NewRequest(opts.model, prompt), nil
	}
	code, err := os.ReadFile(opts.update)
	if err != nil {
		return nil, fmt.Errorf("reading --update file: %w", err)
	}
	original := opts.original
	if original == "" {
		original = "Create the app in the previous message."
	}
	return client.UpdateRequest(opts.model, original, strings.TrimSpace(string(code)), prompt), nil
}

// describeError adds the provider context to API errors for terminal output.
func describeError(err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Provider != "" {
		return fmt.Errorf("%s (%s)", apiErr.Message, apiErr.Type)
	}
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
