package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rhuss/gencode/pkg/debug"
	"github.com/rhuss/gencode/pkg/mockupstream"
)

func newMockUpstreamCmd() *cobra.Command {
	var (
		addr      string
		apiKey    string
		delay     time.Duration
		fragments []string
	)
	cmd := &cobra.Command{
		Use:   "mock-upstream",
		Short: "Serve the Gemini, OpenAI and Anthropic streaming APIs with canned output",
		Long: `mock-upstream answers all three provider protocols with deterministic
fragments. Model names containing fail-auth, fail-rate or fail-midstream
trigger the corresponding failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			debug.Init(debug.Options{})
			mock := mockupstream.New(mockupstream.Options{
				Fragments: fragments,
				Delay:     delay,
				APIKey:    apiKey,
			})
			return mock.Run(cmd.Context(), addr)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", envOr("MOCK_ADDR", ":9090"), "listen address")
	f.StringVar(&apiKey, "api-key", "", "reject requests without this API key")
	f.DurationVar(&delay, "delay", 0, "pause before each fragment")
	f.StringSliceVar(&fragments, "fragment", nil, "fragment to stream (repeatable)")
	return cmd
}
