package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rhuss/gencode/pkg/client"
)

func newModelsCmd() *cobra.Command {
	var (
		server string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models the gateway can route to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(server)
			defer c.Close()

			list, err := c.Models(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPROVIDER\t")
			for _, m := range list.Data {
				marker := ""
				if m.ID == list.Default {
					marker = "(default)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Provider, marker)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&server, "server", "s", envOr("GENCODE_SERVER", "http://localhost:3000"), "gateway base URL")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
