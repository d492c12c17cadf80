package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/xxmmxw/Address-lookup/internal/resolver"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <address>",
	Short: "Resolve a single address and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newUpstreamClient(cfg.Upstream)
		res := resolver.New(client, cfg.Upstream)

		result, err := res.Resolve(cmd.Context(), args[0])
		if err != nil {
			switch {
			case errors.Is(err, resolver.ErrBlankAddress):
				return eris.New("address must not be blank")
			case errors.Is(err, resolver.ErrAddressNotFound):
				return eris.New("address not found")
			}
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return eris.Wrap(err, "encode result")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
