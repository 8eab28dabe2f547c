package cli

import (
	"fmt"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func registerSchemaCmd(parent *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "schema <schema> <model>",
		Short: "Print the documentation schema exported by a compiled model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.find(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			out, err := j.MarshalIndent(m.JSONSchema(), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	parent.AddCommand(cmd)
}
