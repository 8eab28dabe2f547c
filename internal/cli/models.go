package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func registerModelsCmd(parent *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "models <schema>",
		Short: "List the models compiled from a schema",
		Example: `  # List models of a local schema
  jsmodel models ./schema.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := a.compile(cmd, args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "MODEL\tKIND\tFIELD\tALIAS\tTYPE\tREQUIRED")
			for _, m := range models {
				if len(m.Fields) == 0 {
					base := "-"
					if m.Base != nil {
						base = m.Base.String()
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\t-\t-\t%s\t-\n", m.Name, m.Kind, base)
					continue
				}
				for _, f := range m.Fields {
					alias := f.Alias
					if alias == "" {
						alias = "-"
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n", m.Name, m.Kind, f.Name, alias, f.Type.String(), f.Required)
				}
			}
			return w.Flush()
		},
	}
	parent.AddCommand(cmd)
}
