// Package cli contains the jsmodel command definitions.
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/jsmodel/compiler"
	"github.com/reoring/jsmodel/model"
)

type app struct {
	logLevel string
	strict   bool
	logger   *slog.Logger
}

// NewRootCmd returns the jsmodel root command.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "jsmodel",
		Short:         "Compile JSON Schema definitions into validating data models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q", a.logLevel)
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.strict, "strict", false, "treat compile-time warnings as errors")

	registerModelsCmd(root, a)
	registerSchemaCmd(root, a)
	registerValidateCmd(root, a)
	return root
}

func (a *app) compile(cmd *cobra.Command, schema string) ([]*model.Model, error) {
	models, _, err := compiler.Build(cmd.Context(), schema, compiler.Options{Logger: a.logger, Strict: a.strict})
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", schema, err)
	}
	return models, nil
}

func (a *app) find(cmd *cobra.Command, schema, name string) (*model.Model, error) {
	models, err := a.compile(cmd, schema)
	if err != nil {
		return nil, err
	}
	m, ok := model.Find(models, name)
	if !ok {
		names := make([]string, len(models))
		for i, m := range models {
			names[i] = m.Name
		}
		return nil, fmt.Errorf("model %q not found (available: %s)", name, strings.Join(names, ", "))
	}
	return m, nil
}
