package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	jsmodel "github.com/reoring/jsmodel"
	"github.com/reoring/jsmodel/model"
	"github.com/reoring/jsmodel/source"
)

// errValidation marks a data document rejected by its model.
var errValidation = errors.New("validation failed")

func registerValidateCmd(parent *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "validate <schema> <model> <data|->",
		Short: "Validate a JSON or YAML document against a compiled model",
		Long: `Validate constructs an instance of the model from the data document and
prints it as JSON. Issues are reported on stderr and the command fails.`,
		Example: `  # Validate a file
  jsmodel validate schema.json Car car.yaml

  # Validate stdin
  echo '{"model": "Pathfinder"}' | jsmodel validate schema.json Car -`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.find(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			data, err := readData(cmd, args[2])
			if err != nil {
				return err
			}
			out, err := construct(cmd, m, data)
			if err != nil {
				if iss, ok := jsmodel.AsIssues(err); ok {
					for _, it := range iss {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s at %s: %s\n", it.Code, it.Path, it.Message)
					}
					return fmt.Errorf("%w: %d issue(s)", errValidation, len(iss))
				}
				return err
			}
			enc, err := j.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(enc))
			return err
		},
	}
	parent.AddCommand(cmd)
}

func readData(cmd *cobra.Command, name string) (any, error) {
	var (
		raw []byte
		err error
	)
	if name == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	var v any
	switch ext := strings.ToLower(filepath.Ext(name)); {
	case ext == ".yaml" || ext == ".yml":
		v, err = source.DecodeYAMLValue(raw)
	case strings.HasPrefix(strings.TrimSpace(string(raw)), "{") || ext == ".json":
		v, err = source.DecodeJSONValue(raw)
	default:
		v, err = source.DecodeYAMLValue(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return source.Plain(v), nil
}

func construct(cmd *cobra.Command, m *model.Model, data any) (any, error) {
	if m.Kind == model.KindPrimitive {
		return m.Parse(cmd.Context(), data)
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("model %s expects an object document", m.Name)
	}
	return m.New(cmd.Context(), obj)
}
