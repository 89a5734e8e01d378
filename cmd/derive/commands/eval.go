package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/derive/internal/adapters/config"
	"go.trai.ch/derive/internal/app"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidAssignment is returned when a --set flag is not of the form name=value.
	ErrInvalidAssignment = zerr.New("invalid input assignment")

	// ErrUnknownFormat is returned when an output format is not supported.
	ErrUnknownFormat = zerr.New("unknown output format")
)

func (c *CLI) newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [targets...]",
		Short: "Evaluate arguments from the catalog",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			path, err := catalogPath(cmd)
			if err != nil {
				return err
			}
			inputsPath, _ := cmd.Flags().GetString("inputs")
			assignments, _ := cmd.Flags().GetStringArray("set")
			format, _ := cmd.Flags().GetString("output")

			overrides, err := parseAssignments(assignments)
			if err != nil {
				return err
			}

			result, err := c.app.Evaluate(cmd.Context(), app.EvalOptions{
				CatalogPath: path,
				InputsPath:  inputsPath,
				Inputs:      overrides,
				Targets:     args,
			})
			if err != nil {
				return err
			}
			return writeEvaluation(cmd, result, format)
		},
	}
	cmd.Flags().StringP("inputs", "i", "", "Path to a YAML file of input values")
	cmd.Flags().StringArray("set", nil, "Set an input value (name=value), may be repeated")
	cmd.Flags().StringP("output", "o", "text", "Output format (text|yaml)")
	return cmd
}

func parseAssignments(assignments []string) (map[string]domain.Value, error) {
	values := make(map[string]domain.Value, len(assignments))
	for _, a := range assignments {
		name, raw, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, zerr.With(zerr.Wrap(ErrInvalidAssignment, "expected name=value"), "assignment", a)
		}
		v, err := config.ParseValue(raw)
		if err != nil {
			return nil, zerr.With(err, "assignment", a)
		}
		values[name] = v
	}
	return values, nil
}

func writeEvaluation(cmd *cobra.Command, result *app.Evaluation, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "text":
		for _, name := range result.Targets {
			if _, err := fmt.Fprintf(out, "%s = %s\n", name, result.Values[name]); err != nil {
				return err
			}
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(result.Values); err != nil {
			return zerr.Wrap(err, "failed to encode evaluation")
		}
		return enc.Close()
	default:
		return zerr.With(zerr.Wrap(ErrUnknownFormat, "cannot write evaluation"), "format", format)
	}
}
