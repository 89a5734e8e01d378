package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/derive/internal/app"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Describe the arguments of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := catalogPath(cmd)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("output")

			inspection, err := c.app.Inspect(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "text":
				return writeInspection(out, inspection)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(inspection); err != nil {
					return zerr.Wrap(err, "failed to encode inspection")
				}
				return enc.Close()
			default:
				return zerr.With(zerr.Wrap(ErrUnknownFormat, "cannot write inspection"), "format", format)
			}
		},
	}
	cmd.Flags().StringP("output", "o", "text", "Output format (text|yaml)")
	return cmd
}

func writeInspection(w io.Writer, in *app.Inspection) error {
	var b strings.Builder
	fmt.Fprintf(&b, "fingerprint: %s\n", in.Fingerprint)
	if in.Cycle != "" {
		fmt.Fprintf(&b, "cycle: %s\n", in.Cycle)
	}
	for _, arg := range in.Arguments {
		flags := []string{arg.Source}
		if arg.Cacheable {
			flags = append(flags, "cacheable")
		}
		if arg.Async {
			flags = append(flags, "async")
		}
		fmt.Fprintf(&b, "%s: %s [%s]", arg.Name, arg.Type, strings.Join(flags, ","))
		if arg.Expression != "" {
			fmt.Fprintf(&b, " = %s", arg.Expression)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "functions: %s\n", strings.Join(in.Functions, ", "))
	_, err := io.WriteString(w, b.String())
	return err
}
