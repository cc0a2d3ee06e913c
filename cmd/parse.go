package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"tree-sitter-ucode/internal/application/common/slogger"
	"tree-sitter-ucode/internal/application/service"
	"tree-sitter-ucode/internal/config"
)

func newParseCmd(state *cliState) *cobra.Command {
	var (
		format string
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Print the syntax tree of ucode sources",
		Long: `Parse ucode sources and print their syntax trees.

Without arguments, or with "-", the source is read from standard input.
Trees are printed as S-expressions by default; --format selects json or
yaml output instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = state.cfg.Output.Format
			}
			if err := config.ValidateOutputFormat(format); err != nil {
				return err
			}

			results, err := parseArgs(cmd, state, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, result := range results {
				if len(results) > 1 {
					fmt.Fprintf(out, "# %s\n", result.Name)
				}
				if err := writeTree(out, result, format); err != nil {
					return err
				}
				if stats {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d nodes, depth %d, %d syntax errors, %s\n",
						result.Name, result.Tree.NodeCount(), result.Tree.Depth(),
						len(result.Diagnostics), result.Duration)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", config.FormatSExp, "Output format (sexp, json, yaml)")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print tree statistics to standard error")
	return cmd
}

func newCheckCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "check [files...]",
		Short: "Report syntax errors in ucode sources",
		Long: `Parse ucode sources and list their syntax errors.

Each error is printed as file:row:column: message. The command exits
with a non-zero status when any source contains errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := parseArgs(cmd, state, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, result := range results {
				for _, diag := range result.Diagnostics {
					fmt.Fprintf(out, "%s:%s\n", result.Name, diag)
				}
				if result.HasErrors() {
					failed++
				}
			}
			if failed > 0 {
				slogger.Error(cmd.Context(), "Syntax errors found", slogger.Fields{
					"failed":  failed,
					"sources": len(results),
				})
				return fmt.Errorf("syntax errors found in %d of %d sources", failed, len(results))
			}
			slogger.Info(cmd.Context(), "Checked sources", slogger.Field("sources", len(results)))
			fmt.Fprintf(out, "%d sources ok\n", len(results))
			return nil
		},
	}
}

// parseArgs parses the files named by args, or standard input when there are none.
func parseArgs(cmd *cobra.Command, state *cliState, args []string) ([]*service.ParseResult, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	if !slices.Contains(args, "-") {
		return state.svc.ParseFiles(cmd.Context(), args)
	}

	results := make([]*service.ParseResult, 0, len(args))
	for _, path := range args {
		src, err := readSource(cmd, path)
		if err != nil {
			return nil, err
		}
		name := path
		if path == "-" {
			name = "<stdin>"
		}
		result, err := state.svc.ParseSource(cmd.Context(), name, src, nil)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func writeTree(w io.Writer, result *service.ParseResult, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case config.FormatJSON:
		data, err = result.Tree.JSON(result.Source)
		data = append(data, '\n')
	case config.FormatYAML:
		data, err = result.Tree.YAML(result.Source)
	default:
		data = []byte(result.Tree.String() + "\n")
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
