package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tree-sitter-ucode/internal/application/service"
	"tree-sitter-ucode/internal/config"
	"tree-sitter-ucode/internal/domain/errors/domain"
)

func newHighlightCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "highlight <file>",
		Short: "List the highlight captures of a ucode source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			result, err := state.svc.ParseSource(cmd.Context(), args[0], src, nil)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range service.Highlights(result.Tree, src) {
				text := string(src[c.Range.StartByte:c.Range.EndByte])
				fmt.Fprintf(tw, "%s-%s\t%s\t%s\n", c.Range.StartPoint, c.Range.EndPoint, c.Name, strconv.Quote(text))
			}
			return tw.Flush()
		},
	}
}

func newReparseCmd(state *cliState) *cobra.Command {
	var edit string

	cmd := &cobra.Command{
		Use:   "reparse <file>",
		Short: "Apply an edit to a ucode source and reparse it incrementally",
		Long: `Parse a ucode source, replace a byte range with new text and parse the
result again, reusing the statements the edit did not touch.

The edit is given as start:oldEnd:text, where start and oldEnd are byte
offsets into the original source. text may be a Go quoted string to
insert newlines or other escapes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, oldEnd, text, err := parseEditSpec(edit)
			if err != nil {
				return err
			}
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			result, err := state.svc.Reparse(cmd.Context(), args[0], src, start, oldEnd, []byte(text))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "reused %d statements, parsed %d\n", result.New.Stats.Reused, result.New.Stats.Created)
			for _, r := range result.Changed {
				fmt.Fprintf(out, "changed %s-%s [%d, %d)\n", r.StartPoint, r.EndPoint, r.StartByte, r.EndByte)
			}
			fmt.Fprintln(out, result.New.Tree.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&edit, "edit", "e", "", "Edit to apply, as start:oldEnd:text")
	_ = cmd.MarkFlagRequired("edit")
	return cmd
}

// parseEditSpec splits start:oldEnd:text.
func parseEditSpec(spec string) (uint32, uint32, string, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 {
		return 0, 0, "", fmt.Errorf("edit %q is not start:oldEnd:text: %w", spec, domain.ErrInvalidInput)
	}
	start, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, "", fmt.Errorf("edit start %q: %w", parts[0], domain.ErrInvalidInput)
	}
	oldEnd, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, "", fmt.Errorf("edit end %q: %w", parts[1], domain.ErrInvalidInput)
	}
	text := parts[2]
	if strings.HasPrefix(text, `"`) {
		if text, err = strconv.Unquote(text); err != nil {
			return 0, 0, "", fmt.Errorf("edit text %s: %w", parts[2], domain.ErrInvalidInput)
		}
	}
	return uint32(start), uint32(oldEnd), text, nil
}

func newNodeTypesCmd(state *cliState) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "node-types",
		Short: "Print the node types of the ucode grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				data []byte
				err  error
			)
			switch format {
			case config.FormatJSON:
				data, err = state.svc.NodeTypesJSON()
				data = append(data, '\n')
			case config.FormatYAML:
				data, err = yaml.Marshal(state.svc.Language().NodeTypes())
			default:
				return fmt.Errorf("node types format must be json or yaml: got %q", format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", config.FormatJSON, "Output format (json, yaml)")
	return cmd
}
