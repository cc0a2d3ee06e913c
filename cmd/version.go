package cmd

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"tree-sitter-ucode/internal/version"
)

// Version information variables that may be set via ldflags during build. They take
// precedence over the variables of the version package when set.
//
//nolint:gochecknoglobals // Required for build systems setting -X tree-sitter-ucode/cmd.Version.
var (
	Version   string
	Commit    string
	BuildTime string
)

// newVersionCmd creates and returns the version command.
func newVersionCmd() *cobra.Command {
	var (
		short  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show version information for ucode-ts.

This command displays the version, commit and build time of the binary
together with the grammar name and ABI version it was built with.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				syncLegacyVersionVars()
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(newVersionReport(version.GetVersion()))
			}
			return runVersion(cmd, short)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Show only version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")
	return cmd
}

// versionReport is the JSON form of the version command.
type versionReport struct {
	*version.VersionInfo
	Development bool   `json:"development"`
	BuiltAt     string `json:"built_at,omitempty"`
}

func newVersionReport(info *version.VersionInfo) versionReport {
	report := versionReport{VersionInfo: info, Development: info.IsDevelopment()}
	if built := info.GetBuildTime(); !built.IsZero() {
		report.BuiltAt = built.UTC().Format(time.RFC3339)
	}
	return report
}

// runVersion writes the version information to the command's output.
func runVersion(cmd *cobra.Command, short bool) error {
	syncLegacyVersionVars()
	return version.GetVersion().Write(cmd.OutOrStdout(), short)
}

// syncLegacyVersionVars copies the ldflags variables of this package into the version
// package when any of them is set.
func syncLegacyVersionVars() {
	if Version != "" || Commit != "" || BuildTime != "" {
		version.SetBuildVars(Version, Commit, BuildTime)
	}
}
