// Package version holds the build information of the ucode-ts tool.
//
// The variables are set during build using ldflags:
//
//	-ldflags "-X tree-sitter-ucode/internal/version.version=v0.1.0 -X tree-sitter-ucode/internal/version.commit=abc123 -X tree-sitter-ucode/internal/version.buildTime=2025-01-01T00:00:00Z"
package version

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"tree-sitter-ucode/internal/domain/grammar"
)

//nolint:gochecknoglobals // Required for build-time injection via ldflags.
var (
	version   string
	commit    string
	buildTime string
)

// ApplicationName is the name of the application displayed in version output.
const ApplicationName = "ucode-ts"

// Default values used when version information is not available.
const (
	DefaultVersion   = "dev"
	DefaultCommit    = "unknown"
	DefaultBuildTime = "unknown"
)

const (
	LabelVersion   = "Version"
	LabelCommit    = "Commit"
	LabelBuilt     = "Built"
	LabelGrammar   = "Grammar"
	fieldSeparator = ": "
	lineSeparator  = "\n"
)

// VersionInfo describes the running binary and the grammar it parses.
type VersionInfo struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	BuildTime  string `json:"build_time"`
	Grammar    string `json:"grammar"`
	ABIVersion uint32 `json:"abi_version"`
}

// NewVersionInfo reads the build-time variables, substituting defaults for empty ones.
func NewVersionInfo() *VersionInfo {
	lang := grammar.Get()
	return &VersionInfo{
		Version:    withDefault(version, DefaultVersion),
		Commit:     withDefault(commit, DefaultCommit),
		BuildTime:  withDefault(buildTime, DefaultBuildTime),
		Grammar:    lang.Name(),
		ABIVersion: lang.ABIVersion(),
	}
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// FormatShort returns only the version number.
func (vi *VersionInfo) FormatShort() string {
	return vi.Version
}

// FormatFull returns the application name followed by one labelled line per field.
func (vi *VersionInfo) FormatFull() string {
	var builder strings.Builder
	builder.WriteString(ApplicationName)
	builder.WriteString(lineSeparator)
	for _, line := range [][2]string{
		{LabelVersion, vi.Version},
		{LabelCommit, vi.Commit},
		{LabelBuilt, vi.BuildTime},
		{LabelGrammar, vi.Grammar + " (ABI " + strconv.FormatUint(uint64(vi.ABIVersion), 10) + ")"},
	} {
		builder.WriteString(line[0])
		builder.WriteString(fieldSeparator)
		builder.WriteString(line[1])
		builder.WriteString(lineSeparator)
	}
	return builder.String()
}

// Write formats the version based on the short flag and writes to the provided writer.
func (vi *VersionInfo) Write(w io.Writer, short bool) error {
	if short {
		_, err := fmt.Fprintln(w, vi.FormatShort())
		return err
	}
	_, err := fmt.Fprint(w, vi.FormatFull())
	return err
}

// GetVersion returns the current version information.
func GetVersion() *VersionInfo {
	return NewVersionInfo()
}

// SetBuildVars sets the build-time variables. It is used by tests.
func SetBuildVars(ver, com, bt string) {
	version = ver
	commit = com
	buildTime = bt
}

// ResetBuildVars clears the build-time variables.
func ResetBuildVars() {
	SetBuildVars("", "", "")
}

// IsDevelopment returns true if the version indicates a development build.
func (vi *VersionInfo) IsDevelopment() bool {
	return vi.Version == DefaultVersion
}

// GetBuildTime parses the build time, returning the zero time when it is not a
// timestamp.
func (vi *VersionInfo) GetBuildTime() time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, vi.BuildTime); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
