package version

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionInfo(t *testing.T) {
	tests := []struct {
		name          string
		setupVersion  string
		setupCommit   string
		setupBuilt    string
		wantVersion   string
		wantCommit    string
		wantBuildTime string
	}{
		{
			name:          "empty values use defaults",
			wantVersion:   DefaultVersion,
			wantCommit:    DefaultCommit,
			wantBuildTime: DefaultBuildTime,
		},
		{
			name:          "all values set",
			setupVersion:  "v1.0.0",
			setupCommit:   "abc123",
			setupBuilt:    "2025-01-01T00:00:00Z",
			wantVersion:   "v1.0.0",
			wantCommit:    "abc123",
			wantBuildTime: "2025-01-01T00:00:00Z",
		},
		{
			name:          "partial values - only commit",
			setupCommit:   "def456",
			wantVersion:   DefaultVersion,
			wantCommit:    "def456",
			wantBuildTime: DefaultBuildTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(ResetBuildVars)
			SetBuildVars(tt.setupVersion, tt.setupCommit, tt.setupBuilt)

			info := NewVersionInfo()
			assert.Equal(t, tt.wantVersion, info.Version)
			assert.Equal(t, tt.wantCommit, info.Commit)
			assert.Equal(t, tt.wantBuildTime, info.BuildTime)
			assert.Equal(t, "ucode", info.Grammar)
			assert.Equal(t, uint32(14), info.ABIVersion)
		})
	}
}

func TestVersionInfo_Write(t *testing.T) {
	t.Cleanup(ResetBuildVars)
	SetBuildVars("v0.3.1", "abc123", "2025-06-15T12:30:00Z")
	info := GetVersion()

	var short bytes.Buffer
	require.NoError(t, info.Write(&short, true))
	assert.Equal(t, "v0.3.1\n", short.String())

	var full bytes.Buffer
	require.NoError(t, info.Write(&full, false))
	assert.Equal(t,
		"ucode-ts\nVersion: v0.3.1\nCommit: abc123\nBuilt: 2025-06-15T12:30:00Z\nGrammar: ucode (ABI 14)\n",
		full.String())
}

func TestVersionInfo_GetBuildTime(t *testing.T) {
	tests := []struct {
		buildTime string
		want      time.Time
	}{
		{buildTime: "2025-06-15T12:30:00Z", want: time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)},
		{buildTime: "2025-06-15", want: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
		{buildTime: DefaultBuildTime, want: time.Time{}},
		{buildTime: "yesterday", want: time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.buildTime, func(t *testing.T) {
			info := &VersionInfo{BuildTime: tt.buildTime}
			assert.True(t, tt.want.Equal(info.GetBuildTime()))
		})
	}
}

func TestVersionInfo_IsDevelopment(t *testing.T) {
	assert.True(t, (&VersionInfo{Version: DefaultVersion}).IsDevelopment())
	assert.False(t, (&VersionInfo{Version: "v1.0.0"}).IsDevelopment())
}
