package version

import (
	"runtime"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIDFor(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		expected  int
		wantError bool
	}{
		{name: "epoch date", date: "2026-01-01", expected: 0},
		{name: "next day after epoch", date: "2026-01-02", expected: 1},
		{name: "one year later", date: "2027-01-01", expected: 365},
		// 2028 високосный: 730 + 31 + 29
		{name: "leap day counted", date: "2028-03-01", expected: 790},
		{name: "invalid format", date: "invalid", wantError: true},
		{name: "empty date", date: "", wantError: true},
		{name: "before epoch", date: "2025-12-31", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildIDFor(tt.date)
			if tt.wantError {
				assert.Error(t, err, "id=%d", got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInfo(t *testing.T) {
	oldDate, oldCommit := BuildDate, Commit
	t.Cleanup(func() { BuildDate, Commit = oldDate, oldCommit })

	BuildDate, Commit = "", ""
	info := Info()
	assert.Zero(t, info.BuildID)
	assert.Equal(t, runtime.Version(), info.Go)
	_, err := BuildIDFor(BuildDate)
	assert.True(t, eris.Is(err, ErrNoBuildDate))
	assert.Equal(t, ErrNoBuildDate.Error(), info.Error)
	assert.Contains(t, String(), "build unknown")

	BuildDate, Commit = "2026-01-11", "abc123"
	info = Info()
	assert.Empty(t, info.Error)
	assert.Equal(t, 10, info.BuildID)
	assert.Equal(t, "abc123", info.Commit)
	assert.Contains(t, String(), "build 10 (2026-01-11)")
	assert.Contains(t, String(), "commit abc123")
}
