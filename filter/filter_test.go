package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgen/bugzilla-query/bugzilla"
)

func sampleBug() bugzilla.Bug {
	requestee := "approver@example.com"
	return bugzilla.Bug{
		ID:             1234567,
		Summary:        "The installer fails on disks with existing LVM metadata",
		Status:         "ASSIGNED",
		Severity:       "high",
		Priority:       "medium",
		Product:        "Fedora",
		Component:      []string{"anaconda"},
		Keywords:       []string{"Triaged"},
		CC:             []string{"watcher1@example.com"},
		IsOpen:         true,
		CreationTime:   time.Now().AddDate(0, -6, 0),
		LastChangeTime: time.Now().AddDate(0, 0, -45),
		Flags: []bugzilla.Flag{
			{Name: "release", Status: "?", Requestee: &requestee},
		},
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{
			name:       "simple comparison",
			expression: `Bug.Status == "NEW"`,
		},
		{
			name:       "helper call",
			expression: `hasKeyword("Triaged")`,
		},
		{
			name:       "text helper call",
			expression: `containsText(Bug.Summary, "installer")`,
		},
		{
			name:       "native contains operator",
			expression: `Bug.Summary contains "installer"`,
		},
		{
			name:       "empty expression",
			expression: "   ",
			wantErr:    true,
		},
		{
			name:       "syntax error",
			expression: `Bug.Status ==`,
			wantErr:    true,
		},
		{
			name:       "non-boolean result",
			expression: `Bug.Summary`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expression)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	bug := sampleBug()

	tests := []struct {
		name       string
		expression string
		want       bool
	}{
		{
			name:       "status match",
			expression: `Bug.Status == "ASSIGNED"`,
			want:       true,
		},
		{
			name:       "status mismatch",
			expression: `Bug.Status == "CLOSED"`,
			want:       false,
		},
		{
			name:       "severity set membership",
			expression: `Bug.Severity in ["high", "urgent"]`,
			want:       true,
		},
		{
			name:       "keyword helper is case-insensitive",
			expression: `hasKeyword("triaged")`,
			want:       true,
		},
		{
			name:       "cc helper",
			expression: `ccContains("watcher1@example.com")`,
			want:       true,
		},
		{
			name:       "flag helper",
			expression: `hasFlag("release", "?")`,
			want:       true,
		},
		{
			name:       "flag helper with wrong status",
			expression: `hasFlag("release", "+")`,
			want:       false,
		},
		{
			name:       "stale open bug",
			expression: `Bug.IsOpen && daysSince(Bug.LastChangeTime) > 30`,
			want:       true,
		},
		{
			name:       "summary text helper is case-insensitive",
			expression: `containsText(Bug.Summary, "lvm")`,
			want:       true,
		},
		{
			name:       "prefix text helper is case-insensitive",
			expression: `startsWithText(Bug.Product, "FED")`,
			want:       true,
		},
		{
			name:       "native contains operator stays usable",
			expression: `Bug.Summary contains "LVM"`,
			want:       true,
		},
		{
			name:       "native startsWith operator stays case-sensitive",
			expression: `Bug.Product startsWith "fed"`,
			want:       false,
		},
		{
			name:       "lower helper with native operator",
			expression: `lower(Bug.Summary) contains "lvm"`,
			want:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)

			got, err := f.Matches(bug)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	open := sampleBug()
	closed := sampleBug()
	closed.ID = 7654321
	closed.Status = "CLOSED"
	closed.IsOpen = false

	f, err := Compile(`Bug.IsOpen`)
	require.NoError(t, err)

	matched, err := f.Apply([]bugzilla.Bug{open, closed})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, open.ID, matched[0].ID)
}

func TestApplyNoMatches(t *testing.T) {
	f, err := Compile(`Bug.Product == "OpenShift"`)
	require.NoError(t, err)

	matched, err := f.Apply([]bugzilla.Bug{sampleBug()})
	require.NoError(t, err)
	assert.Empty(t, matched)
}
