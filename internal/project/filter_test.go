package project

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMatches(t *testing.T) {
	pyGit := &Project{Path: "/r/api", Name: "api", IsPython: true, IsGit: true}
	plain := &Project{Path: "/r/docs", Name: "docs"}
	copier := &Project{Path: "/r/svc", Name: "svc", IsPython: true, HasCopier: true}

	tests := []struct {
		name    string
		filter  Filter
		project *Project
		want    bool
	}{
		{"empty filter matches everything", Filter{}, plain, true},
		{"python only matches python", Filter{PythonOnly: true}, pyGit, true},
		{"python only rejects non-python", Filter{PythonOnly: true}, plain, false},
		{"non-python only rejects python", Filter{NonPythonOnly: true}, pyGit, false},
		{"non-python only matches plain", Filter{NonPythonOnly: true}, plain, true},
		{"both python flags match nothing (python)", Filter{PythonOnly: true, NonPythonOnly: true}, pyGit, false},
		{"both python flags match nothing (plain)", Filter{PythonOnly: true, NonPythonOnly: true}, plain, false},
		{"copier only", Filter{CopierOnly: true}, copier, true},
		{"copier only rejects plain", Filter{CopierOnly: true}, plain, false},
		{"git only", Filter{GitOnly: true}, pyGit, true},
		{"git only rejects plain", Filter{GitOnly: true}, plain, false},
		{"name glob star", Filter{NamePattern: "a*"}, pyGit, true},
		{"name glob question mark", Filter{NamePattern: "ap?"}, pyGit, true},
		{"name glob bracket class", Filter{NamePattern: "[ab]pi"}, pyGit, true},
		{"name glob no match", Filter{NamePattern: "web*"}, pyGit, false},
		{"name glob invalid pattern rejects", Filter{NamePattern: "[unclosed"}, pyGit, false},
		{"combined filters AND together", Filter{PythonOnly: true, GitOnly: true}, copier, false},
	}

	fs := afero.NewMemMapFs()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(fs, tt.project))
		})
	}
}

func TestFilterMatches_HasFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/r/api/Makefile", []byte("all:\n"), 0o644))

	p := &Project{Path: "/r/api", Name: "api"}

	assert.True(t, Filter{HasFile: "Makefile"}.Matches(fs, p))
	assert.False(t, Filter{HasFile: "missing.txt"}.Matches(fs, p))
}

func TestFilterApply_PreservesOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	projects := []*Project{
		{Name: "c", IsPython: true},
		{Name: "a"},
		{Name: "b", IsPython: true},
	}

	got := Filter{PythonOnly: true}.Apply(fs, projects)

	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Name)
	assert.Equal(t, "b", got[1].Name)
}
