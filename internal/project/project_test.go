// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package project

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPath_GitOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repos/app/.git", 0o755))

	p := FromPath(fs, "/repos/app")

	assert.Equal(t, "/repos/app", p.Path)
	assert.Equal(t, "app", p.Name)
	assert.True(t, p.IsGit)
	assert.False(t, p.IsPython)
	assert.False(t, p.HasCopier)
	assert.Empty(t, p.CopierVersion)
	assert.Empty(t, p.CopierTemplate)
}

func TestFromPath_PythonProject(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/repos/lib/pyproject.toml", []byte("[project]\nname = \"lib\"\n"), 0o644))

	p := FromPath(fs, "/repos/lib")

	assert.True(t, p.IsPython)
	assert.False(t, p.IsGit)
	assert.False(t, p.HasCopier)
}

func TestFromPath_CopierAnswers(t *testing.T) {
	answers := `# Changes here will be overwritten by Copier
_commit: v2.3.1
_src_path: gh:acme/python-template
project_name: svc
`
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/repos/svc/.copier-answers.yml", []byte(answers), 0o644))

	p := FromPath(fs, "/repos/svc")

	assert.True(t, p.HasCopier)
	assert.Equal(t, "v2.3.1", p.CopierVersion)
	assert.Equal(t, "gh:acme/python-template", p.CopierTemplate)
}

func TestFromPath_CopierAnswersMalformed(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantVersion  string
		wantTemplate string
	}{
		{
			name:         "only commit",
			content:      "_commit: abc123\n",
			wantVersion:  "abc123",
			wantTemplate: "",
		},
		{
			name:         "garbage lines ignored",
			content:      "{{ jinja }}\n:::\n_src_path: /tmp/tpl\n",
			wantVersion:  "",
			wantTemplate: "/tmp/tpl",
		},
		{
			name:         "surrounding whitespace trimmed",
			content:      "   _commit:   v1.0.0   \n",
			wantVersion:  "v1.0.0",
			wantTemplate: "",
		},
		{
			name:         "empty file",
			content:      "",
			wantVersion:  "",
			wantTemplate: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/p/.copier-answers.yml", []byte(tt.content), 0o644))

			p := FromPath(fs, "/p")

			assert.True(t, p.HasCopier)
			assert.Equal(t, tt.wantVersion, p.CopierVersion)
			assert.Equal(t, tt.wantTemplate, p.CopierTemplate)
		})
	}
}

func TestFromPath_NoMarkers(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repos/empty", 0o755))

	p := FromPath(fs, "/repos/empty")

	assert.False(t, p.IsGit)
	assert.False(t, p.IsPython)
	assert.False(t, p.HasCopier)
}
