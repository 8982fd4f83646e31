package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prog = `
set i 0
!double x
    op add x! x! x!
!!
double! 5
!m a b
    op a! b!
!!
m! 1
`

func writeSrc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.mll")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunWritesOutputFile(t *testing.T) {
	src := writeSrc(t, prog)
	var stdout, stderr bytes.Buffer

	status := run([]string{src}, &stdout, &stderr)
	require.Equal(t, exitOK, status, "stderr: %s", stderr.String())

	got, err := os.ReadFile(src + ".txt")
	require.NoError(t, err)
	assert.Equal(t, "set i 0\nop add 5 5 5\nop 1 b!", string(got))
	assert.Equal(t,
		"Output (28 B) was saved in file \""+src+".txt\".\n",
		stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunStdoutWithWarningsAndMacros(t *testing.T) {
	src := writeSrc(t, prog)
	var stdout, stderr bytes.Buffer

	status := run([]string{"-stdout", "-warn", "-show-macros", src},
		&stdout, &stderr)
	require.Equal(t, exitOK, status, "stderr: %s", stderr.String())

	assert.Equal(t,
		"set i 0\nop add 5 5 5\nop 1 b!\n"+
			"!double x\n\top add x! x! x!\n!!\n\n"+
			"!m a b\n\top a! b!\n!!\n",
		stdout.String())
	assert.Equal(t,
		"Warning: Macro 'm' at "+src+":9: no argument for parameter 'b',"+
			" the reference is left unchanged\n",
		stderr.String())
}

func TestRunOutputFlag(t *testing.T) {
	src := writeSrc(t, "a  b\n\n c")
	out := filepath.Join(t.TempDir(), "result")
	var stdout, stderr bytes.Buffer

	status := run([]string{"-o", out, src}, &stdout, &stderr)
	require.Equal(t, exitOK, status, "stderr: %s", stderr.String())

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "a b\nc", string(got))
}

func TestRunMacroDirs(t *testing.T) {
	src := writeSrc(t, "greet! \"you\"\ndouble! 2\n")
	var stdout, stderr bytes.Buffer

	status := run([]string{
		"-stdout",
		"-dirs", "../../macros/testdata/macros1,../../macros/testdata/macros2",
		"-suffix", ".mll",
		src,
	}, &stdout, &stderr)
	require.Equal(t, exitOK, status, "stderr: %s", stderr.String())
	assert.Equal(t, "print \"Hello,\" \"you\"\nop add 2 2 2\n", stdout.String())
}

func TestRunStdoutNoOutputLines(t *testing.T) {
	src := writeSrc(t, "!nop\n!!\n!m a\nop a!\n!!\n")
	var stdout, stderr bytes.Buffer

	status := run([]string{"-stdout", src}, &stdout, &stderr)
	require.Equal(t, exitOK, status, "stderr: %s", stderr.String())
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunFailures(t *testing.T) {
	testCases := []struct {
		name       string
		args       func(t *testing.T) []string
		wantStatus int
		wantErr    string
	}{
		{
			name:       "no file",
			args:       func(t *testing.T) []string { return nil },
			wantStatus: exitUsage,
			wantErr:    "exactly one source file must be given",
		},
		{
			name:       "bad flag",
			args:       func(t *testing.T) []string { return []string{"-nonesuch", "x"} },
			wantStatus: exitUsage,
			wantErr:    "flag provided but not defined",
		},
		{
			name: "missing file",
			args: func(t *testing.T) []string {
				return []string{filepath.Join(t.TempDir(), "nonesuch.mll")}
			},
			wantStatus: exitFail,
			wantErr:    "nonesuch.mll",
		},
		{
			name: "unknown macro",
			args: func(t *testing.T) []string {
				return []string{writeSrc(t, "a\nnomacro! 1 2\n")}
			},
			wantStatus: exitFail,
			wantErr:    "Macro 'nomacro' at ",
		},
		{
			name: "unterminated macro",
			args: func(t *testing.T) []string {
				return []string{writeSrc(t, "!m a\n")}
			},
			wantStatus: exitFail,
			wantErr:    "was not terminated",
		},
		{
			name: "bad macro directory",
			args: func(t *testing.T) []string {
				return []string{
					"-dirs", filepath.Join(t.TempDir(), "nonesuch"),
					writeSrc(t, "a\n"),
				}
			},
			wantStatus: exitFail,
			wantErr:    "nonesuch",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := tc.args(t)

			status := run(args, &stdout, &stderr)
			assert.Equal(t, tc.wantStatus, status)
			assert.Contains(t, stderr.String(), tc.wantErr)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRunFailureWritesNoOutput(t *testing.T) {
	src := writeSrc(t, "ok\nnomacro!\n")
	var stdout, stderr bytes.Buffer

	status := run([]string{src}, &stdout, &stderr)
	assert.Equal(t, exitFail, status)
	_, err := os.Stat(src + ".txt")
	assert.True(t, os.IsNotExist(err))
}
