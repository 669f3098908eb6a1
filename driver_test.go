package c3

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.c3")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestCompileFile_EndToEnd_FactorialLikeLoop(t *testing.T) {
	src := `
int64 sum_to(int64 n) {
	int64 total = 0;
	int64 i = 0;
	while (i < n) {
		total = total + i;
		i = i + 1;
	}
	return total;
}
`
	path := writeSource(t, src)
	result, err := CompileFile(path, nil)
	require.NoError(t, err)
	require.NotNil(t, result.AST)
	require.NotNil(t, result.Module)

	ir := result.Module.String()
	assert.Contains(t, ir, "@sum_to")
	assert.True(t, strings.Contains(ir, "br "), "while loop should lower to branching control flow")
}

func TestCompileFile_EndToEnd_StructSelfReference(t *testing.T) {
	src := `
struct Node {
	int64 value;
	Node* next;
}

int64 head_value(Node* n) {
	return n->value;
}
`
	path := writeSource(t, src)
	result, err := CompileFile(path, nil)
	require.NoError(t, err)

	ir := result.Module.String()
	assert.Contains(t, ir, "%Node")
	assert.Contains(t, ir, "@head_value")
}

func TestCompileFile_EndToEnd_GlobalAndIfElse(t *testing.T) {
	src := `
int64 limit = 10;

int64 clamp(int64 x) {
	if (x > limit) {
		return limit;
	} else {
		return x;
	}
}
`
	path := writeSource(t, src)
	result, err := CompileFile(path, nil)
	require.NoError(t, err)

	ir := result.Module.String()
	assert.Contains(t, ir, "@limit")
	assert.Contains(t, ir, "@clamp")
}

func TestCompileFile_MissingFile_ReturnsWrappedError(t *testing.T) {
	_, err := CompileFile(filepath.Join(t.TempDir(), "nope.c3"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestCompileFile_ParseError_ReturnsWrappedError(t *testing.T) {
	path := writeSource(t, `int64 broken( {`)
	_, err := CompileFile(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}
