package generator_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ChloeMayhewELT/HeapStorageMacro/generator"
	"github.com/ChloeMayhewELT/HeapStorageMacro/gomod"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var env = []string{"GOWORK=off", "GOFLAGS=-mod=mod"}

// writeModule creates a module with the heap package's path, holding a
// copy of it, so generated code builds without network access.
func writeModule(t *testing.T, goVersion string, files map[string]string) string {
	t.Helper()
	box, err := os.ReadFile(filepath.Join("..", "heap", "box.go"))
	require.NoError(t, err)

	dir := t.TempDir()
	files["go.mod"] = "module github.com/ChloeMayhewELT/HeapStorageMacro\n\ngo " + goVersion + "\n"
	files["heap/box.go"] = string(box)
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0777))
		require.NoError(t, os.WriteFile(p, []byte(content), 0666))
	}
	return dir
}

const listSrc = `package list

import "github.com/ChloeMayhewELT/HeapStorageMacro/heap"

type Node struct {
	value int
	next  heap.Box[Node]
}

func (n *Node) Len() int {
	if n.value == 0 {
		return 0
	}
	next := n.Next()
	return 1 + next.Len()
}
`

func TestRun(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	dir := writeModule(t, "1.24", map[string]string{"list/list.go": listSrc})
	pkgDir := filepath.Join(dir, "list")
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	opts := generator.Options{Dir: pkgDir, Env: env}

	res, err := generator.Run(ctx, opts, logger)
	require.NoError(err)
	require.Equal(generator.Written, res.Status)
	require.Equal("github.com/ChloeMayhewELT/HeapStorageMacro/list", res.PkgPath)
	require.Equal(1, res.Structs)
	require.Equal(1, res.Fields)
	require.Equal("wrote list_heapgen.go (1 boxed fields)", hook.LastEntry().Message)
	require.Equal(res.PkgPath, hook.LastEntry().Data["pkg"])

	code, err := os.ReadFile(filepath.Join(pkgDir, "list_heapgen.go"))
	require.NoError(err)
	require.True(generator.IsGeneratedSource(code))
	require.Contains(string(code), "func (n *Node) SetNext(v Node) {")

	res, err = generator.Run(ctx, opts, logger)
	require.NoError(err)
	require.Equal(generator.Unchanged, res.Status)

	// The generated file now refers to a field that is gone.
	src := strings.Replace(listSrc, "next  heap.Box[Node]", "next  *Node", 1)
	src = strings.Replace(src, "import \"github.com/ChloeMayhewELT/HeapStorageMacro/heap\"\n", "", 1)
	require.NoError(os.WriteFile(filepath.Join(pkgDir, "list.go"), []byte(src), 0666))
	res, err = generator.Run(ctx, opts, logger)
	require.NoError(err)
	require.Equal(generator.Removed, res.Status)
	require.NoFileExists(filepath.Join(pkgDir, "list_heapgen.go"))
}

func TestRunConfig(t *testing.T) {
	require := require.New(t)

	dir := writeModule(t, "1.24", map[string]string{
		"heapgen.toml": `
output = "boxes.go"
equal = true

[[rule]]
select.field = 'next'
action.getter = 'Tail'
`,
		"list/list.go": listSrc,
	})
	logger, _ := logtest.NewNullLogger()
	res, err := generator.Run(context.Background(), generator.Options{
		Dir: filepath.Join(dir, "list"),
		Env: env,
	}, logger)
	require.NoError(err)
	require.Equal("boxes.go", filepath.Base(res.File))

	code, err := os.ReadFile(res.File)
	require.NoError(err)
	require.Contains(string(code), "func (n *Node) Tail() Node {")
	require.Contains(string(code), "func (n *Node) SetTail(v Node) {")
	require.Contains(string(code), "func (n *Node) Equal(o *Node) bool {")

	// Flags win over the config file.
	noEqual := false
	res, err = generator.Run(context.Background(), generator.Options{
		Dir:   filepath.Join(dir, "list"),
		Equal: &noEqual,
		Env:   env,
	}, logger)
	require.NoError(err)
	require.Equal(generator.Written, res.Status)
	code, err = os.ReadFile(res.File)
	require.NoError(err)
	require.NotContains(string(code), "Equal")
}

func TestRunRefusesOverwrite(t *testing.T) {
	dir := writeModule(t, "1.24", map[string]string{
		"list/list.go":         listSrc,
		"list/list_heapgen.go": "package list\n\nfunc handWritten() {}\n",
	})
	logger, _ := logtest.NewNullLogger()
	_, err := generator.Run(context.Background(), generator.Options{Dir: filepath.Join(dir, "list"), Env: env}, logger)
	require.ErrorContains(t, err, "refusing to overwrite")
}

func TestRunOldGoVersion(t *testing.T) {
	dir := writeModule(t, "1.17", map[string]string{"list/list.go": listSrc})
	logger, _ := logtest.NewNullLogger()
	_, err := generator.Run(context.Background(), generator.Options{Dir: filepath.Join(dir, "list"), Env: env}, logger)
	require.ErrorIs(t, err, gomod.ErrNoGenerics)
}
