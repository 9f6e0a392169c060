package script_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"binheap/internal/pkg/binomial"
	"binheap/internal/script"
	"binheap/internal/session"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	err := script.New(session.New(0), &out).Run(strings.NewReader(src))

	return out.String(), err
}

func TestRun(t *testing.T) {
	t.Parallel()

	out, err := run(t, `
# scenario from the insert test
new h
insert h 5 a
insert h 4 b
insert h 25 c
insert h -13 d
print h
min h
decrease h a -20
extract h
delete h d
len h
check h
extract h
extract h
print h
min h
`)
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"h", "a", "b", "c", "d",
		"(k=-13, p=None, d=2)(k=4, p=-13, d=1)(k=5, p=4, d=0)(k=25, p=-13, d=0)",
		"d -13",
		"ok",
		"a -20",
		"ok",
		"2",
		"ok",
		"b 4",
		"c 25",
		"",
		"empty",
	}, "\n")+"\n", out)
}

func TestRun_Union(t *testing.T) {
	t.Parallel()

	out, err := run(t, `
new a
new b
insert a 5
insert a 10
insert b 3
insert b 12
insert b 18
union a b
len a
check a
list
`)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, []string{"5", "5", "ok", "a: 5 elements, 5 operations"}, lines[len(lines)-4:])
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	_, err := run(t, "new h\ninsert h hello")
	require.ErrorIs(t, err, binomial.ErrInvalidKeyType)
	require.Contains(t, err.Error(), "line 2")

	_, err = run(t, "new h\ninsert h 1 x\ndecrease h x 2")
	require.ErrorIs(t, err, binomial.ErrInvalidKeyDecrease)

	_, err = run(t, "new h\nextract h")
	require.ErrorIs(t, err, binomial.ErrEmptyHeap)

	_, err = run(t, "print nope")
	require.ErrorIs(t, err, session.ErrHeapNotFound)

	_, err = run(t, "push h 1")
	require.ErrorIs(t, err, script.ErrUnknownCommand)

	_, err = run(t, "insert h")
	require.ErrorIs(t, err, script.ErrArguments)

	out, err := run(t, "new h\nunion h h\nlen h")
	require.ErrorIs(t, err, session.ErrSelfUnion)
	require.Equal(t, "h\n", out)
}

func TestRunFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var paths []string
	for i, src := range []string{
		"new h\ninsert h 10\nextract h\nprint h\n",
		"new h\ninsert h 7 x\ninsert h 5 y\nprint h\n",
		"new h\ndrop h\ndrop h\n",
	} {
		p := filepath.Join(dir, string(rune('a'+i))+".txt")
		require.NoError(t, os.WriteFile(p, []byte(src), 0o600))
		paths = append(paths, p)
	}
	paths = append(paths, filepath.Join(dir, "missing.txt"))

	results := script.RunFiles(paths, 2, 0)
	require.Len(t, results, 4)

	require.NoError(t, results[0].Err)
	require.Equal(t, paths[0], results[0].Path)
	require.Regexp(t, `^h\n\w{8}\n\w{8} 10\n\n$`, results[0].Output)

	require.NoError(t, results[1].Err)
	require.Equal(t, "h\nx\ny\n(k=5, p=None, d=1)(k=7, p=5, d=0)\n", results[1].Output)

	require.ErrorIs(t, results[2].Err, session.ErrHeapNotFound)
	require.Equal(t, "h\nok\n", results[2].Output)

	require.ErrorIs(t, results[3].Err, os.ErrNotExist)
}
