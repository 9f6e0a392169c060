package script

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sourcegraph/conc/pool"
	"github.com/trim21/errgo"

	"binheap/internal/session"
)

// Result is the output of one script file.
type Result struct {
	Err    error
	Path   string
	Output string
}

// RunFiles runs each file on its own store, at most parallel at a time.
// Results keep the order of paths.
func RunFiles(paths []string, parallel int, maxHeaps int) []Result {
	results := make([]Result, len(paths))

	p := pool.New()
	if parallel > 0 {
		p = p.WithMaxGoroutines(parallel)
	}

	for i, path := range paths {
		p.Go(func() {
			results[i] = runFile(path, maxHeaps)
		})
	}

	p.Wait()

	return results
}

func runFile(path string, maxHeaps int) Result {
	r := Result{Path: path}

	f, err := os.Open(path)
	if err != nil {
		r.Err = errgo.Wrap(err, fmt.Sprintf("failed to open script %s", path))
		return r
	}
	defer f.Close()

	var out bytes.Buffer
	r.Err = New(session.New(maxHeaps), &out).Run(f)
	r.Output = out.String()

	return r
}
