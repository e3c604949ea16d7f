package lp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/dsnet/compress/bzip2"
)

// FileSolver reads a relaxation solved offline. Each line is "id x_0 ... x_{k-1}"; an "objective v" line
// carries the relaxation value and an "optimum v" line the integral optimum. Lines starting with # are
// comments. Files ending in .bz2 are decompressed on the fly.
type FileSolver struct {
	path string
}

func NewFileSolver(path string) *FileSolver {
	return &FileSolver{path: path}
}

func (fs *FileSolver) open() (io.ReadCloser, error) {
	f, err := os.Open(fs.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
	}
	if !strings.HasSuffix(fs.path, ".bz2") {
		return f, nil
	}
	br, err := bzip2.NewReader(f, nil)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
	}
	return &bz2File{Reader: br, f: f}, nil
}

type bz2File struct {
	*bzip2.Reader
	f *os.File
}

func (b *bz2File) Close() error {
	err := b.Reader.Close()
	if ferr := b.f.Close(); err == nil {
		err = ferr
	}
	return err
}

func (fs *FileSolver) read(ctx context.Context) (*FractionalSolution, *int64, error) {
	rc, err := fs.open()
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	sol := &FractionalSolution{Vectors: make(map[int][]float64)}
	var optimum *int64

	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo%4096 == 0 && ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		ff := strings.Fields(sc.Text())
		if len(ff) == 0 || strings.HasPrefix(ff[0], "#") {
			continue
		}
		switch ff[0] {
		case "objective":
			if len(ff) != 2 {
				return nil, nil, fmt.Errorf("%w: line %d: malformed objective", ErrInfeasible, lineNo)
			}
			sol.Objective, err = strconv.ParseFloat(ff[1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: line %d: %v", ErrInfeasible, lineNo, err)
			}
			continue
		case "optimum":
			if len(ff) != 2 {
				return nil, nil, fmt.Errorf("%w: line %d: malformed optimum", ErrInfeasible, lineNo)
			}
			v, err := strconv.ParseInt(ff[1], 10, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: line %d: %v", ErrInfeasible, lineNo, err)
			}
			optimum = &v
			continue
		}

		id, err := strconv.Atoi(ff[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: bad vertex id %q", ErrInfeasible, lineNo, ff[0])
		}
		x := make([]float64, len(ff)-1)
		for i, s := range ff[1:] {
			x[i], err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: line %d: %v", ErrInfeasible, lineNo, err)
			}
		}
		sol.Vectors[id] = x
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
	}
	return sol, optimum, nil
}

func (fs *FileSolver) SolveFractional(ctx context.Context, net *da.FlowNetwork) (*FractionalSolution, error) {
	sol, _, err := fs.read(ctx)
	if err != nil {
		return nil, err
	}
	if len(sol.Vectors) == 0 {
		return nil, fmt.Errorf("%w: %s holds no vectors", ErrInfeasible, fs.path)
	}
	if err := sol.Check(net); err != nil {
		return nil, err
	}
	return sol, nil
}

func (fs *FileSolver) SolveIntegral(ctx context.Context, _ *da.FlowNetwork) (int64, error) {
	_, optimum, err := fs.read(ctx)
	if err != nil {
		return 0, err
	}
	if optimum == nil {
		return 0, fmt.Errorf("%w: %s has no optimum line", ErrSolverUnavailable, fs.path)
	}
	return *optimum, nil
}
