package graphparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/dsnet/compress/bzip2"
)

var ErrMalformed = errors.New("graphparser: malformed graph file")

// Instance is the constructor input of a multiway cut network.
type Instance struct {
	Terminals []int
	K         int
	Edges     []da.EdgeInput
}

func (in *Instance) Network() (*da.FlowNetwork, error) {
	return da.NewFlowNetwork(in.Terminals, in.K, in.Edges)
}

/*
Parse reads one of two formats, chosen by content.

native: k on the first line, the k terminal ids on the second, "n m" on the third, then m lines "u v c".

DIMACS style: "c" comment lines, one "p mwc n m" problem line, "t id" lines for the terminals and
"e u v c" lines for the edges.

Blank lines and lines starting with # are skipped in both.
*/
func Parse(r io.Reader) (*Instance, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		if l.fields[0] == "p" {
			return parseDIMACS(lines)
		}
	}
	return parseNative(lines)
}

type line struct {
	no     int
	fields []string
}

func readLines(r io.Reader) ([]line, error) {
	br := bufio.NewReader(r)
	lines := make([]line, 0)
	for no := 1; ; no++ {
		s, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		ff := strings.Fields(s)
		if len(ff) > 0 && !strings.HasPrefix(ff[0], "#") {
			lines = append(lines, line{no: no, fields: ff})
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
	}
}

func atoi(l line, i int) (int, error) {
	if i >= len(l.fields) {
		return 0, fmt.Errorf("%w: line %d: missing field %d", ErrMalformed, l.no, i+1)
	}
	v, err := strconv.Atoi(l.fields[i])
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %v", ErrMalformed, l.no, err)
	}
	return v, nil
}

func parseEdge(l line, offset int) (da.EdgeInput, error) {
	if len(l.fields) != offset+3 {
		return da.EdgeInput{}, fmt.Errorf("%w: line %d: want \"u v capacity\"", ErrMalformed, l.no)
	}
	u, err := atoi(l, offset)
	if err != nil {
		return da.EdgeInput{}, err
	}
	v, err := atoi(l, offset+1)
	if err != nil {
		return da.EdgeInput{}, err
	}
	c, err := strconv.ParseInt(l.fields[offset+2], 10, 64)
	if err != nil {
		return da.EdgeInput{}, fmt.Errorf("%w: line %d: %v", ErrMalformed, l.no, err)
	}
	return da.NewEdgeInput(u, v, c), nil
}

func parseNative(lines []line) (*Instance, error) {
	if len(lines) < 3 {
		return nil, fmt.Errorf("%w: header needs 3 lines, got %d", ErrMalformed, len(lines))
	}
	k, err := atoi(lines[0], 0)
	if err != nil {
		return nil, err
	}
	if len(lines[1].fields) != k {
		return nil, fmt.Errorf("%w: line %d: %d terminals, k=%d", ErrMalformed, lines[1].no, len(lines[1].fields), k)
	}
	terminals := make([]int, k)
	for i := range terminals {
		if terminals[i], err = atoi(lines[1], i); err != nil {
			return nil, err
		}
	}
	if _, err = atoi(lines[2], 0); err != nil {
		return nil, err
	}
	m, err := atoi(lines[2], 1)
	if err != nil {
		return nil, err
	}
	if len(lines)-3 != m {
		return nil, fmt.Errorf("%w: header announces %d edges, found %d", ErrMalformed, m, len(lines)-3)
	}

	edges := make([]da.EdgeInput, 0, m)
	for _, l := range lines[3:] {
		e, err := parseEdge(l, 0)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return &Instance{Terminals: terminals, K: k, Edges: edges}, nil
}

func parseDIMACS(lines []line) (*Instance, error) {
	in := &Instance{Terminals: make([]int, 0), Edges: make([]da.EdgeInput, 0)}
	m := -1
	for _, l := range lines {
		switch l.fields[0] {
		case "c":
		case "p":
			if m >= 0 {
				return nil, fmt.Errorf("%w: line %d: second problem line", ErrMalformed, l.no)
			}
			if len(l.fields) != 4 || l.fields[1] != "mwc" {
				return nil, fmt.Errorf("%w: line %d: want \"p mwc n m\"", ErrMalformed, l.no)
			}
			var err error
			if m, err = atoi(l, 3); err != nil {
				return nil, err
			}
		case "t":
			id, err := atoi(l, 1)
			if err != nil {
				return nil, err
			}
			in.Terminals = append(in.Terminals, id)
		case "e", "a":
			e, err := parseEdge(l, 1)
			if err != nil {
				return nil, err
			}
			in.Edges = append(in.Edges, e)
		default:
			return nil, fmt.Errorf("%w: line %d: unknown descriptor %q", ErrMalformed, l.no, l.fields[0])
		}
	}
	if len(in.Edges) != m {
		return nil, fmt.Errorf("%w: problem line announces %d edges, found %d", ErrMalformed, m, len(in.Edges))
	}
	in.K = len(in.Terminals)
	return in, nil
}

// ParseFile parses path, decompressing it first when it ends in .bz2.
func ParseFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".bz2") {
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, err
		}
		defer bz.Close()
		r = bz
	}
	in, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// WriteFile writes in using the native format, bzip2 compressed when path ends in .bz2.
func WriteFile(path string, in *Instance) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var bz *bzip2.Writer
	if strings.HasSuffix(path, ".bz2") {
		bz, err = bzip2.NewWriter(f, &bzip2.WriterConfig{})
		if err != nil {
			return err
		}
		w = bz
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", in.K)
	for i, t := range in.Terminals {
		if i > 0 {
			fmt.Fprint(bw, " ")
		}
		fmt.Fprintf(bw, "%d", t)
	}
	fmt.Fprintf(bw, "\n%d %d\n", countVertices(in), len(in.Edges))
	for _, e := range in.Edges {
		fmt.Fprintf(bw, "%d %d %d\n", e.U, e.V, e.Capacity)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if bz != nil {
		return bz.Close()
	}
	return nil
}

func countVertices(in *Instance) int {
	seen := make(map[int]struct{})
	for _, e := range in.Edges {
		seen[e.U] = struct{}{}
		seen[e.V] = struct{}{}
	}
	return len(seen)
}

// WriteLabels writes "id label" lines for every live vertex of net.
func WriteLabels(w io.Writer, net *da.FlowNetwork, partition []int) error {
	bw := bufio.NewWriter(w)
	net.ForEachVertex(func(u da.Index, v *da.FlowVertex) {
		fmt.Fprintf(bw, "%d %d\n", v.GetID(), partition[u])
	})
	return bw.Flush()
}
