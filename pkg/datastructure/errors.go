package datastructure

import "errors"

var (
	ErrNegativeVertexID      = errors.New("datastructure: negative vertex id")
	ErrNegativeCapacity      = errors.New("datastructure: negative edge capacity")
	ErrSelfLoop              = errors.New("datastructure: self-loop edge")
	ErrTerminalNotFound      = errors.New("datastructure: terminal is not a vertex of the graph")
	ErrDuplicateTerminal     = errors.New("datastructure: terminals are not pairwise distinct")
	ErrTerminalCountMismatch = errors.New("datastructure: terminal count does not match k")
	ErrDuplicateVertex       = errors.New("datastructure: vertex already exists")
	ErrVertexNotFound        = errors.New("datastructure: vertex not found")
	ErrEdgeNotFound          = errors.New("datastructure: edge not found")
	ErrRemoveTerminal        = errors.New("datastructure: terminal vertices cannot be removed")
	ErrInvalidSimplex        = errors.New("datastructure: label vector is not a point of the probability simplex")
)
