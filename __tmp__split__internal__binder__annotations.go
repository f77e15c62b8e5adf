package binder

import (
	"github.com/embergrade/ember/internal/ast"
	"github.com/embergrade/ember/internal/flow"
	"github.com/embergrade/ember/internal/module"
	"github.com/embergrade/ember/internal/symbol"
)

// TypeCacheEntry is the per-node memoization cell the evaluator reads and writes.
type TypeCacheEntry struct {
	Type         interface{} // types.Type; kept as interface{} to avoid an import cycle with internal/types
	HasType      bool
	WriteVersion int
	ReadVersion  int
	IsFinal      bool
}

// NodeInfo is the side-band annotation record attached to one syntax node, keyed by node
// identity.
type NodeInfo struct {
	Scope      *symbol.Scope
	FlowNode   flow.Node
	ImportInfo *module.ImportResult
	TypeCache  TypeCacheEntry
}

// Annotations is the arena-owned side-band map for one file's analysis. It is discarded
// wholesale between re-binds via Clean.
type Annotations struct {
	byNode map[ast.Node]*NodeInfo
}

func NewAnnotations() *Annotations {
	return &Annotations{byNode: make(map[ast.Node]*NodeInfo)}
}

// Get returns (creating if absent) the NodeInfo for n.
func (a *Annotations) Get(n ast.Node) *NodeInfo {
	info, ok := a.byNode[n]
	if !ok {
		info = &NodeInfo{}
		a.byNode[n] = info
	}
	return info
}

// Peek returns the NodeInfo for n without creating one, for read-only callers (e.g. a
// language-service query interface built on top of this package).
func (a *Annotations) Peek(n ast.Node) (*NodeInfo, bool) {
	info, ok := a.byNode[n]
	return info, ok
}

// Clean discards every annotation between re-binds; no per-node analysis state persists across
// a full rebuild.
func (a *Annotations) Clean() {
	a.byNode = make(map[ast.Node]*NodeInfo)
}


