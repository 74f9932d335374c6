package treediff

// Result is the outcome of diffing two ASTNode trees: the completed node
// correspondence and the edit script that realizes it.
type Result struct {
	Src, Dst *Tree
	Mappings *Mappings
	Actions  []Action
}

// Diff computes the minimum-cost edit script turning src into dst. It runs
// the top-down isomorphic matcher, then the bottom-up container matcher
// (which itself invokes the optimal Zhang-Shasha matcher on small
// candidate subtrees), and finally derives the edit script from the
// resulting Mappings.
func Diff(srcRoot, dstRoot ASTNode, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	src, err := Build(srcRoot)
	if err != nil {
		return nil, err
	}

	dst, err := Build(dstRoot)
	if err != nil {
		return nil, err
	}

	m := NewMappings(src, dst)

	matchTopDown(src, dst, m, opts.MinHeight)
	matchBottomUp(src, dst, m, opts)

	actions, err := BuildEditScript(src, dst, m)
	if err != nil {
		return nil, err
	}

	return &Result{Src: src, Dst: dst, Mappings: m, Actions: actions}, nil
}
