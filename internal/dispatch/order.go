package dispatch

import (
	"sort"

	"github.com/funvibe/typedfn/internal/signature"
)

// order sorts sigFn pairs in place by type specificity using the
// registry's type index. The sort is stable so that ties preserve the
// caller's original (insertion) order, which is what makes the overall
// dispatch order deterministic.
func order(pairs []sigFn, typeIndex map[string]int) {
	sort.SliceStable(pairs, func(i, j int) bool {
		return less(pairs[i].sig, pairs[j].sig, typeIndex)
	})
}

// less implements a three-step comparison:
//  1. restParam == true sorts after restParam == false.
//  2. element-wise over the common prefix, compare by the lowest
//     typeIndex appearing in each param.
//  3. if the prefix ties, fewer params sorts first.
func less(a, b signature.Signature, typeIndex map[string]int) bool {
	if a.RestParam != b.RestParam {
		return !a.RestParam // non-rest sorts first
	}

	n := len(a.Params)
	if len(b.Params) < n {
		n = len(b.Params)
	}
	for i := 0; i < n; i++ {
		ai := minIndex(a.Params[i], typeIndex)
		bi := minIndex(b.Params[i], typeIndex)
		if ai != bi {
			return ai < bi
		}
	}
	return len(a.Params) < len(b.Params)
}

// minIndex returns the lowest typeIndex among the names in p.
func minIndex(p signature.Param, typeIndex map[string]int) int {
	best := int(^uint(0) >> 1) // max int
	for name := range p {
		if idx, ok := typeIndex[name]; ok && idx < best {
			best = idx
		}
	}
	return best
}
