package chart

import "github.com/StudioSol/set"

// joinResult is the outcome of a keyed diff between the previous and the
// next set of identity keys. Enter keys are in next only, update keys in
// both, exit keys in previous only. Order follows the input slices.
type joinResult struct {
	enter  []string
	update []string
	exit   []string
}

// keyedJoin diffs the previous keys against the next keys. Duplicate
// keys collapse; callers reject duplicates during validation.
func keyedJoin(prev, next []string) joinResult {
	prevSet := set.NewLinkedHashSetString(prev...)
	nextSet := set.NewLinkedHashSetString(next...)

	var out joinResult
	for key := range nextSet.Iter() {
		if prevSet.InArray(key) {
			out.update = append(out.update, key)
		} else {
			out.enter = append(out.enter, key)
		}
	}
	for key := range prevSet.Iter() {
		if !nextSet.InArray(key) {
			out.exit = append(out.exit, key)
		}
	}
	return out
}
