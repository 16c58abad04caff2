package merge

// cluster is one group of same-entity records keyed by canonical id,
// preserving provider order within and first-seen order across clusters.
type cluster[T any] struct {
	id   string
	recs []T
}

func clusterBy[T any](items []T, key func(T) (string, error)) ([]cluster[T], error) {
	index := make(map[string]int, len(items))
	out := make([]cluster[T], 0, len(items))
	for _, item := range items {
		id, err := key(item)
		if err != nil {
			return nil, err
		}
		at, ok := index[id]
		if !ok {
			index[id] = len(out)
			out = append(out, cluster[T]{id: id})
			at = len(out) - 1
		}
		out[at].recs = append(out[at].recs, item)
	}
	return out, nil
}
