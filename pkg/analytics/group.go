package analytics

// group is an accumulator keyed by string that remembers the order keys
// were first seen in, so sorts over it can be stable.
type group[V any] struct {
	keys []string
	vals map[string]*V
}

func newGroup[V any]() *group[V] {
	return &group[V]{vals: map[string]*V{}}
}

// get returns the accumulator for key, creating it on first use.
func (g *group[V]) get(key string) *V {
	v, ok := g.vals[key]
	if !ok {
		v = new(V)
		g.vals[key] = v
		g.keys = append(g.keys, key)
	}
	return v
}

// each visits accumulators in first seen order.
func (g *group[V]) each(fn func(key string, v *V)) {
	for _, k := range g.keys {
		fn(k, g.vals[k])
	}
}

func (g *group[V]) len() int {
	return len(g.keys)
}
