package verbosity

import "strings"

// node is one name prefix of the tree. Nodes reachable from a published
// snapshot are never mutated; writers copy the path they change.
type node struct {
	verbosity int
	explicit  bool
	children  map[string]*node
}

func (n *node) child(seg string) *node {
	if n == nil {
		return nil
	}
	return n.children[seg]
}

// clone returns a shallow copy of n. Children are shared. A nil node clones
// into an empty one.
func (n *node) clone() *node {
	if n == nil {
		return &node{}
	}
	c := &node{verbosity: n.verbosity, explicit: n.explicit}
	if len(n.children) > 0 {
		c.children = make(map[string]*node, len(n.children)+1)
		for seg, ch := range n.children {
			c.children[seg] = ch
		}
	}
	return c
}

func (n *node) setChild(seg string, ch *node) {
	if n.children == nil {
		n.children = make(map[string]*node, 1)
	}
	n.children[seg] = ch
}

// find returns the node at segs, or nil when the path does not exist.
func (n *node) find(segs []string) *node {
	cur := n
	for _, seg := range segs {
		cur = cur.child(seg)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// withOverride returns a copy of n where the node at segs carries v.
// Missing intermediate nodes are created without an override.
func withOverride(n *node, segs []string, v int) *node {
	c := n.clone()
	if len(segs) == 0 {
		c.verbosity = v
		c.explicit = true
		return c
	}
	c.setChild(segs[0], withOverride(n.child(segs[0]), segs[1:], v))
	return c
}

// withoutOverride returns a copy of n where the node at segs inherits.
// It reports false and returns n itself when nothing changes.
func withoutOverride(n *node, segs []string) (*node, bool) {
	if n == nil {
		return nil, false
	}
	if len(segs) == 0 {
		if !n.explicit {
			return n, false
		}
		c := n.clone()
		c.explicit = false
		c.verbosity = 0
		return c, true
	}
	ch, changed := withoutOverride(n.child(segs[0]), segs[1:])
	if !changed {
		return n, false
	}
	c := n.clone()
	c.setChild(segs[0], ch)
	return c, true
}

// resolve walks from the root n down name and returns the override of the
// deepest explicit node met on the way. n must be a root, which is always
// explicit. explicit reports whether name itself carries the override.
func (n *node) resolve(name string) (v int, explicit bool) {
	v = n.verbosity
	if name == "" {
		return v, true
	}

	cur := n
	rest := name
	for {
		seg, tail, more := strings.Cut(rest, Separator)
		next := cur.children[seg]
		if next == nil {
			return v, false
		}
		cur = next
		if cur.explicit {
			v = cur.verbosity
		}
		if !more {
			return v, cur.explicit
		}
		rest = tail
	}
}

// collect appends every explicit node below n (n excluded) to out. top marks
// the root, whose children are named by their segment alone; below it an
// empty segment still needs its separator.
func (n *node) collect(prefix string, top bool, out []Override) []Override {
	for seg, ch := range n.children {
		name := seg
		if !top {
			name = prefix + Separator + seg
		}
		if ch.explicit {
			out = append(out, Override{Name: name, Verbosity: ch.verbosity})
		}
		out = ch.collect(name, false, out)
	}
	return out
}
