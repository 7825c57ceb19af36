// Package btree implements the order-N, leaf-linked B+tree index used to
// accelerate range scans over a column (spec §4.1).
//
// A tree is either clustered or unclustered, decided by which insert method
// the caller drives: InsertClustered assumes the tree's key order also
// defines the physical row order of the owning table and returns the rank at
// which the key landed; InsertUnclustered takes an explicit row position and
// keeps every leaf's positions consistent with an unsorted backing column.
//
// Leaf split keeps the smallest key of the new right leaf duplicated as the
// promoted separator (standard for B+trees: the parent only routes, leaves
// hold the real data). Internal-node split removes the median from both
// children and promotes it alone — a true B-tree split, not a duplicate.
package btree

// DefaultMaxKeys mirrors MAX_BTREE_NODE_KEYS from the source catalog format.
const DefaultMaxKeys = 1024

type node struct {
	leaf bool

	// leaf fields
	keys      []int32
	positions []int
	next      *node

	// internal fields
	ikeys    []int32
	children []*node
}

// Tree is a B+tree index over int32 keys.
type Tree struct {
	root    *node
	maxKeys int
}

// New creates an empty tree. maxKeys must be >= 8; it bounds how many keys a
// node holds before it splits (invariant 5).
func New(maxKeys int) *Tree {
	if maxKeys < 8 {
		maxKeys = DefaultMaxKeys
	}
	return &Tree{
		root:    &node{leaf: true},
		maxKeys: maxKeys,
	}
}

func (n *node) numKeys() int {
	if n.leaf {
		return len(n.keys)
	}
	return len(n.ikeys)
}

// findChildIndex returns the first position in n's keys whose value is >= val
// (or numKeys if none), i.e. the child to descend into for val.
func findChildIndex(keys []int32, val int32) int {
	i := 0
	for i < len(keys) && keys[i] < val {
		i++
	}
	return i
}

// leftmostLeaf returns the leftmost leaf of the subtree rooted at n.
func leftmostLeaf(n *node) *node {
	for !n.leaf {
		n = n.children[0]
	}
	return n
}

// leafFor descends to the leaf that would contain val.
func (t *Tree) leafFor(val int32) *node {
	cur := t.root
	for !cur.leaf {
		i := findChildIndex(cur.ikeys, val)
		cur = cur.children[i]
	}
	return cur
}

// splitLeaf splits a full leaf, returning the new right sibling and the
// promoted (duplicated) separator key.
func splitLeaf(n *node) (*node, int32) {
	mid := n.numKeys() / 2
	right := &node{leaf: true}
	right.keys = append(right.keys, n.keys[mid:]...)
	right.positions = append(right.positions, n.positions[mid:]...)
	right.next = n.next

	n.keys = n.keys[:mid]
	n.positions = n.positions[:mid]
	n.next = right

	median := right.keys[0]
	return right, median
}

// splitInternal splits a full internal node per textbook B-tree semantics:
// the median key is removed from both halves and promoted alone.
func splitInternal(n *node) (*node, int32) {
	mid := n.numKeys() / 2
	median := n.ikeys[mid]

	right := &node{leaf: false}
	right.ikeys = append(right.ikeys, n.ikeys[mid+1:]...)
	right.children = append(right.children, n.children[mid+1:]...)

	n.ikeys = n.ikeys[:mid]
	n.children = n.children[:mid+1]

	return right, median
}

func (t *Tree) newRootAfterSplit(left, right *node, median int32) {
	t.root = &node{
		leaf:     false,
		ikeys:    []int32{median},
		children: []*node{left, right},
	}
}

// InsertClustered inserts key into the leaf-ordered position and returns the
// rank it landed at. Every existing position at or after that rank (in this
// leaf and every leaf to its right) is incremented by one, reflecting the
// physical row shift a clustered insert causes (invariant 6).
func (t *Tree) InsertClustered(key int32) int {
	rank, split, median := t.insertClustered(t.root, key)
	if split != nil {
		t.newRootAfterSplit(t.root, split, median)
	}
	return rank
}

func (t *Tree) insertClustered(n *node, key int32) (rank int, split *node, median int32) {
	if n.leaf {
		first := 0
		if len(n.positions) > 0 {
			first = n.positions[0]
		}
		i := len(n.keys)
		for i > 0 && n.keys[i-1] > key {
			i--
		}
		n.keys = append(n.keys, 0)
		copy(n.keys[i+1:], n.keys[i:])
		n.keys[i] = key

		n.positions = append(n.positions, 0)
		copy(n.positions[i+1:], n.positions[i:])
		rank = first + i
		n.positions[i] = rank
		// positions after i in this leaf shift by one
		for j := i + 1; j < len(n.positions); j++ {
			n.positions[j] = first + j
		}

		for cur := n.next; cur != nil; cur = cur.next {
			for j := range cur.positions {
				cur.positions[j]++
			}
		}

		if n.numKeys() == t.maxKeys {
			split, median = splitLeaf(n)
		}
		return rank, split, median
	}

	idx := findChildIndex(n.ikeys, key)
	childRank, childSplit, childMedian := t.insertClustered(n.children[idx], key)
	rank = childRank
	if childSplit != nil {
		n.ikeys = append(n.ikeys, 0)
		copy(n.ikeys[idx+1:], n.ikeys[idx:])
		n.ikeys[idx] = childMedian

		n.children = append(n.children, nil)
		copy(n.children[idx+2:], n.children[idx+1:])
		n.children[idx+1] = childSplit
	}
	if n.numKeys() == t.maxKeys {
		split, median = splitInternal(n)
	}
	return rank, split, median
}

// InsertUnclustered inserts (key, pos). When last is false, every existing
// entry whose stored position is >= pos is incremented first, reflecting a
// mid-column insert into the unsorted backing column (spec §4.1).
func (t *Tree) InsertUnclustered(key int32, pos int, last bool) {
	if !last {
		for cur := leftmostLeaf(t.root); cur != nil; cur = cur.next {
			for j := range cur.positions {
				if cur.positions[j] >= pos {
					cur.positions[j]++
				}
			}
		}
	}
	split, median := t.insertUnclustered(t.root, key, pos)
	if split != nil {
		t.newRootAfterSplit(t.root, split, median)
	}
}

func (t *Tree) insertUnclustered(n *node, key int32, pos int) (split *node, median int32) {
	if n.leaf {
		i := len(n.keys)
		for i > 0 && n.keys[i-1] > key {
			i--
		}
		n.keys = append(n.keys, 0)
		copy(n.keys[i+1:], n.keys[i:])
		n.keys[i] = key

		n.positions = append(n.positions, 0)
		copy(n.positions[i+1:], n.positions[i:])
		n.positions[i] = pos

		if n.numKeys() == t.maxKeys {
			return splitLeaf(n)
		}
		return nil, 0
	}

	idx := findChildIndex(n.ikeys, key)
	childSplit, childMedian := t.insertUnclustered(n.children[idx], key, pos)
	if childSplit != nil {
		n.ikeys = append(n.ikeys, 0)
		copy(n.ikeys[idx+1:], n.ikeys[idx:])
		n.ikeys[idx] = childMedian

		n.children = append(n.children, nil)
		copy(n.children[idx+2:], n.children[idx+1:])
		n.children[idx+1] = childSplit
	}
	if n.numKeys() == t.maxKeys {
		return splitInternal(n)
	}
	return nil, 0
}

// RangeScan walks from the leftmost leaf whose keys could satisfy the bound
// and appends positions for entries with lower <= key < upper, stopping as
// soon as a key >= upper is seen (leaves are sorted, so later leaves can only
// be further out of range).
func (t *Tree) RangeScan(lower, upper *int32, out *[]int) {
	start := t.root
	if lower != nil {
		start = t.leafFor(*lower)
	} else {
		start = leftmostLeaf(t.root)
	}

	for cur := start; cur != nil; cur = cur.next {
		for i, k := range cur.keys {
			if lower != nil && k < *lower {
				continue
			}
			if upper != nil && k >= *upper {
				return
			}
			*out = append(*out, cur.positions[i])
		}
	}
}

// EnumerateKeys performs a left-to-right traversal of the linked leaves,
// writing keys in sort order.
func (t *Tree) EnumerateKeys(out *[]int32) {
	for cur := leftmostLeaf(t.root); cur != nil; cur = cur.next {
		*out = append(*out, cur.keys...)
	}
}

// Len returns the total number of keys stored across all leaves.
func (t *Tree) Len() int {
	n := 0
	for cur := leftmostLeaf(t.root); cur != nil; cur = cur.next {
		n += len(cur.keys)
	}
	return n
}
