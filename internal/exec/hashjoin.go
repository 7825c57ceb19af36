package exec

import "github.com/Hareesh108/haruDB/internal/engine"

// hashNodeCapacity bounds the number of (key, position) pairs stored inline
// in a single chain node before a new node is linked on — mirroring the
// source's fixed-capacity hashmap_node, but with the allocation actually
// performed: the source's hashmap_node_create always returned nil for an
// overflow node, silently dropping any key occurring more than
// hashNodeCapacity times per bucket. See DESIGN.md.
const hashNodeCapacity = 1024

const hashBuckets = 4096

type hashNode struct {
	keys      []int32
	positions []int32
	next      *hashNode
}

type hashmap struct {
	buckets []*hashNode
}

func newHashmap() *hashmap {
	h := &hashmap{buckets: make([]*hashNode, hashBuckets)}
	for i := range h.buckets {
		h.buckets[i] = &hashNode{}
	}
	return h
}

func (h *hashmap) bucketIndex(key int32) int {
	return int(uint32(key) % hashBuckets)
}

func (h *hashmap) put(key, position int32) {
	node := h.buckets[h.bucketIndex(key)]
	for len(node.keys) == hashNodeCapacity {
		if node.next == nil {
			node.next = &hashNode{}
		}
		node = node.next
	}
	node.keys = append(node.keys, key)
	node.positions = append(node.positions, position)
}

func (h *hashmap) get(key int32) []int32 {
	var out []int32
	for node := h.buckets[h.bucketIndex(key)]; node != nil; node = node.next {
		for i, k := range node.keys {
			if k == key {
				out = append(out, node.positions[i])
			}
		}
	}
	return out
}

// HashJoin builds a hash map over (values1, positions1) keyed by value, then
// probes it with each (values2[i], positions2[i]) pair, emitting a matching
// (pos1, pos2) tuple per hit (spec §4.6, the HASH branch of JOIN). Both
// output vectors are kept ascending via insertion-sort-at-append, matching
// the source's insert_to_sorted_data contract for join results.
func HashJoin(values1, positions1, values2, positions2 []int32) (*engine.Vector, *engine.Vector) {
	h := newHashmap()
	for i := range values1 {
		h.put(values1[i], positions1[i])
	}

	var out1, out2 []int32
	for i := range values2 {
		for _, p1 := range h.get(values2[i]) {
			out1 = insertSorted(out1, p1)
			out2 = insertSorted(out2, positions2[i])
		}
	}
	return engine.NewIntVector(out1), engine.NewIntVector(out2)
}
