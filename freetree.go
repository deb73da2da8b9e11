package memalloc

import "unsafe"

// avlNode is the free-block index's tree node. It is never allocated on
// its own: add() overlays one directly on the first bytes of a free
// block's payload (via blockToNode), so a node's identity is the same
// memory as the block it indexes. That's why removal below relocates
// nodes structurally instead of copying keys between them — there is no
// "key" independent of the block that owns it.
type avlNode struct {
	left, right *avlNode
	height      int32
	key         uint64
}

// freeTree is a balanced binary search tree over free blocks, keyed by
// payload size with the node's own address as a tiebreak so that two
// free blocks of the same size both get a stable position.
type freeTree struct {
	root *avlNode
}

// blocksTree is the process-wide free-block index. It has no
// constructor: the zero value is already a valid empty tree, matching
// the lazily-initialized single global the allocator keeps.
var blocksTree freeTree

func addr(n *avlNode) uintptr {
	return uintptr(unsafe.Pointer(n))
}

// less reports whether (keyA, addrA) sorts before (keyB, addrB).
func less(keyA uint64, addrA uintptr, keyB uint64, addrB uintptr) bool {
	if keyA != keyB {
		return keyA < keyB
	}
	return addrA < addrB
}

func nodeHeight(n *avlNode) int32 {
	if n == nil {
		return 0
	}
	return n.height
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func updateHeight(n *avlNode) {
	n.height = 1 + maxInt32(nodeHeight(n.left), nodeHeight(n.right))
}

func balanceFactor(n *avlNode) int32 {
	return nodeHeight(n.left) - nodeHeight(n.right)
}

func rotateRight(n *avlNode) *avlNode {
	l := n.left
	n.left = l.right
	l.right = n
	updateHeight(n)
	updateHeight(l)
	return l
}

func rotateLeft(n *avlNode) *avlNode {
	r := n.right
	n.right = r.left
	r.left = n
	updateHeight(n)
	updateHeight(r)
	return r
}

func rebalance(n *avlNode) *avlNode {
	updateHeight(n)
	bf := balanceFactor(n)
	if bf > 1 {
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	}
	if bf < -1 {
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

// add inserts a node for block b, keyed by size, into the tree. b must
// not be busy: only free blocks live in the index.
func (t *freeTree) add(n *avlNode, size uint64) {
	n.key = size
	n.left = nil
	n.right = nil
	n.height = 1
	t.root = insert(t.root, n)
}

func insert(root, n *avlNode) *avlNode {
	if root == nil {
		return n
	}
	if less(n.key, addr(n), root.key, addr(root)) {
		root.left = insert(root.left, n)
	} else {
		root.right = insert(root.right, n)
	}
	return rebalance(root)
}

// remove deletes n from the tree. n must currently be present.
func (t *freeTree) remove(n *avlNode) {
	t.root = deleteNode(t.root, n.key, addr(n))
}

func deleteNode(root *avlNode, key uint64, address uintptr) *avlNode {
	if root == nil {
		return nil
	}
	switch {
	case less(key, address, root.key, addr(root)):
		root.left = deleteNode(root.left, key, address)
	case less(root.key, addr(root), key, address):
		root.right = deleteNode(root.right, key, address)
	default:
		// root is the node being removed.
		switch {
		case root.left == nil:
			return root.right
		case root.right == nil:
			return root.left
		default:
			// Relocate the in-order successor (leftmost node of the
			// right subtree) into root's structural position, instead
			// of copying its key: the successor node is itself a free
			// block's in-payload header and must keep pointing at the
			// same block after the swap.
			succ := leftmost(root.right)
			root.right = removeMin(root.right)
			succ.left = root.left
			succ.right = root.right
			return rebalance(succ)
		}
	}
	return rebalance(root)
}

func leftmost(n *avlNode) *avlNode {
	for n.left != nil {
		n = n.left
	}
	return n
}

func removeMin(n *avlNode) *avlNode {
	if n.left == nil {
		return n.right
	}
	n.left = removeMin(n.left)
	return rebalance(n)
}

// findBest returns the smallest free block whose size is >= size, or nil
// if none exists. The node is left in the tree; the caller removes it.
func (t *freeTree) findBest(size uint64) *avlNode {
	var best *avlNode
	n := t.root
	for n != nil {
		if n.key >= size {
			best = n
			n = n.left
		} else {
			n = n.right
		}
	}
	return best
}

func (t *freeTree) isEmpty() bool {
	return t.root == nil
}

// walk visits every node in ascending key order.
func (t *freeTree) walk(visit func(*avlNode)) {
	walkNode(t.root, visit)
}

func walkNode(n *avlNode, visit func(*avlNode)) {
	if n == nil {
		return
	}
	walkNode(n.left, visit)
	visit(n)
	walkNode(n.right, visit)
}

func treeAddBlock(b *block) {
	blocksTree.add(blockToNode(b), b.sizeCurr())
}

func treeRemoveBlock(b *block) {
	blocksTree.remove(blockToNode(b))
}
