// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package labeltree

import (
	"fmt"
	"iter"
	"slices"

	"github.com/google/uuid"
)

// NodeID identifies one node for its entire lifetime in a tree.
//
// Ids are random UUIDs generated at insertion time. The zero value is never
// generated and is used as NoParent.
type NodeID uuid.UUID

// NoParent is the zero NodeID. Passing it to Insert creates a root.
var NoParent NodeID

// String returns the canonical UUID form of the id.
func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether id is NoParent.
func (id NodeID) IsZero() bool {
	return id == NoParent
}

// ParseNodeID parses the canonical string form produced by NodeID.String.
func ParseNodeID(s string) (NodeID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NoParent, fmt.Errorf("parse node id %q: %w", s, err)
	}
	return NodeID(u), nil
}

// Node is a single entry in the arena.
type Node[T any] struct {
	// Parent is the id of the parent node, or NoParent for roots and orphans.
	Parent NodeID

	// Children holds child ids in insertion order. After a child is removed
	// on its own the id is dropped from this list; ids of nodes removed
	// deeper in the tree are not tracked here.
	Children []NodeID

	// Data is the caller-supplied payload.
	Data T
}

// HasParent reports whether the node is linked to a parent.
func (n Node[T]) HasParent() bool {
	return !n.Parent.IsZero()
}

// Options configures Tree behavior and limits.
type Options struct {
	// MaxNodes is the maximum number of live nodes. Zero means unbounded.
	MaxNodes int

	// IDSource generates node ids. Default: uuid.New (random v4).
	IDSource func() uuid.UUID
}

// DefaultOptions returns the default tree configuration.
func DefaultOptions() Options {
	return Options{
		MaxNodes: 0,
		IDSource: uuid.New,
	}
}

// Option is a functional option for configuring Tree.
type Option func(*Options)

// WithMaxNodes caps the number of live nodes the tree can hold.
func WithMaxNodes(n int) Option {
	return func(o *Options) {
		o.MaxNodes = n
	}
}

// WithIDSource replaces the id generator. Intended for deterministic tests.
func WithIDSource(src func() uuid.UUID) Option {
	return func(o *Options) {
		if src != nil {
			o.IDSource = src
		}
	}
}

// Tree is an arena of payload-bearing nodes linked by parent and child ids.
//
// Thread Safety:
//
//	Tree is NOT safe for concurrent use. All operations assume a single
//	writer. Use Synced for shared access.
type Tree[T any] struct {
	// nodes maps node id to node. Unexported so the arena owns every node.
	nodes map[NodeID]*Node[T]

	options Options
}

// New creates an empty tree.
//
// Example:
//
//	t := labeltree.New[string]()
//	root, _ := t.Insert(labeltree.NoParent, "/")
//	a, _ := t.Insert(root, "a")
func New[T any](opts ...Option) *Tree[T] {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &Tree[T]{
		nodes:   make(map[NodeID]*Node[T]),
		options: options,
	}
}

// Len returns the number of live nodes.
func (t *Tree[T]) Len() int {
	return len(t.nodes)
}

// IsEmpty reports whether the tree holds zero nodes.
func (t *Tree[T]) IsEmpty() bool {
	return len(t.nodes) == 0
}

// Contains reports whether id references a live node.
func (t *Tree[T]) Contains(id NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// Insert stores a new node and links it under parent.
//
// Description:
//
//	Allocates a fresh id and stores a node with the given parent, no
//	children and the given payload. When parent is not NoParent the new id
//	is appended to the parent's children.
//
// Inputs:
//
//	parent - Id of the parent node, or NoParent to create a root.
//	data - The payload to store.
//
// Outputs:
//
//	NodeID - Id of the new node. NoParent on error.
//	error - Non-nil if the parent is missing or the tree is full.
//
// Errors:
//
//	ErrParentNotFound - parent is not NoParent and is not in the tree
//	ErrMaxNodesExceeded - tree is at capacity
//	ErrDuplicateID - the id source returned a live or zero id
//
// The tree is unchanged when an error is returned.
func (t *Tree[T]) Insert(parent NodeID, data T) (NodeID, error) {
	var p *Node[T]
	if !parent.IsZero() {
		var ok bool
		if p, ok = t.nodes[parent]; !ok {
			return NoParent, fmt.Errorf("%w: %s", ErrParentNotFound, parent)
		}
	}

	if t.options.MaxNodes > 0 && len(t.nodes) >= t.options.MaxNodes {
		return NoParent, ErrMaxNodesExceeded
	}

	id := NodeID(t.options.IDSource())
	if id.IsZero() {
		return NoParent, fmt.Errorf("%w: zero id", ErrDuplicateID)
	}
	if _, exists := t.nodes[id]; exists {
		return NoParent, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	t.nodes[id] = &Node[T]{
		Parent: parent,
		Data:   data,
	}
	if p != nil {
		p.Children = append(p.Children, id)
	}

	return id, nil
}

// MustInsert is like Insert but panics on error.
//
// Use it where a missing parent can only mean a bug in the caller.
func (t *Tree[T]) MustInsert(parent NodeID, data T) NodeID {
	id, err := t.Insert(parent, data)
	if err != nil {
		panic(fmt.Sprintf("labeltree: insert: %v", err))
	}
	return id
}

// Lookup returns a read-only copy of the node.
//
// The returned Children slice is a clone; modifying it does not affect the
// tree. Returns false if id is unknown.
func (t *Tree[T]) Lookup(id NodeID) (Node[T], bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Node[T]{}, false
	}
	return Node[T]{
		Parent:   n.Parent,
		Children: slices.Clone(n.Children),
		Data:     n.Data,
	}, true
}

// Update runs fn with exclusive access to the stored node.
//
// Description:
//
//	fn is called exactly once with a pointer to the node held in the arena,
//	so changes to Data are applied in place. No other node is touched.
//	fn must not call back into the same tree.
//
// Errors:
//
//	ErrNilMutator - fn is nil
//	ErrNodeNotFound - id is not in the tree
func (t *Tree[T]) Update(id NodeID, fn func(*Node[T])) error {
	if fn == nil {
		return ErrNilMutator
	}
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	fn(n)
	return nil
}

// MustUpdate is like Update but panics on error.
func (t *Tree[T]) MustUpdate(id NodeID, fn func(*Node[T])) {
	if err := t.Update(id, fn); err != nil {
		panic(fmt.Sprintf("labeltree: update: %v", err))
	}
}

// Remove deletes a single node and orphans its children.
//
// Description:
//
//	Unknown ids are ignored and false is returned. For a live node:
//	  1. the node is removed from the arena
//	  2. its id is dropped from its parent's children, order preserved
//	  3. every listed child still in the arena has its Parent cleared
//
//	Removal does not cascade. Grandchildren keep their parent links and the
//	former children become roots.
//
// Outputs:
//
//	bool - True if a node was removed.
func (t *Tree[T]) Remove(id NodeID) bool {
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	delete(t.nodes, id)

	if !n.Parent.IsZero() {
		if p, ok := t.nodes[n.Parent]; ok {
			p.Children = slices.DeleteFunc(p.Children, func(c NodeID) bool {
				return c == id
			})
		}
	}

	for _, c := range n.Children {
		if child, ok := t.nodes[c]; ok {
			child.Parent = NoParent
		}
	}

	return true
}

// All returns a sequence over every stored payload.
//
// Order is unspecified. Each range over the sequence snapshots the current
// id set, so the sequence can be ranged over again for a fresh traversal.
// Nodes removed while ranging are skipped. Inserting while ranging is not
// supported.
func (t *Tree[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, id := range t.snapshotIDs() {
			n, ok := t.nodes[id]
			if !ok {
				continue
			}
			if !yield(n.Data) {
				return
			}
		}
	}
}

// IDs returns a sequence over every live node id, in unspecified order.
func (t *Tree[T]) IDs() iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for _, id := range t.snapshotIDs() {
			if _, ok := t.nodes[id]; !ok {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}

// Roots returns a sequence over the ids of parentless nodes.
//
// This includes the original root and any node orphaned by Remove.
func (t *Tree[T]) Roots() iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for _, id := range t.snapshotIDs() {
			n, ok := t.nodes[id]
			if !ok || n.HasParent() {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}

func (t *Tree[T]) snapshotIDs() []NodeID {
	ids := make([]NodeID, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	return ids
}
