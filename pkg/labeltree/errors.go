// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package labeltree provides a generic arena tree of identifier-addressed nodes.
//
// Every node is stored once in the tree's arena and is reachable only through
// its NodeID. Nodes never hold pointers to each other; parent and child links
// are ids, so the arena owns every node exclusively.
//
// # Ownership Model
//
//   - Nodes are created only by Insert and destroyed only by Remove.
//   - Payloads are mutated in place only through Update, which hands the
//     mutator exactly one node.
//   - Lookup returns a copy of the node. The Children slice is cloned; the
//     payload is copied by value, so reference types inside T still alias.
//
// # Removal
//
// Remove is not recursive. The removed node's children stay in the tree with
// their parent cleared, and their own subtrees are left exactly as they were.
//
// # Thread Safety
//
// Tree is NOT safe for concurrent use. Wrap it in Synced when more than one
// goroutine needs access.
//
// # Lifecycle
//
//  1. Create with New()
//  2. Insert the root with Insert(NoParent, data), then children under it
//  3. Mutate payloads with Update()
//  4. Aggregate with All(), or walk Children from a known root with Lookup()
package labeltree

import (
	"errors"
	"fmt"
)

// Sentinel errors for tree operations.
var (
	// ErrNodeNotFound is returned when an operation that requires an
	// existing node is given an unknown id.
	ErrNodeNotFound = errors.New("node not found")

	// ErrParentNotFound is returned by Insert when the parent id does not
	// reference a node in the tree. It wraps ErrNodeNotFound.
	ErrParentNotFound = fmt.Errorf("parent %w", ErrNodeNotFound)

	// ErrNilMutator is returned by Update when no mutator is supplied.
	ErrNilMutator = errors.New("mutator is nil")

	// ErrMaxNodesExceeded is returned when the tree has reached its
	// configured maximum node capacity.
	ErrMaxNodesExceeded = errors.New("maximum node count exceeded")

	// ErrDuplicateID is returned when the id source produces an id that is
	// already live in the tree, or the zero id.
	ErrDuplicateID = errors.New("duplicate node ID")
)
