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

import "sync"

// Synced guards a Tree with one coarse lock.
//
// Reads (Lookup, Len, IsEmpty, Snapshot) share the read lock; everything
// else takes the write lock. The Update mutator runs under the write lock
// and must not call back into the Synced tree, or it will deadlock.
//
// Thread Safety: Safe for concurrent use.
type Synced[T any] struct {
	mu   sync.RWMutex
	tree *Tree[T]
}

// NewSynced creates an empty lock-guarded tree.
func NewSynced[T any](opts ...Option) *Synced[T] {
	return &Synced[T]{tree: New[T](opts...)}
}

// Insert is Tree.Insert under the write lock.
func (s *Synced[T]) Insert(parent NodeID, data T) (NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Insert(parent, data)
}

// Lookup is Tree.Lookup under the read lock.
func (s *Synced[T]) Lookup(id NodeID) (Node[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Lookup(id)
}

// Update is Tree.Update under the write lock.
func (s *Synced[T]) Update(id NodeID, fn func(*Node[T])) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Update(id, fn)
}

// Remove is Tree.Remove under the write lock.
func (s *Synced[T]) Remove(id NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Remove(id)
}

// Len returns the number of live nodes.
func (s *Synced[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

// IsEmpty reports whether the tree holds zero nodes.
func (s *Synced[T]) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.IsEmpty()
}

// Snapshot returns every payload, copied under the read lock.
//
// Unlike Tree.All the result is materialised, so it stays consistent
// while other goroutines keep writing.
func (s *Synced[T]) Snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, s.tree.Len())
	for data := range s.tree.All() {
		out = append(out, data)
	}
	return out
}
