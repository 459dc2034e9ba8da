// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package fstree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AleutianAI/labtree/pkg/labeltree"
)

// DetachedPrefix starts the path of a directory whose ancestry no longer
// reaches the root, after Prune removed one of its ancestors.
const DetachedPrefix = "(detached)"

// DirReport summarises one directory.
type DirReport struct {
	Path    string `json:"path" yaml:"path"`
	Size    int64  `json:"size" yaml:"size"`
	Files   int    `json:"files" yaml:"files"`
	Subdirs int    `json:"subdirs" yaml:"subdirs"`
}

// Path returns the slash-separated path of id.
//
// The root is "/". A directory cut off from the root by Prune is rooted at
// DetachedPrefix, e.g. "(detached)/x/y". Unknown ids return "".
func (fs *FileSystem) Path(id labeltree.NodeID) string {
	if id == fs.root {
		return "/"
	}

	var names []string
	cur := id
	// Bounded by Len so a client-made cycle cannot loop forever.
	for range fs.tree.Len() {
		node, ok := fs.tree.Lookup(cur)
		if !ok {
			return ""
		}
		if cur == fs.root {
			break
		}
		names = append(names, node.Data.Name)
		if !node.HasParent() {
			names = append(names, DetachedPrefix)
			break
		}
		cur = node.Parent
	}
	if len(names) == 0 {
		return ""
	}

	slices.Reverse(names)
	if names[0] == DetachedPrefix {
		return strings.Join(names, "/")
	}
	return "/" + strings.Join(names, "/")
}

// Find resolves an absolute path such as "/a/e" to a directory id.
func (fs *FileSystem) Find(path string) (labeltree.NodeID, error) {
	if !strings.HasPrefix(path, "/") {
		return labeltree.NoParent, fmt.Errorf("%w: %q is not absolute", ErrUnknownDirectory, path)
	}

	cur := fs.root
	for _, name := range strings.Split(path, "/") {
		if name == "" {
			continue
		}
		next, ok := fs.childByName(cur, name)
		if !ok {
			return labeltree.NoParent, fmt.Errorf("%w: %s", ErrUnknownDirectory, path)
		}
		cur = next
	}
	return cur, nil
}

// Sizes returns the recursive size of every directory.
//
// A directory's size is its own files plus the sizes of all directories
// below it, found by walking Children from every parentless node.
func (fs *FileSystem) Sizes() map[labeltree.NodeID]int64 {
	sizes := make(map[labeltree.NodeID]int64, fs.tree.Len())
	for id := range fs.tree.Roots() {
		fs.accumulate(id, sizes)
	}
	return sizes
}

func (fs *FileSystem) accumulate(id labeltree.NodeID, sizes map[labeltree.NodeID]int64) int64 {
	if size, done := sizes[id]; done {
		return size
	}
	node, ok := fs.tree.Lookup(id)
	if !ok {
		return 0
	}
	total := node.Data.DirectSize()
	for _, c := range node.Children {
		total += fs.accumulate(c, sizes)
	}
	sizes[id] = total
	return total
}

// TotalSize returns the size of every file in the tree, detached
// directories included.
func (fs *FileSystem) TotalSize() int64 {
	var total int64
	for dir := range fs.tree.All() {
		total += dir.DirectSize()
	}
	return total
}

// Report summarises every directory, sorted by path.
func (fs *FileSystem) Report() []DirReport {
	sizes := fs.Sizes()
	report := make([]DirReport, 0, len(sizes))
	for id := range fs.tree.IDs() {
		node, _ := fs.tree.Lookup(id)
		report = append(report, DirReport{
			Path:    fs.Path(id),
			Size:    sizes[id],
			Files:   len(node.Data.Files),
			Subdirs: len(node.Children),
		})
	}
	slices.SortFunc(report, func(a, b DirReport) int {
		return strings.Compare(a.Path, b.Path)
	})
	return report
}

// WalkFunc is called for each directory visited by Walk. Returning false
// skips the directory's children.
type WalkFunc func(id labeltree.NodeID, dir Directory, depth int) bool

// Roots returns the root followed by every detached directory, the latter
// ordered by path.
func (fs *FileSystem) Roots() []labeltree.NodeID {
	var detached []labeltree.NodeID
	for id := range fs.tree.Roots() {
		if id != fs.root {
			detached = append(detached, id)
		}
	}
	slices.SortFunc(detached, func(a, b labeltree.NodeID) int {
		return strings.Compare(fs.Path(a), fs.Path(b))
	})
	return append([]labeltree.NodeID{fs.root}, detached...)
}

// Walk visits directories in pre-order, children in listing order.
//
// Roots are visited in the order returned by Roots.
func (fs *FileSystem) Walk(fn WalkFunc) {
	for _, id := range fs.Roots() {
		fs.walk(id, 0, fn)
	}
}

func (fs *FileSystem) walk(id labeltree.NodeID, depth int, fn WalkFunc) {
	node, ok := fs.tree.Lookup(id)
	if !ok {
		return
	}
	if !fn(id, node.Data, depth) {
		return
	}
	for _, c := range node.Children {
		fs.walk(c, depth+1, fn)
	}
}

// Prune removes the directory at path and nothing else.
//
// Its files go with it. Its subdirectories stay in the tree as detached
// roots with their own contents untouched, so they keep counting towards
// TotalSize but no longer towards the sizes of the pruned directory's
// ancestors.
func (fs *FileSystem) Prune(path string) error {
	id, err := fs.Find(path)
	if err != nil {
		return err
	}
	if id == fs.root {
		return ErrPruneRoot
	}
	fs.tree.Remove(id)
	return nil
}
