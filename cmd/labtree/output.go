// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/labtree/pkg/labeltree"
	"github.com/AleutianAI/labtree/services/fstree"
)

// transcriptReport is the printed and served form of one replay.
type transcriptReport struct {
	Transcript  string             `json:"transcript" yaml:"transcript"`
	TotalSize   int64              `json:"total_size" yaml:"total_size"`
	Directories []fstree.DirReport `json:"directories" yaml:"directories"`
}

func buildReports(results []replayResult) []transcriptReport {
	reports := make([]transcriptReport, 0, len(results))
	for _, r := range results {
		reports = append(reports, transcriptReport{
			Transcript:  r.Path,
			TotalSize:   r.FS.TotalSize(),
			Directories: r.FS.Report(),
		})
	}
	return reports
}

// writeReports prints reports as text, yaml or json.
func writeReports(w io.Writer, reports []transcriptReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return writeTextReports(w, reports)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeTextReports(w io.Writer, reports []transcriptReport) error {
	r := newRenderer(w, appConfig.Output.Color)
	title := r.NewStyle().Bold(true)
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	number := cell.Align(lipgloss.Right)

	for i, rep := range reports {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		rows := make([][]string, 0, len(rep.Directories))
		for _, d := range rep.Directories {
			rows = append(rows, []string{
				d.Path,
				strconv.FormatInt(d.Size, 10),
				strconv.Itoa(d.Files),
				strconv.Itoa(d.Subdirs),
			})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(r.NewStyle().Faint(true)).
			Headers("PATH", "SIZE", "FILES", "SUBDIRS").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return header
				case col == 0:
					return cell
				default:
					return number
				}
			})

		if _, err := fmt.Fprintf(w, "%s  total %d\n%s\n",
			title.Render(rep.Transcript), rep.TotalSize, t.String()); err != nil {
			return err
		}
	}
	return nil
}

// newRenderer returns a lipgloss renderer for w.
//
// mode is auto, always or never. In auto mode colour is used only when w
// is a terminal.
func newRenderer(w io.Writer, mode string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case "always":
		r.SetColorProfile(termenv.ANSI256)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	default:
		if !isTerminal(w) {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// renderTree draws every root of fs with its subdirectories and, when
// files is set, the files of each directory.
func renderTree(w io.Writer, fs *fstree.FileSystem, r *lipgloss.Renderer, files bool) error {
	styles := treeStyles{
		dir:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		file: r.NewStyle(),
		size: r.NewStyle().Faint(true),
	}
	sizes := fs.Sizes()

	for _, id := range fs.Roots() {
		t := styles.build(fs, id, fs.Path(id), sizes, files).
			EnumeratorStyle(r.NewStyle().Faint(true).PaddingRight(1))
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}
	}
	return nil
}

type treeStyles struct {
	dir, file, size lipgloss.Style
}

func (s treeStyles) build(fs *fstree.FileSystem, id labeltree.NodeID, label string, sizes map[labeltree.NodeID]int64, files bool) *tree.Tree {
	node, _ := fs.Tree().Lookup(id)
	t := tree.Root(s.dir.Render(label) + " " + s.size.Render(fmt.Sprintf("(%d)", sizes[id])))

	for _, c := range node.Children {
		child, ok := fs.Tree().Lookup(c)
		if !ok {
			continue
		}
		t.Child(s.build(fs, c, child.Data.Name, sizes, files))
	}
	if files {
		for _, f := range node.Data.Files {
			t.Child(s.file.Render(f.Name) + " " + s.size.Render(strconv.FormatInt(f.Size, 10)))
		}
	}
	return t
}
