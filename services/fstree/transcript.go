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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CommandKind is the kind of a replayed shell command.
type CommandKind int

const (
	// CmdRoot is "cd /".
	CmdRoot CommandKind = iota

	// CmdUp is "cd ..".
	CmdUp

	// CmdChangeDir is "cd <name>".
	CmdChangeDir

	// CmdList is "ls" together with its output.
	CmdList
)

// String returns the string representation of the CommandKind.
func (k CommandKind) String() string {
	switch k {
	case CmdRoot:
		return "cd /"
	case CmdUp:
		return "cd .."
	case CmdChangeDir:
		return "cd"
	case CmdList:
		return "ls"
	default:
		return "unknown"
	}
}

// Entry is one line of ls output.
type Entry struct {
	// Name is the file or directory name.
	Name string

	// Dir is true for "dir <name>" lines.
	Dir bool

	// Size is the file size in bytes. Zero for directories.
	Size int64
}

// Command is one parsed shell command.
type Command struct {
	Kind CommandKind

	// Name is the target directory of CmdChangeDir.
	Name string

	// Line is the 1-based transcript line of the command.
	Line int

	// Entries holds the listing for CmdList.
	Entries []Entry
}

// Parse reads a transcript and returns its commands in order.
//
// Blank lines are ignored. Errors carry the 1-based line number and wrap
// ErrMalformedLine or ErrUnknownCommand.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	listing := -1 // index into cmds of the ls currently collecting output

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "$"); ok {
			cmd, err := parseCommand(strings.TrimSpace(rest), lineNo)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, cmd)
			listing = -1
			if cmd.Kind == CmdList {
				listing = len(cmds) - 1
			}
			continue
		}

		if listing < 0 {
			return nil, fmt.Errorf("%w: line %d: output outside of ls: %q", ErrMalformedLine, lineNo, line)
		}
		entry, err := parseEntry(line, lineNo)
		if err != nil {
			return nil, err
		}
		cmds[listing].Entries = append(cmds[listing].Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	return cmds, nil
}

func parseCommand(s string, lineNo int) (Command, error) {
	name, arg, _ := strings.Cut(s, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "cd":
		switch arg {
		case "":
			return Command{}, fmt.Errorf("%w: line %d: cd without a target", ErrMalformedLine, lineNo)
		case "/":
			return Command{Kind: CmdRoot, Line: lineNo}, nil
		case "..":
			return Command{Kind: CmdUp, Line: lineNo}, nil
		default:
			return Command{Kind: CmdChangeDir, Name: arg, Line: lineNo}, nil
		}
	case "ls":
		if arg != "" {
			return Command{}, fmt.Errorf("%w: line %d: ls takes no arguments", ErrMalformedLine, lineNo)
		}
		return Command{Kind: CmdList, Line: lineNo}, nil
	default:
		return Command{}, fmt.Errorf("%w: line %d: %q", ErrUnknownCommand, lineNo, name)
	}
}

func parseEntry(line string, lineNo int) (Entry, error) {
	head, name, ok := strings.Cut(line, " ")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Entry{}, fmt.Errorf("%w: line %d: %q", ErrMalformedLine, lineNo, line)
	}

	if head == "dir" {
		return Entry{Name: name, Dir: true}, nil
	}

	size, err := strconv.ParseInt(head, 10, 64)
	if err != nil || size < 0 {
		return Entry{}, fmt.Errorf("%w: line %d: bad size %q", ErrMalformedLine, lineNo, head)
	}
	return Entry{Name: name, Size: size}, nil
}
