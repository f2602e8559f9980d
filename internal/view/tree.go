package view

import (
	"fmt"
	"strconv"
	"strings"

	"genesis_architect/internal/types"
	"genesis_architect/internal/utils"
)

// NodePath addresses a node by child indexes from the top of the tree.
// Names are not unique in model output, indexes are.
type NodePath []int

func (p NodePath) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

func (p NodePath) Equal(o NodePath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// ParseNodePath reads the dotted form produced by String.
func ParseNodePath(s string) (NodePath, error) {
	if s == "" {
		return nil, fmt.Errorf("empty node path")
	}
	parts := strings.Split(s, ".")
	path := make(NodePath, len(parts))
	for i, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid node path %q", s)
		}
		path[i] = idx
	}
	return path, nil
}

// NodeAt walks path through nodes.
func NodeAt(nodes []types.FileNode, path NodePath) (types.FileNode, bool) {
	if len(path) == 0 {
		return types.FileNode{}, false
	}
	level := nodes
	var node types.FileNode
	for _, idx := range path {
		if idx < 0 || idx >= len(level) {
			return types.FileNode{}, false
		}
		node = level[idx]
		level = node.Children
	}
	return node, true
}

// DefaultSelection is the first file in depth-first order, or nil.
func DefaultSelection(nodes []types.FileNode) NodePath {
	for i, n := range nodes {
		if n.IsFile() {
			return NodePath{i}
		}
		if n.IsFolder() {
			if sub := DefaultSelection(n.Children); sub != nil {
				return append(NodePath{i}, sub...)
			}
		}
	}
	return nil
}

// TreeRow is one line of the project explorer.
type TreeRow struct {
	Path     string
	Depth    int
	Indent   int // pixels
	Name     string
	Folder   bool
	Reused   bool
	Selected bool
	FileType string
}

// TreeRows flattens the tree in display order. Children of file nodes are
// not shown.
func TreeRows(nodes []types.FileNode, selected NodePath) []TreeRow {
	var rows []TreeRow
	var walk func(level []types.FileNode, prefix NodePath)
	walk = func(level []types.FileNode, prefix NodePath) {
		for i, n := range level {
			path := append(append(NodePath(nil), prefix...), i)
			row := TreeRow{
				Path:     path.String(),
				Depth:    len(prefix),
				Indent:   len(prefix)*16 + 8,
				Name:     n.Name,
				Folder:   n.IsFolder(),
				Reused:   n.IsReused,
				Selected: selected != nil && path.Equal(selected),
			}
			if !row.Folder {
				row.FileType = utils.DetermineFileType(n.Name)
			}
			rows = append(rows, row)
			if n.IsFolder() {
				walk(n.Children, path)
			}
		}
	}
	walk(nodes, nil)
	return rows
}

// NoContentPlaceholder is shown for files the model left empty.
const NoContentPlaceholder = "// No content available"

// FileView is the code panel for the selected file.
type FileView struct {
	Name        string
	FileType    string
	Content     string
	Truncated   bool
	Description string
	Reused      bool
}

// NewFileView prepares a file for display, cutting content to maxLines.
func NewFileView(n types.FileNode, maxLines int) FileView {
	content, truncated := ClampLines(n.Content, maxLines)
	if strings.TrimSpace(content) == "" {
		content = NoContentPlaceholder
	}
	return FileView{
		Name:        n.Name,
		FileType:    utils.DetermineFileType(n.Name),
		Content:     content,
		Truncated:   truncated,
		Description: n.Description,
		Reused:      n.IsReused,
	}
}

// ClampLines keeps at most maxLines lines. maxLines <= 0 disables the limit.
func ClampLines(content string, maxLines int) (string, bool) {
	if maxLines <= 0 {
		return content, false
	}
	lines := strings.SplitAfter(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) <= maxLines {
		return content, false
	}
	return strings.TrimRight(strings.Join(lines[:maxLines], ""), "\n"), true
}
