// Package renderer assembles the final Markdown document: an ASCII
// directory tree plus the contents of every text file.
package renderer

import (
	"sort"
	"strings"
)

// treeNode is a node in the prefix tree built from path segments.
// Children preserve insertion order; because paths are inserted in sorted
// order, sibling order at each level is lexicographic by full descendant
// path.
type treeNode struct {
	children []*treeNode
	index    map[string]*treeNode
	name     string
}

func newTreeNode(name string) *treeNode {
	return &treeNode{
		name:  name,
		index: make(map[string]*treeNode),
	}
}

func (n *treeNode) child(name string) *treeNode {
	if c, ok := n.index[name]; ok {
		return c
	}
	c := newTreeNode(name)
	n.index[name] = c
	n.children = append(n.children, c)
	return c
}

// BuildTree renders a list of file paths as an ASCII directory tree.
// Directories carry a trailing "/". The result has no trailing newline;
// an empty input produces an empty string.
func BuildTree(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	root := newTreeNode("")
	for _, path := range sorted {
		node := root
		for _, part := range strings.Split(path, "/") {
			node = node.child(part)
		}
	}

	var lines []string
	renderTree(root, "", &lines)
	return strings.Join(lines, "\n")
}

func renderTree(node *treeNode, prefix string, lines *[]string) {
	for i, child := range node.children {
		last := i == len(node.children)-1

		connector := "├── "
		extension := "│   "
		if last {
			connector = "└── "
			extension = "    "
		}

		name := child.name
		if len(child.children) > 0 {
			name += "/"
		}
		*lines = append(*lines, prefix+connector+name)

		if len(child.children) > 0 {
			renderTree(child, prefix+extension, lines)
		}
	}
}
