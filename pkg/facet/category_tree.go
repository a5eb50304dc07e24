package facet

import (
	"strings"

	"github.com/matst80/slask-storefront/pkg/types"
)

type CategoryBranch struct {
	Node     types.CategoryNode
	Children map[string]*CategoryBranch
}

// CategoryTree indexes the category hierarchy by url component at every level.
type CategoryTree struct {
	Children map[string]*CategoryBranch
}

func NewCategoryTree(nodes []types.CategoryNode) *CategoryTree {
	return &CategoryTree{
		Children: buildBranches(nodes),
	}
}

func buildBranches(nodes []types.CategoryNode) map[string]*CategoryBranch {
	ret := make(map[string]*CategoryBranch, len(nodes))
	for _, node := range nodes {
		if node.UrlComponent == "" {
			continue
		}
		ret[node.UrlComponent] = &CategoryBranch{
			Node:     node,
			Children: buildBranches(node.Categories),
		}
	}
	return ret
}

// GetBranchLineFromPath walks the tree with the leading path components for as long as they match.
func (t *CategoryTree) GetBranchLineFromPath(path string) []types.CategoryNode {
	if t == nil {
		return nil
	}
	path, _, _ = strings.Cut(strings.TrimPrefix(path, "/"), "?")
	line := make([]types.CategoryNode, 0)
	children := t.Children
	for _, component := range strings.Split(path, categoryPathSeparator) {
		branch, ok := children[component]
		if !ok {
			break
		}
		line = append(line, branch.Node)
		children = branch.Children
	}
	return line
}

func (t *CategoryTree) Len() int {
	if t == nil {
		return 0
	}
	return countBranches(t.Children)
}

func countBranches(children map[string]*CategoryBranch) int {
	count := len(children)
	for _, c := range children {
		count += countBranches(c.Children)
	}
	return count
}
