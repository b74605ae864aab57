// Package thread flattens a carrier's rooted comment forest into the
// canonical depth-first order the rest of the pipeline indexes into, and
// resolves parent-id references back into that flattened order.
package thread

import (
	"fmt"
	"strings"

	"stego/carrier"
)

// Flattened is the result of flattening a forest: the pre-order list itself
// plus a lookup from comment id to position in that list.
type Flattened struct {
	List  []carrier.CommentNode
	Index map[string]int
}

// Flatten produces the canonical pre-order traversal of roots: the root
// list in given order, each node followed by the flattened traversal of its
// own replies. A comment id repeated along a single root-to-leaf path is
// treated as a corrupted-input cycle and reported as an error rather than
// recursing forever.
func Flatten(roots []carrier.CommentNode) (Flattened, error) {
	out := Flattened{Index: make(map[string]int)}

	var walk func(nodes []carrier.CommentNode, onPath map[string]bool) error
	walk = func(nodes []carrier.CommentNode, onPath map[string]bool) error {
		for _, node := range nodes {
			if node.ID != "" && onPath[node.ID] {
				return fmt.Errorf("thread: cycle detected at comment id %q", node.ID)
			}

			pos := len(out.List)
			out.List = append(out.List, node)
			if node.ID != "" {
				if _, exists := out.Index[node.ID]; !exists {
					out.Index[node.ID] = pos
				}
			}

			childPath := onPath
			if node.ID != "" {
				childPath = make(map[string]bool, len(onPath)+1)
				for id := range onPath {
					childPath[id] = true
				}
				childPath[node.ID] = true
			}

			if err := walk(node.Replies, childPath); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(roots, map[string]bool{}); err != nil {
		return Flattened{}, err
	}
	return out, nil
}

// ResolveParent looks up parentID in the flattened list, falling back to
// the suffix after the last underscore when the direct id is not found
// (e.g. Reddit-style "t1_abc123" fullnames resolving to "abc123"). Both
// encoder and decoder must apply this same tolerance.
func ResolveParent(parentID string, f Flattened) (carrier.CommentNode, bool) {
	if pos, ok := f.Index[parentID]; ok {
		return f.List[pos], true
	}
	if suffix, ok := suffixAfterLastUnderscore(parentID); ok {
		if pos, ok := f.Index[suffix]; ok {
			return f.List[pos], true
		}
	}
	return carrier.CommentNode{}, false
}

func suffixAfterLastUnderscore(s string) (string, bool) {
	idx := strings.LastIndex(s, "_")
	if idx < 0 || idx == len(s)-1 {
		return "", false
	}
	return s[idx+1:], true
}

// AncestorChain walks parent-ids from start up to (and excluding) rootID,
// using ResolveParent's tolerant lookup, and returns the chain root-first.
// A visited-id guard prevents infinite loops on adversarially corrupted
// parent-id graphs.
func AncestorChain(start carrier.CommentNode, rootID string, f Flattened) ([]carrier.CommentNode, error) {
	var reversed []carrier.CommentNode
	visited := make(map[string]bool)

	node := start
	for {
		reversed = append(reversed, node)
		if node.ID != "" {
			if visited[node.ID] {
				return nil, fmt.Errorf("thread: cycle detected while walking ancestors of %q", start.ID)
			}
			visited[node.ID] = true
		}

		if node.ParentID == "" || node.ParentID == rootID {
			break
		}

		parent, ok := ResolveParent(node.ParentID, f)
		if !ok {
			break
		}
		node = parent
	}

	chain := make([]carrier.CommentNode, len(reversed))
	for i, n := range reversed {
		chain[len(reversed)-1-i] = n
	}
	return chain, nil
}
