package services

import "time"

// CommentRow is one comment joined with its author's username.
type CommentRow struct {
	ID       uint
	UserID   uint
	Username string
	Text     string
	PostedAt time.Time
	ParentID *uint
}

// TreeNode is a comment with its replies nested under it.
type TreeNode struct {
	ID       uint        `json:"id"`
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Text     string      `json:"text"`
	HTML     string      `json:"html"`
	PostedAt time.Time   `json:"posted_at"`
	Replies  []*TreeNode `json:"replies"`
}

// BuildForest nests rows under their parents. Rows must already be in display
// order; siblings keep that order. Rows that cannot be reached from a root,
// because of a cycle or a missing parent, are left out and counted in skipped.
func BuildForest(rows []CommentRow, render func(string) string) (forest []*TreeNode, skipped int) {
	arena := make(map[uint]*TreeNode, len(rows))
	children := make(map[uint][]uint)
	var roots []uint

	for _, row := range rows {
		if _, dup := arena[row.ID]; dup {
			continue
		}
		node := &TreeNode{
			ID:       row.ID,
			UserID:   row.UserID,
			Username: row.Username,
			Text:     row.Text,
			PostedAt: row.PostedAt,
			Replies:  []*TreeNode{},
		}
		if render != nil {
			node.HTML = render(row.Text)
		}
		arena[row.ID] = node
		if row.ParentID == nil {
			roots = append(roots, row.ID)
		} else {
			children[*row.ParentID] = append(children[*row.ParentID], row.ID)
		}
	}

	visited := make(map[uint]bool, len(arena))
	forest = make([]*TreeNode, 0, len(roots))
	stack := make([]uint, 0, len(arena))
	for _, rootID := range roots {
		if visited[rootID] {
			continue
		}
		visited[rootID] = true
		forest = append(forest, arena[rootID])

		stack = append(stack[:0], rootID)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent := arena[id]
			for _, childID := range children[id] {
				if visited[childID] {
					continue
				}
				visited[childID] = true
				parent.Replies = append(parent.Replies, arena[childID])
				stack = append(stack, childID)
			}
		}
	}

	return forest, len(rows) - len(visited)
}

// CountNodes returns the number of nodes in forest.
func CountNodes(forest []*TreeNode) int {
	n := 0
	for _, node := range forest {
		n += 1 + CountNodes(node.Replies)
	}
	return n
}
