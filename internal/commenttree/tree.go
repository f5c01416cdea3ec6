// Package commenttree groups a post's flat comment records into a display forest.
package commenttree

import (
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
)

// Build returns the top-level comments in input order, each with its direct
// replies in input order. Replies to anything other than a top-level comment
// (nested replies and orphans) are left out of the forest.
func Build(records []model.Comment) []model.CommentNode {
	forest := make([]model.CommentNode, 0, len(records))
	replies := make(map[uuid.UUID][]model.CommentNode)

	for _, record := range records {
		if record.ParentID == nil {
			forest = append(forest, model.CommentNode{Comment: record, Replies: []model.CommentNode{}})
			continue
		}
		parentID := *record.ParentID
		replies[parentID] = append(replies[parentID], model.CommentNode{Comment: record, Replies: []model.CommentNode{}})
	}

	for i := range forest {
		if children, ok := replies[forest[i].Comment.ID]; ok {
			forest[i].Replies = children
		}
	}

	return forest
}

// Count returns the number of comments present in the forest.
func Count(forest []model.CommentNode) int {
	n := len(forest)
	for _, node := range forest {
		n += len(node.Replies)
	}
	return n
}
