package export

import "community-export/internal/domain/entity"

// BuildRow flattens one user, one post and one comment into a single output
// row. Inputs are already normalized; this is a pure mapping.
func BuildRow(user entity.User, post entity.Post, comment entity.Comment) entity.Row {
	return entity.Row{
		UserID:       user.ID,
		UserName:     user.Name,
		PostID:       post.ID,
		PostTitle:    post.Title,
		CommentID:    comment.ID,
		CommentBody:  comment.Body,
		CommentEmail: comment.Email,
	}
}
