package entity

import "strconv"

// Row is the flat output record combining exactly one user, one post and one
// comment. Column order is fixed and mirrored by Header and Strings.
type Row struct {
	UserID       int64
	UserName     string
	PostID       int64
	PostTitle    string
	CommentID    int64
	CommentBody  string
	CommentEmail string
}

// Header returns the CSV column names in output order.
func Header() []string {
	return []string{
		"user_id",
		"user_name",
		"post_id",
		"post_title",
		"comment_id",
		"comment_body",
		"comment_email",
	}
}

// Strings returns the row's field values in column order, ready for a CSV
// writer.
func (r Row) Strings() []string {
	return []string{
		strconv.FormatInt(r.UserID, 10),
		r.UserName,
		strconv.FormatInt(r.PostID, 10),
		r.PostTitle,
		strconv.FormatInt(r.CommentID, 10),
		r.CommentBody,
		r.CommentEmail,
	}
}
