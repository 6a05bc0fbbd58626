package entity

// Comment is a normalized comment record belonging to a post. Body has its
// line breaks collapsed to single spaces during validation.
type Comment struct {
	ID     int64
	PostID int64
	Body   string
	Email  string
}
