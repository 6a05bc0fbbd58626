package entity

// Post is a normalized post record belonging to a user.
type Post struct {
	ID     int64
	UserID int64
	Title  string
}
