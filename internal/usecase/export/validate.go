package export

import (
	"fmt"
	"strings"

	"community-export/internal/domain/entity"
)

// Rejection describes why a raw record was discarded by validation. It is a
// per-record outcome for observability, not an error: rejections are counted
// and logged, never propagated.
type Rejection struct {
	Field  string
	Detail string
}

func (r *Rejection) String() string {
	return fmt.Sprintf("%s: %s", r.Field, r.Detail)
}

func reject(field string, value any) *Rejection {
	return &Rejection{Field: field, Detail: fmt.Sprintf("invalid value %v (%T)", value, value)}
}

// ValidateUser normalizes a raw user record. It requires an integer id and a
// non-empty name; the name is trimmed.
func ValidateUser(raw entity.RawRecord) (entity.User, *Rejection) {
	id, ok := raw.Int("id")
	if !ok || id < 0 {
		return entity.User{}, reject("id", raw["id"])
	}
	name, ok := nonEmptyString(raw, "name")
	if !ok {
		return entity.User{}, reject("name", raw["name"])
	}
	return entity.User{ID: id, Name: name}, nil
}

// ValidatePost normalizes a raw post record. It requires an integer id, an
// integer userId and a non-empty title; the title is trimmed.
func ValidatePost(raw entity.RawRecord) (entity.Post, *Rejection) {
	id, ok := raw.Int("id")
	if !ok || id < 0 {
		return entity.Post{}, reject("id", raw["id"])
	}
	userID, ok := raw.Int("userId")
	if !ok {
		return entity.Post{}, reject("userId", raw["userId"])
	}
	title, ok := nonEmptyString(raw, "title")
	if !ok {
		return entity.Post{}, reject("title", raw["title"])
	}
	return entity.Post{ID: id, UserID: userID, Title: title}, nil
}

// ValidateComment normalizes a raw comment record. It requires an integer
// id, an integer postId, a non-empty body and an email containing '@'. The
// body is trimmed and its line breaks collapsed to single spaces; the email
// is trimmed.
func ValidateComment(raw entity.RawRecord) (entity.Comment, *Rejection) {
	id, ok := raw.Int("id")
	if !ok || id < 0 {
		return entity.Comment{}, reject("id", raw["id"])
	}
	postID, ok := raw.Int("postId")
	if !ok {
		return entity.Comment{}, reject("postId", raw["postId"])
	}
	body, ok := nonEmptyString(raw, "body")
	if !ok {
		return entity.Comment{}, reject("body", raw["body"])
	}
	email, ok := nonEmptyString(raw, "email")
	if !ok || !strings.Contains(email, "@") {
		return entity.Comment{}, reject("email", raw["email"])
	}
	return entity.Comment{
		ID:     id,
		PostID: postID,
		Body:   collapseLineBreaks(body),
		Email:  email,
	}, nil
}

// nonEmptyString extracts a string field that is non-empty after trimming,
// returning the trimmed value.
func nonEmptyString(raw entity.RawRecord, key string) (string, bool) {
	s, ok := raw.String(key)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func collapseLineBreaks(s string) string {
	return lineBreaks.Replace(s)
}
