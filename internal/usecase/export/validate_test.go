package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-export/internal/domain/entity"
)

func TestValidateUser(t *testing.T) {
	tests := []struct {
		name        string
		raw         entity.RawRecord
		want        entity.User
		rejectField string
	}{
		{
			name: "valid",
			raw:  entity.RawRecord{"id": float64(2), "name": "Ann"},
			want: entity.User{ID: 2, Name: "Ann"},
		},
		{
			name: "name trimmed",
			raw:  entity.RawRecord{"id": float64(4), "name": " D "},
			want: entity.User{ID: 4, Name: "D"},
		},
		{
			name:        "boolean id rejected",
			raw:         entity.RawRecord{"id": true, "name": "Bob"},
			rejectField: "id",
		},
		{
			name:        "fractional id rejected",
			raw:         entity.RawRecord{"id": 2.5, "name": "Bob"},
			rejectField: "id",
		},
		{
			name:        "negative id rejected",
			raw:         entity.RawRecord{"id": float64(-1), "name": "Bob"},
			rejectField: "id",
		},
		{
			name:        "missing name rejected",
			raw:         entity.RawRecord{"id": float64(2)},
			rejectField: "name",
		},
		{
			name:        "whitespace name rejected",
			raw:         entity.RawRecord{"id": float64(2), "name": "   "},
			rejectField: "name",
		},
		{
			name:        "non-string name rejected",
			raw:         entity.RawRecord{"id": float64(2), "name": 7},
			rejectField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rej := ValidateUser(tt.raw)
			if tt.rejectField != "" {
				require.NotNil(t, rej)
				assert.Equal(t, tt.rejectField, rej.Field)
				return
			}
			require.Nil(t, rej)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePost(t *testing.T) {
	tests := []struct {
		name        string
		raw         entity.RawRecord
		want        entity.Post
		rejectField string
	}{
		{
			name: "valid",
			raw:  entity.RawRecord{"id": float64(11), "userId": float64(2), "title": " First "},
			want: entity.Post{ID: 11, UserID: 2, Title: "First"},
		},
		{
			name:        "boolean id rejected",
			raw:         entity.RawRecord{"id": false, "userId": float64(2), "title": "x"},
			rejectField: "id",
		},
		{
			name:        "missing userId rejected",
			raw:         entity.RawRecord{"id": float64(11), "title": "x"},
			rejectField: "userId",
		},
		{
			name:        "empty title rejected",
			raw:         entity.RawRecord{"id": float64(11), "userId": float64(2), "title": ""},
			rejectField: "title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rej := ValidatePost(tt.raw)
			if tt.rejectField != "" {
				require.NotNil(t, rej)
				assert.Equal(t, tt.rejectField, rej.Field)
				return
			}
			require.Nil(t, rej)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateComment(t *testing.T) {
	tests := []struct {
		name        string
		raw         entity.RawRecord
		want        entity.Comment
		rejectField string
	}{
		{
			name: "valid with line breaks collapsed",
			raw: entity.RawRecord{
				"id": float64(101), "postId": float64(11),
				"body": "line one\nline two\r\nline three", "email": " a@b.c ",
			},
			want: entity.Comment{ID: 101, PostID: 11, Body: "line one line two line three", Email: "a@b.c"},
		},
		{
			name: "bare carriage return collapsed",
			raw: entity.RawRecord{
				"id": float64(102), "postId": float64(11),
				"body": "a\rb", "email": "x@y.z",
			},
			want: entity.Comment{ID: 102, PostID: 11, Body: "a b", Email: "x@y.z"},
		},
		{
			name: "body trimmed",
			raw: entity.RawRecord{
				"id": float64(103), "postId": float64(11),
				"body": "  ok  ", "email": "x@y.z",
			},
			want: entity.Comment{ID: 103, PostID: 11, Body: "ok", Email: "x@y.z"},
		},
		{
			name:        "email without at sign rejected",
			raw:         entity.RawRecord{"id": float64(101), "postId": float64(11), "body": "b", "email": "nope"},
			rejectField: "email",
		},
		{
			name:        "missing email rejected",
			raw:         entity.RawRecord{"id": float64(101), "postId": float64(11), "body": "b"},
			rejectField: "email",
		},
		{
			name:        "boolean postId rejected",
			raw:         entity.RawRecord{"id": float64(101), "postId": true, "body": "b", "email": "a@b.c"},
			rejectField: "postId",
		},
		{
			name:        "empty body rejected",
			raw:         entity.RawRecord{"id": float64(101), "postId": float64(11), "body": "  ", "email": "a@b.c"},
			rejectField: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rej := ValidateComment(tt.raw)
			if tt.rejectField != "" {
				require.NotNil(t, rej)
				assert.Equal(t, tt.rejectField, rej.Field)
				return
			}
			require.Nil(t, rej)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidators_NormalizedOutputIsStable(t *testing.T) {
	t.Run("user", func(t *testing.T) {
		first, rej := ValidateUser(entity.RawRecord{"id": float64(4), "name": " D "})
		require.Nil(t, rej)

		again, rej := ValidateUser(entity.RawRecord{"id": float64(first.ID), "name": first.Name})
		require.Nil(t, rej)
		assert.Equal(t, first, again)
	})

	t.Run("post", func(t *testing.T) {
		first, rej := ValidatePost(entity.RawRecord{"id": float64(11), "userId": float64(4), "title": " First "})
		require.Nil(t, rej)

		again, rej := ValidatePost(entity.RawRecord{
			"id": float64(first.ID), "userId": float64(first.UserID), "title": first.Title,
		})
		require.Nil(t, rej)
		assert.Equal(t, first, again)
	})

	t.Run("comment", func(t *testing.T) {
		first, rej := ValidateComment(entity.RawRecord{
			"id": float64(101), "postId": float64(11),
			"body": " line one\r\nline two ", "email": " a@b.c ",
		})
		require.Nil(t, rej)

		again, rej := ValidateComment(entity.RawRecord{
			"id": float64(first.ID), "postId": float64(first.PostID),
			"body": first.Body, "email": first.Email,
		})
		require.Nil(t, rej)
		assert.Equal(t, first, again)
	})
}

func TestRejectionString(t *testing.T) {
	rej := reject("id", true)
	assert.Equal(t, "id: invalid value true (bool)", rej.String())
}
