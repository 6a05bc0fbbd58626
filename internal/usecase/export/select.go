package export

import (
	"cmp"
	"slices"

	"community-export/internal/domain/entity"
)

// TopByID returns the up-to-n records with the highest identifiers, in
// descending identifier order. Records whose id accessor reports no valid
// identifier are dropped; the sort is stable, so records with equal
// identifiers keep their input order. The function does not assume the
// records passed validation.
func TopByID[T any](records []T, n int, id func(T) (int64, bool)) []T {
	valid := make([]T, 0, len(records))
	for _, rec := range records {
		if _, ok := id(rec); ok {
			valid = append(valid, rec)
		}
	}

	slices.SortStableFunc(valid, func(a, b T) int {
		av, _ := id(a)
		bv, _ := id(b)
		return cmp.Compare(bv, av)
	})

	if n < 0 {
		n = 0
	}
	if len(valid) > n {
		valid = valid[:n]
	}
	return valid
}

// RawID is the id accessor for raw records; it reports false for records
// lacking a valid integer identifier.
func RawID(r entity.RawRecord) (int64, bool) {
	return r.Int("id")
}

// PostID is the id accessor for normalized posts.
func PostID(p entity.Post) (int64, bool) {
	return p.ID, true
}

// CommentID is the id accessor for normalized comments.
func CommentID(c entity.Comment) (int64, bool) {
	return c.ID, true
}
