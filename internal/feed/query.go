package feed

import (
	"slices"
	"strings"
)

// Page is one slice of a filtered, newest-first post list.
type Page struct {
	Items   []*Post
	Total   int  // number of posts that passed the filters
	HasMore bool // another non-empty page exists after this one
}

// Query filters all down to active posts whose title contains search
// (case-insensitive substring, ignored when blank), sorts them newest first
// and returns the requested page. It never mutates all, so repeated calls for
// the same page of the same snapshot return the same result.
func Query(all []*Post, page, pageSize int, search string) *Page {
	q := strings.ToLower(strings.TrimSpace(search))
	return paginate(all, page, pageSize, func(p *Post) bool {
		if !p.IsActive() {
			return false
		}
		return q == "" || strings.Contains(strings.ToLower(p.Title), q)
	})
}

// QueryByAuthor is Query restricted to active posts by authorID, without a search term.
func QueryByAuthor(all []*Post, authorID string, page, pageSize int) *Page {
	return paginate(all, page, pageSize, func(p *Post) bool {
		return p.IsActive() && p.UserID == authorID
	})
}

func paginate(all []*Post, page, pageSize int, keep func(*Post) bool) *Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	filtered := make([]*Post, 0, len(all))
	for _, p := range all {
		if p != nil && keep(p) {
			filtered = append(filtered, p)
		}
	}

	slices.SortStableFunc(filtered, func(a, b *Post) int {
		return b.CreateDate.Compare(a.CreateDate)
	})

	total := len(filtered)
	// Compare page counts before multiplying so huge page numbers cannot overflow.
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	if page-1 >= pages {
		return &Page{Items: []*Post{}, Total: total}
	}

	start := (page - 1) * pageSize
	end := start + min(pageSize, total-start)

	return &Page{
		Items:   filtered[start:end],
		Total:   total,
		HasMore: end < total,
	}
}
