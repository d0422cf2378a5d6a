package comments

import (
	"sort"
	"strings"
)

type SortKey string

const (
	SortNewest        SortKey = "newest"
	SortOldest        SortKey = "oldest"
	SortMostReactions SortKey = "most_reactions"
	SortMostReplies   SortKey = "most_replies"
)

// View produces the filtered, sorted rendering of the top-level comments
// without touching the underlying tree. The filter is a case-insensitive
// substring match against content or author display name; sorting is stable
// so equal keys keep their original relative order. Replies always keep
// insertion order within their parent.
func (s *Store) View(query string, key SortKey) []*Comment {
	out := s.Comments()

	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		filtered := out[:0]
		for _, c := range out {
			if strings.Contains(strings.ToLower(c.Content), q) ||
				strings.Contains(strings.ToLower(c.Author.DisplayName), q) {
				filtered = append(filtered, c)
			}
		}
		out = filtered
	}

	switch key {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortMostReactions:
		// Counts derive from collection length; a nil list sorts as zero.
		sort.SliceStable(out, func(i, j int) bool {
			return len(out[i].Reactions) > len(out[j].Reactions)
		})
	case SortMostReplies:
		sort.SliceStable(out, func(i, j int) bool {
			return len(out[i].Replies) > len(out[j].Replies)
		})
	case SortNewest:
		fallthrough
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[j].CreatedAt.Before(out[i].CreatedAt)
		})
	}

	return out
}
