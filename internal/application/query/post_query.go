package query

import (
	"strings"

	"stocktalk-service/internal/application/common"
)

type ListPostsQuery struct {
	StockSymbol string
	Tags        []string
	SortBy      string
}

// ParseTags splits the comma separated tags query parameter, dropping blanks.
func ParseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

type PostListQueryResult struct {
	Result []*common.PostResult `json:"result"`
}

type PostDetailQueryResult struct {
	Result *common.PostDetailResult `json:"result"`
}
