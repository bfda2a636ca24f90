package pagination

import "strconv"

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Pagination is the common offset-token page request bound from query params.
type Pagination struct {
	PageToken string `form:"page_token" json:"page_token"`
	PageSize  int    `form:"page_size" json:"page_size"`
}

func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return defaultPageSize
	}
	if p.PageSize > maxPageSize {
		return maxPageSize
	}
	return p.PageSize
}

func (p Pagination) Offset() int {
	if p.PageToken == "" {
		return 0
	}
	offset, err := strconv.Atoi(p.PageToken)
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	TotalCount    int64  `json:"total_count"`
}

// Next builds the page info for a response; the token is empty on the last page.
func Next(p Pagination, returned int, total int64) *PageInfo {
	info := &PageInfo{TotalCount: total}
	next := p.Offset() + returned
	if int64(next) < total {
		info.NextPageToken = strconv.Itoa(next)
	}
	return info
}
