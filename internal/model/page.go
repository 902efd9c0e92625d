package model

// Pagination describes one server-paginated slice of a collection.
// Invariant: TotalPages == ceil(Total/Limit) for Limit > 0.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Normalize applies defaults for fields the backend omitted or sent with
// out-of-range values, so downstream code never sees a zero limit or page.
// Missing pagination objects decode to the zero value and end up here too.
func (p Pagination) Normalize(defaultLimit int) Pagination {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Total < 0 {
		p.Total = 0
	}
	if p.TotalPages <= 0 {
		p.TotalPages = (p.Total + p.Limit - 1) / p.Limit
	}
	return p
}
