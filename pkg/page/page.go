package page

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Info struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Normalize clamps page to >=1 and limit to 1..MaxLimit (0 means default).
func Normalize(p, limit int) (int, int) {
	if p < 1 {
		p = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return p, limit
}

func Offset(p, limit int) int { return (p - 1) * limit }

func New(p, limit int, total int64) Info {
	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Info{Page: p, Limit: limit, Total: total, Pages: pages}
}
