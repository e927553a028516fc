package entity

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortableFields lists the product fields the store may order by.
var SortableFields = map[string]bool{
	"price":  true,
	"rating": true,
}

// QueryParams are the caller-facing list parameters after defaulting.
type QueryParams struct {
	Page          int
	PageSize      int
	Category      string
	SearchTerm    string
	SortField     string
	SortDirection string
}

// ProductQuery is the store-native plan derived from QueryParams. Skip is
// the number of leading documents to pass over through a cursor.
type ProductQuery struct {
	Category  string
	OrderBy   string
	Direction string
	Skip      int
	Limit     int
}

type PageResult[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	TotalItems  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
}

// TotalPages is ceil(totalItems / pageSize), and 0 for an empty set.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	pages := totalItems / pageSize
	if totalItems%pageSize > 0 {
		pages++
	}
	return pages
}
