package entity

// Page is the pagination envelope produced by the market API.
type Page[T any] struct {
	Content       []T  `json:"content"`
	TotalPages    int  `json:"totalPages"`
	TotalElements int  `json:"totalElements"`
	Number        int  `json:"number"`
	Last          bool `json:"last"`
	Size          int  `json:"size"`
}

// PageOf wraps a bare sequence as a single, last page.
func PageOf[T any](items []T) Page[T] {
	n := len(items)
	pages := 0
	if n > 0 {
		pages = 1
	}
	return Page[T]{
		Content:       items,
		TotalPages:    pages,
		TotalElements: n,
		Number:        0,
		Last:          true,
		Size:          n,
	}
}
