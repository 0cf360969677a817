package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Calculate clamps a 1-indexed page and a page size into a usable
// offset/limit pair.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}

// Normalize returns the effective page and page size after clamping, so
// responses echo back the values actually applied.
func Normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size
}
