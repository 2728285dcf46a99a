package utils

func Ptr[T any](v T) *T {
	return &v
}

// ValueOr returns the pointed value, or fallback when ptr is nil.
func ValueOr[T any](ptr *T, fallback T) T {
	if ptr == nil {
		return fallback
	}
	return *ptr
}
