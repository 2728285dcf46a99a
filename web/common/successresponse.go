package common

// SuccessResponse is the {"data": ...} envelope of every successful JSON
// response. The API client decodes the same type.
type SuccessResponse[T any] struct {
	Data T `json:"data"`
}

func NewSuccessResponse[T any](data T) *SuccessResponse[T] {
	return &SuccessResponse[T]{Data: data}
}
