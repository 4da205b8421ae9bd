package utils

// Value dereferences v, returning the zero value for nil.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}

// Merge returns patch when set, otherwise current. Used for partial updates.
func Merge[T any](current T, patch *T) T {
	if patch == nil {
		return current
	}
	return *patch
}

// MergePtr is Merge for optional fields: a set patch replaces the pointer with a fresh copy.
func MergePtr[T any](current *T, patch *T) *T {
	if patch == nil {
		return current
	}
	return Ptr(*patch)
}
