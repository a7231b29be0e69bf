package mines

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func iif[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
