package nodeuri

// strategy is one decoding attempt. It reports ok=false instead of failing so
// callers can walk an ordered list of alternatives.
type strategy[T any] func(body string) (T, bool)

// firstOf returns a strategy that tries each candidate in order and yields the
// first successful result.
func firstOf[T any](candidates ...strategy[T]) strategy[T] {
	return func(body string) (T, bool) {
		for _, try := range candidates {
			if v, ok := try(body); ok {
				return v, true
			}
		}
		var zero T
		return zero, false
	}
}
