package selection

type stack[T any] []T

func (s *stack[T]) push(e T) {
	*s = append(*s, e)
}

// pop returns the zero value of T when the stack is empty.
func (s *stack[T]) pop() T {
	e := s.peekAt(0)
	if len(*s) > 0 {
		*s = (*s)[:len(*s)-1]
	}

	return e
}

// popN removes the n topmost elements and returns them in push order. It
// returns nil when fewer than n elements are stacked.
func (s *stack[T]) popN(n int) []T {
	l := len(*s)
	if n > l {
		return nil
	}

	out := make([]T, n)
	copy(out, (*s)[l-n:])
	*s = (*s)[:l-n]

	return out
}

func (s *stack[T]) peek() T {
	return s.peekAt(0)
}

// peekAt looks depth elements below the top.
func (s *stack[T]) peekAt(depth int) T {
	i := len(*s) - 1 - depth
	if depth < 0 || i < 0 {
		var noop T
		return noop
	}

	return (*s)[i]
}
