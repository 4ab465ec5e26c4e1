package util

// Now that we have generics, we can easily implement a ternary operator
// like most other languages have.
// i.e. in C++: x = cond ? a : b
func Tern[T any](cond bool, a T, b T) T {
	if cond {
		return a
	}
	return b
}

type Set[T comparable] struct {
	set map[T]bool
}

func NewSet[T comparable](vals ...T) *Set[T] {
	s := &Set[T]{make(map[T]bool)}
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

func (m *Set[T]) Has(val T) bool {
	_, ok := m.set[val]
	return ok
}

func (m *Set[T]) Add(val T) {
	m.set[val] = true
}

func (m *Set[T]) Len() int {
	return len(m.set)
}

func MapKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

type Optional[T any] struct {
	present bool
	value   T
}

func NewOptional[T any](v T) Optional[T] {
	return Optional[T]{true, v}
}

func (o *Optional[T]) Present() bool {
	return o.present
}

func (o *Optional[T]) Set(v T) {
	o.present = true
	o.value = v
}

func (o *Optional[T]) MustGet() T {
	if !o.present {
		panic("Optional.MustGet: value not present")
	}
	return o.value
}

func (o *Optional[T]) GetOr(def T) T {
	if !o.present {
		return def
	}
	return o.value
}
