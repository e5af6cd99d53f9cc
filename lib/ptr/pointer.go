package ptr

// Str returns a pointer to a string.
func Str(str string) *string {
	ret := str
	return &ret
}

// Int returns a pointer to an int.
func Int(n int) *int {
	ret := n
	return &ret
}

// Int64 returns a pointer to an int64.
func Int64(n int64) *int64 {
	ret := n
	return &ret
}

// Uint returns a pointer to an uint.
func Uint(n uint) *uint {
	ret := n
	return &ret
}
