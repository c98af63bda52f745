package pipe

import "unsafe"

// Number constrains the element types the formatting and counting blocks
// operate on.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Complex is a fixed-width pair of real and imaginary parts. It is laid
// out as two consecutive T values, so a Buffer[Complex[T]] can be reshaped
// to and from a Buffer[T] with a Serializer.
type Complex[T Number] struct {
	Re, Im T
}

// sizeOf returns the in-memory size of T in bytes.
func sizeOf[T any]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

// asBytes views the raw memory of s as a byte slice. T must be pointer-free.
func asBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*sizeOf[T]())
}
