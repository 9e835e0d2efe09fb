package stagd

import (
	"unsafe"
)

// UnsafeBytesToString converts b to string without copying.
// The caller must not mutate b afterwards.
func UnsafeBytesToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// UnsafeStringToBytes converts s to a byte slice without copying.
// The result must not be mutated.
func UnsafeStringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
