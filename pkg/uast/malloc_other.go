//go:build !linux

package uast

// MallocTrim is a no-op outside linux: malloc_trim is a glibc extension,
// and other platforms' allocators return memory to the OS on their own
// schedule.
func MallocTrim() {}
