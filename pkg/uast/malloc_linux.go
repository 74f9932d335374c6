package uast

// #include <malloc.h>
import "C"

// MallocTrim returns freed C heap memory to the operating system. Every
// tree-sitter parse allocates and frees whole trees on the C heap; in
// long-lived processes (the LSP server reparses a buffer on every edit)
// glibc's per-thread ptmalloc arenas hold that memory back from the OS
// unless explicitly trimmed.
func MallocTrim() {
	C.malloc_trim(0)
}
