//go:build ucode_cabi

// Command c builds the C ABI of the ucode grammar:
//
//	go build -tags ucode_cabi -buildmode=c-shared -o libtree-sitter-ucode.so ./bindings/c
//
// The library exports tree_sitter_ucode, which returns an opaque handle to the grammar
// descriptor. The handle is created on the first call and is the same for every call.
package main

// #include <stdint.h>
import "C"

import (
	"runtime/cgo"
	"sync"

	"tree-sitter-ucode/internal/domain/grammar"
)

var (
	handle     cgo.Handle
	handleOnce sync.Once
)

func languageHandle() cgo.Handle {
	handleOnce.Do(func() {
		handle = cgo.NewHandle(grammar.Get())
	})
	return handle
}

//export tree_sitter_ucode
func tree_sitter_ucode() C.uintptr_t {
	return C.uintptr_t(languageHandle())
}

func main() {}
