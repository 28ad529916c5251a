// Package rtabi defines the ABI shared between the compiler and the host
// runtime that instantiates a compiled module.
package rtabi

// Host import names
const (
	// ImportModule is the module name every host import lives under.
	ImportModule = "env"

	// FnLog receives one value per print statement.
	FnLog = "log"
)

// Entry point names
const (
	// EntryMain runs the top-level code as a script and returns nothing.
	EntryMain = "main"

	// EntryInit runs the top-level code and returns the value of its last
	// expression.
	EntryInit = "init"
)

// Linear memory layout
const (
	// MemoryName is the name the memory is declared and exported under.
	MemoryName = "memory"

	// MemoryPages is the initial size of the memory in pages.
	MemoryPages = 1

	// PageSize is the size of one memory page in bytes.
	PageSize = 65536

	// DataBase is the offset of the first data segment. String literals are
	// laid out from here upwards, each terminated by a zero byte.
	DataBase = 1024
)

// FuncSignature describes a host function's signature for code generation.
// Parameter and result types are the module's value type.
type FuncSignature struct {
	Module    string // import module name
	Name      string // function name
	NumParams int    // number of parameters
	HasResult bool   // whether the function returns a value
}

// HostFunctions returns the signatures of all host functions, in the
// order they are imported.
func HostFunctions() []FuncSignature {
	return []FuncSignature{
		{Module: ImportModule, Name: FnLog, NumParams: 1},
	}
}

// IsEntry reports whether name is a valid entry point name.
func IsEntry(name string) bool {
	return name == EntryMain || name == EntryInit
}
