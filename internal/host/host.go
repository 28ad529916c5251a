// Package host runs compiled modules on a WebAssembly engine. It
// assembles the module text, binds the log import to a vm.Sink and calls
// the exported entry function, the way an embedding host would.
package host

import (
	"errors"

	"github.com/you-not-fish/teal/internal/wat"
)

// Host error kinds.
var (
	ErrUnavailable     = errors.New("wasm engine not available in this build")
	ErrAssemble        = errors.New("module text does not assemble")
	ErrInstantiate     = errors.New("module does not instantiate")
	ErrNoEntry         = errors.New("module does not export the entry function")
	ErrTrap            = errors.New("trap")
	ErrUnsupportedType = errors.New("unsupported value type")
)

// Program is module text ready to run.
type Program struct {
	Text  string        // module in the text format
	Type  wat.ValueType // parameter type of log and result type of the entry
	Entry string        // name of the exported entry function
}
