//go:build !cgo

package host

import "github.com/you-not-fish/teal/internal/vm"

// Run reports ErrUnavailable: the engine is linked through cgo.
func Run(p Program, sink vm.Sink) (vm.Value, error) {
	return vm.Value{}, ErrUnavailable
}
