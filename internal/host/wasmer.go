//go:build cgo

package host

import (
	"fmt"

	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/you-not-fish/teal/internal/rtabi"
	"github.com/you-not-fish/teal/internal/vm"
	"github.com/you-not-fish/teal/internal/wat"
)

// Run assembles p, instantiates it with log bound to sink and calls its
// entry function. For an entry without a result the returned Value has a
// zero Type.
func Run(p Program, sink vm.Sink) (vm.Value, error) {
	if !rtabi.IsEntry(p.Entry) {
		return vm.Value{}, fmt.Errorf("%w: %q", ErrNoEntry, p.Entry)
	}
	kind, err := valueKind(p.Type)
	if err != nil {
		return vm.Value{}, err
	}

	bin, err := wasmer.Wat2Wasm(p.Text)
	if err != nil {
		return vm.Value{}, fmt.Errorf("%w: %v", ErrAssemble, err)
	}

	store := wasmer.NewStore(wasmer.NewEngine())
	mod, err := wasmer.NewModule(store, bin)
	if err != nil {
		return vm.Value{}, fmt.Errorf("%w: %v", ErrInstantiate, err)
	}

	// A failing sink aborts the call; the engine only sees a trap, so the
	// sink's own error is kept here.
	var sinkErr error
	log := wasmer.NewFunction(store,
		wasmer.NewFunctionType(wasmer.NewValueTypes(kind), wasmer.NewValueTypes()),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			if sink == nil {
				return []wasmer.Value{}, nil
			}
			if err := sink.Log(fromWasmer(p.Type, args[0])); err != nil {
				sinkErr = err
				return nil, err
			}
			return []wasmer.Value{}, nil
		},
	)

	imports := wasmer.NewImportObject()
	imports.Register(rtabi.ImportModule, map[string]wasmer.IntoExtern{
		rtabi.FnLog: log,
	})

	instance, err := wasmer.NewInstance(mod, imports)
	if err != nil {
		return vm.Value{}, fmt.Errorf("%w: %v", ErrInstantiate, err)
	}
	entry, err := instance.Exports.GetFunction(p.Entry)
	if err != nil {
		return vm.Value{}, fmt.Errorf("%w: %q", ErrNoEntry, p.Entry)
	}

	res, err := entry()
	if sinkErr != nil {
		return vm.Value{}, sinkErr
	}
	if err != nil {
		return vm.Value{}, fmt.Errorf("%w: %v", ErrTrap, err)
	}

	switch v := res.(type) {
	case int32:
		return vm.I32(v), nil
	case float64:
		return vm.F64(v), nil
	}
	return vm.Value{}, nil
}

func valueKind(t wat.ValueType) (wasmer.ValueKind, error) {
	switch t {
	case wat.I32:
		return wasmer.I32, nil
	case wat.F64:
		return wasmer.F64, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrUnsupportedType, t)
}

func fromWasmer(t wat.ValueType, v wasmer.Value) vm.Value {
	if t == wat.I32 {
		return vm.I32(v.I32())
	}
	return vm.F64(v.F64())
}
