// Package reflector derives stable, cached names for Go types.
package reflector

import (
	"reflect"
	"sync"
)

var (
	muCache sync.RWMutex
	cache   = make(map[reflect.Type]TypeInfo)
)

type TypeInfo struct {
	Name string
	Type reflect.Type
}

func TypeInfoOf(x any) TypeInfo {
	return TypeInfoForType(reflect.TypeOf(x))
}

func TypeInfoFor[T any]() TypeInfo {
	return TypeInfoForType(reflect.TypeFor[T]())
}

// TypeInfoForType names t. Pointers are unwrapped, named types get their
// package path ("pkg/path.Name"), and predeclared or composite types use
// their Go syntax ("int", "[]string").
func TypeInfoForType(t reflect.Type) TypeInfo {
	if t == nil {
		return TypeInfo{Name: "nil"}
	}

	muCache.RLock()
	ti, ok := cache[t]
	muCache.RUnlock()
	if ok {
		return ti
	}

	et := t
	if et.Kind() == reflect.Pointer {
		et = et.Elem()
	}

	name := et.String()
	if et.Name() != "" && et.PkgPath() != "" {
		name = et.PkgPath() + "." + et.Name()
	}
	ti = TypeInfo{Name: name, Type: et}

	muCache.Lock()
	cache[t] = ti
	muCache.Unlock()
	return ti
}
