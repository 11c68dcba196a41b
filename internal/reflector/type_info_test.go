package reflector

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Name string
}

func TestTypeInfoFor(t *testing.T) {
	tests := []struct {
		name string
		ti   TypeInfo
		want string
	}{
		{"named", TypeInfoFor[testStruct](), "github.com/H1ghBre4k3r/message-passing/internal/reflector.testStruct"},
		{"pointer", TypeInfoFor[*testStruct](), "github.com/H1ghBre4k3r/message-passing/internal/reflector.testStruct"},
		{"builtin", TypeInfoFor[int](), "int"},
		{"slice", TypeInfoFor[[]string](), "[]string"},
		{"any", TypeInfoFor[any](), "interface {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.ti.Name)
		})
	}
}

func TestTypeInfoOf(t *testing.T) {
	ti := TypeInfoOf(&testStruct{Name: "test"})
	require.Equal(t, "testStruct", ti.Type.Name())
	require.NotEqual(t, reflect.Pointer, ti.Type.Kind())

	require.Equal(t, "nil", TypeInfoOf(nil).Name)
}

func TestTypeInfo_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "int64", TypeInfoFor[int64]().Name)
		}()
	}
	wg.Wait()
}
