package typesys

import (
	"sync"

	"github.com/skdltmxn/lookup-go/internal/schema"
)

// BuiltinAssembly is the name of the predefined core assembly.
const BuiltinAssembly = "mscorlib"

const builtinModel = `
assembly: mscorlib
namespace: System
types:
  - name: Object
    members:
      - {name: ToString, kind: method, access: public, virtual: true, type: string}
      - {name: Equals, kind: method, access: public, virtual: true, type: bool, params: [object obj]}
      - {name: GetHashCode, kind: method, access: public, virtual: true, type: int}
      - {name: MemberwiseClone, kind: method, access: protected, type: object}
  - name: ValueType
  - name: Void
    kind: struct
  - name: Boolean
    kind: struct
  - name: Int32
    kind: struct
    members:
      - {name: MaxValue, kind: field, access: public, static: true, type: int}
      - {name: ToString, kind: method, access: public, override: true, type: string}
  - name: Double
    kind: struct
  - name: String
    members:
      - {name: Length, kind: property, access: public, type: int}
      - {name: Empty, kind: field, access: public, static: true, type: string}
  - name: Delegate
  - name: Action
    kind: delegate
`

// aliases maps keywords to builtin reflection names.
var aliases = map[string]string{
	"object": "System.Object",
	"int":    "System.Int32",
	"string": "System.String",
	"bool":   "System.Boolean",
	"void":   "System.Void",
	"double": "System.Double",
}

var (
	builtinStream     *schema.Stream
	builtinStreamOnce sync.Once
	builtinStreamErr  error
)

func getBuiltinStream() (*schema.Stream, error) {
	builtinStreamOnce.Do(func() {
		builtinStream, builtinStreamErr = schema.ParseStream([]byte(builtinModel))
	})
	return builtinStream, builtinStreamErr
}
