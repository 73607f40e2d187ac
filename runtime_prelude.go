package tick

import _ "embed"

// runtimePreludeHeader is the fixed runtime header baked into the compiler
// binary (spec §6.3), mirroring the teacher's own embedded-template
// pattern for constant generated-code fragments.
//
//go:embed runtime/prelude.h
var runtimePreludeHeader string
