// Package core defines the shared language of the system.
//
// This package contains:
//   - Expression nodes produced by the model-definition parser (Ident,
//     Literal, Tuple, Schema, KindDef, ...)
//   - Data type descriptors (DataType, ParseDataType)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
