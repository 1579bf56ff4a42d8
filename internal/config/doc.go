// Package config defines the format-agnostic input document, along with the
// Loader interface that format-specific packages implement and the
// substitutions that may be applied to a document before it is validated.
//
// A Document mirrors what the user wrote and is deliberately loose: strings
// stay strings and hardware-specific attributes stay dynamic cty values. The
// `model` package turns it into validated types. Concrete loaders for YAML,
// JSON and HCL live in separate packages.
package config
