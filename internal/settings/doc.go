// Package settings is the static catalog the compiler is built on: hardware
// kinds and the emulation levels they allow, image names, repository
// identities, well-known ports and names, module proxy and serial-number
// definitions, and the pipette catalogs of both robots.
//
// Everything here is read-only data. A lookup with a key that validation
// should already have rejected is a programmer error and panics.
package settings
