// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the conversion pipeline, decoupled from any
// specific entrypoint like a CLI:
//
//	load -> substitute -> validate -> probe refs -> convert -> write
package app
