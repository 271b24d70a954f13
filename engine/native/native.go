// Package native binds the TDMS C++ reader library through its C API.
//
// The binding is only compiled with cgo and the tdms_native build tag, and links against
// libtdms. Other builds get a stub whose New reports errs.ErrEngineUnavailable.
package native

// Name is the name the native engine reports.
const Name = "native"
