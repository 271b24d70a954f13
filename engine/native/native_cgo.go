//go:build cgo && tdms_native

package native

/*
#cgo LDFLAGS: -ltdms -lstdc++
#include <stdint.h>
#include <stdlib.h>

typedef struct _TDMS_file TDMS_file;
typedef struct _TDMS_object TDMS_object;
typedef struct _TDMS_object_properties_iterator TDMS_object_properties_iterator;
typedef struct _TDMS_objects_iterator TDMS_objects_iterator;

const char* last_error();

TDMS_file* tdms_read(const char* filepath);
const TDMS_object* tdms_object_by_path(TDMS_file*, const char* path);
void tdms_file_dispose(TDMS_file*);

TDMS_object_properties_iterator* tdms_object_properties_iterator(TDMS_object*);
void tdms_object_properties_iterator_dispose(TDMS_object_properties_iterator*);
int tdms_property_iterator_next(TDMS_object_properties_iterator*);
int tdms_property_iterator_ok(TDMS_object_properties_iterator*);
const char* tdms_property_iterator_name(TDMS_object_properties_iterator*);
const char* tdms_property_iterator_type(TDMS_object_properties_iterator*);
void* tdms_property_iterator_value(TDMS_object_properties_iterator*);

const char* tdms_read_string(void*);
float tdms_read_float(void*);
double tdms_read_double(void*);
uint64_t tdms_read_uint64(void*);
uint32_t tdms_read_uint32(void*);
uint16_t tdms_read_uint16(void*);
uint8_t tdms_read_uint8(void*);
int64_t tdms_read_int64(void*);
int32_t tdms_read_int32(void*);
int16_t tdms_read_int16(void*);
int8_t tdms_read_int8(void*);

size_t tdms_object_number_values(TDMS_object*);
const char* tdms_object_data_type(TDMS_object*);
void tdms_object_copy_data(TDMS_object*, void* dest);
const void* tdms_object_raw_data(TDMS_object*);

TDMS_objects_iterator* tdms_objects_iterator(TDMS_file*);
const char* tdms_objects_iterator_next(TDMS_objects_iterator*);
void tdms_objects_iterator_dispose(TDMS_objects_iterator*);
*/
import "C"

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/engine"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// Engine is the cgo binding. The library keeps the last error; the binding records its
// own failures, which take precedence until read.
type Engine struct {
	own      bool
	lastErr  string
	lastKind error
}

var (
	_ engine.Backend       = (*Engine)(nil)
	_ engine.FailureKinder = (*Engine)(nil)
)

// New returns the native engine.
func New() (engine.Backend, error) {
	return &Engine{}, nil
}

type file struct {
	ptr *C.TDMS_file
}

type object struct {
	ptr *C.TDMS_object
}

func (e *Engine) Name() string { return Name }

// setErr records a failure of the binding itself. An empty message with a nil kind
// reports an unavailable feature without a cause.
func (e *Engine) setErr(kind error, msg string, args ...any) {
	e.own = true
	e.lastKind = kind
	e.lastErr = fmt.Sprintf(msg, args...)
}

// LastError returns the binding's own failure if one was recorded, else the library's.
func (e *Engine) LastError() string {
	if e.own {
		e.own = false
		return e.lastErr
	}

	e.lastKind = nil
	if msg := C.last_error(); msg != nil {
		return C.GoString(msg)
	}

	return ""
}

// LastErrorKind classifies the failure returned by the preceding LastError.
func (e *Engine) LastErrorKind() error {
	kind := e.lastKind
	e.lastKind = nil

	return kind
}

func (e *Engine) Open(path string) engine.FileRef {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	ptr := C.tdms_read(cpath)
	if ptr == nil {
		return nil
	}

	return &file{ptr: ptr}
}

func (e *Engine) Close(f engine.FileRef) {
	if nf, ok := f.(*file); ok && nf.ptr != nil {
		C.tdms_file_dispose(nf.ptr)
		nf.ptr = nil
	}
}

type pathIterator struct {
	ptr *C.TDMS_objects_iterator
}

func (it *pathIterator) Next() (string, bool) {
	if it.ptr == nil {
		return "", false
	}

	p := C.tdms_objects_iterator_next(it.ptr)
	if p == nil {
		return "", false
	}

	return C.GoString(p), true
}

func (it *pathIterator) Close() {
	if it.ptr != nil {
		C.tdms_objects_iterator_dispose(it.ptr)
		it.ptr = nil
	}
}

func (e *Engine) ObjectPaths(f engine.FileRef) engine.PathIterator {
	ptr := C.tdms_objects_iterator(f.(*file).ptr) //nolint:forcetypeassert
	if ptr == nil {
		return nil
	}

	return &pathIterator{ptr: ptr}
}

func (e *Engine) ObjectByPath(f engine.FileRef, path string) engine.ObjectRef {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	ptr := C.tdms_object_by_path(f.(*file).ptr, cpath) //nolint:forcetypeassert
	if ptr == nil {
		return nil
	}

	return &object{ptr: (*C.TDMS_object)(unsafe.Pointer(ptr))}
}

func (e *Engine) SampleCount(o engine.ObjectRef) (int, bool) {
	return int(C.tdms_object_number_values(o.(*object).ptr)), true //nolint:forcetypeassert
}

func (e *Engine) DataType(o engine.ObjectRef) (format.DataType, bool) {
	name := C.tdms_object_data_type(o.(*object).ptr) //nolint:forcetypeassert
	if name == nil {
		return format.Void, false
	}

	t, ok := format.ParseDataType(C.GoString(name))
	if !ok {
		e.setErr(errs.ErrUnsupportedType, "unknown data type %q", C.GoString(name))
		return format.Void, false
	}

	return t, true
}

type propertyIterator struct {
	e   *Engine
	ptr *C.TDMS_object_properties_iterator
	// the library iterator starts on the first entry
	started bool
}

func (it *propertyIterator) Next() bool {
	if it.started {
		C.tdms_property_iterator_next(it.ptr)
	}
	it.started = true

	return C.tdms_property_iterator_ok(it.ptr) != 0
}

func (it *propertyIterator) Name() string {
	return C.GoString(C.tdms_property_iterator_name(it.ptr))
}

func (it *propertyIterator) Type() format.DataType {
	// Unknown names are reported as Void; Value then fails with the name.
	t, _ := format.ParseDataType(C.GoString(C.tdms_property_iterator_type(it.ptr)))

	return t
}

// Value reads the current value with the typed reader of its type and re-encodes it
// little-endian.
func (it *propertyIterator) Value() ([]byte, bool) {
	ptr := C.tdms_property_iterator_value(it.ptr)
	if ptr == nil {
		return nil, false
	}

	le := endian.Little()
	typeName := C.GoString(C.tdms_property_iterator_type(it.ptr))
	t, _ := format.ParseDataType(typeName)

	switch t {
	case format.Int8:
		return []byte{byte(C.tdms_read_int8(ptr))}, true
	case format.Int16:
		return le.AppendUint16(nil, uint16(C.tdms_read_int16(ptr))), true
	case format.Int32:
		return le.AppendUint32(nil, uint32(C.tdms_read_int32(ptr))), true
	case format.Int64:
		return le.AppendUint64(nil, uint64(C.tdms_read_int64(ptr))), true
	case format.Uint8, format.Boolean:
		return []byte{byte(C.tdms_read_uint8(ptr))}, true
	case format.Uint16:
		return le.AppendUint16(nil, uint16(C.tdms_read_uint16(ptr))), true
	case format.Uint32:
		return le.AppendUint32(nil, uint32(C.tdms_read_uint32(ptr))), true
	case format.Uint64:
		return le.AppendUint64(nil, uint64(C.tdms_read_uint64(ptr))), true
	case format.SingleFloat, format.SingleFloatWithUnit:
		return le.AppendUint32(nil, math.Float32bits(float32(C.tdms_read_float(ptr)))), true
	case format.DoubleFloat, format.DoubleFloatWithUnit:
		return le.AppendUint64(nil, math.Float64bits(float64(C.tdms_read_double(ptr)))), true
	case format.String:
		return []byte(C.GoString(C.tdms_read_string(ptr))), true
	case format.TimeStamp:
		it.e.setErr(errs.ErrUnimplemented, "timestamp properties are not exposed by the native library")
		return nil, false
	default:
		it.e.setErr(nil, "no reader for property type %s", typeName)
		return nil, false
	}
}

func (it *propertyIterator) Close() {
	if it.ptr != nil {
		C.tdms_object_properties_iterator_dispose(it.ptr)
		it.ptr = nil
	}
}

func (e *Engine) Properties(o engine.ObjectRef) engine.PropertyIterator {
	ptr := C.tdms_object_properties_iterator(o.(*object).ptr) //nolint:forcetypeassert
	if ptr == nil {
		return nil
	}

	return &propertyIterator{e: e, ptr: ptr}
}

func (e *Engine) CopyData(o engine.ObjectRef, dst []byte) bool {
	if len(dst) == 0 {
		return true
	}

	C.tdms_object_copy_data(o.(*object).ptr, unsafe.Pointer(&dst[0])) //nolint:forcetypeassert

	return true
}

func (e *Engine) StringData(engine.ObjectRef) ([]string, bool) {
	e.setErr(errs.ErrUnimplemented, "string channel data is not exposed by the native library")
	return nil, false
}

// RawData aliases the library's sample buffer; the slice stays valid until the file is
// disposed.
func (e *Engine) RawData(o engine.ObjectRef) ([]byte, bool) {
	obj := o.(*object) //nolint:forcetypeassert

	count := int(C.tdms_object_number_values(obj.ptr))
	t, ok := e.DataType(o)
	if !ok {
		return nil, false
	}

	size := count * format.Describe(t).Width
	if size <= 0 {
		return []byte{}, true
	}

	ptr := C.tdms_object_raw_data(obj.ptr)
	if ptr == nil {
		e.setErr(nil, "")
		return nil, false
	}

	return unsafe.Slice((*byte)(ptr), size), true
}
