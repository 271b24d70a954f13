package engine

import "github.com/arloliu/tdms/format"

// Borrowed is a view of sample bytes owned by an open engine file.
//
// It keeps a reference to the handle but does not own it. Every access checks that the
// handle is still open.
type Borrowed struct {
	handle *Handle
	data   []byte
	desc   format.Descriptor
	count  int
}

// Valid reports whether the owning file is still open.
func (b *Borrowed) Valid() bool {
	return !b.handle.Closed()
}

// Len returns the number of samples in the view.
func (b *Borrowed) Len() int {
	return b.count
}

// Descriptor returns the type of the samples.
func (b *Borrowed) Descriptor() format.Descriptor {
	return b.desc
}

// Bytes returns the borrowed bytes, or errs.ErrClosed once the file is closed.
//
// Caution: the slice is only safe to read while the file stays open. Use Do when the
// file may be closed concurrently.
func (b *Borrowed) Bytes() ([]byte, error) {
	if err := b.handle.acquire(); err != nil {
		return nil, err
	}
	defer b.handle.release()

	return b.data, nil
}

// Do calls fn with the borrowed bytes while holding the file open.
// fn must not retain the slice.
func (b *Borrowed) Do(fn func(data []byte) error) error {
	if err := b.handle.acquire(); err != nil {
		return err
	}
	defer b.handle.release()

	return fn(b.data)
}
