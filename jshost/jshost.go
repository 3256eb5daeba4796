// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build js && wasm

// Package jshost provides hostio host objects backed by browser values:
// File blobs, WritableStream writers and JavaScript promises.
package jshost

import (
	"errors"
	"fmt"
	"syscall/js"

	"code.hybscloud.com/hostio"
)

// JSError carries a value a JavaScript promise was rejected with.
type JSError struct {
	Value js.Value
}

func (e *JSError) Error() string {
	v := e.Value
	if v.Type() == js.TypeObject && v.Get("message").Type() == js.TypeString {
		return "js: " + v.Get("message").String()
	}
	return "js: " + v.String()
}

// Await returns a Future settled by promise's then/catch callbacks.
func Await(promise js.Value) hostio.Future[js.Value] {
	return awaitAs(promise, func(v js.Value) (js.Value, error) { return v, nil })
}

func awaitAs[T any](promise js.Value, conv func(js.Value) (T, error)) hostio.Future[T] {
	p := hostio.NewPromise[T]()
	var onResolve, onReject js.Func
	release := func() {
		onResolve.Release()
		onReject.Release()
	}
	onResolve = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer release()
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		out, err := conv(v)
		if err != nil {
			p.Reject(err)
			return nil
		}
		p.Resolve(out)
		return nil
	})
	onReject = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer release()
		v := js.Undefined()
		if len(args) > 0 {
			v = args[0]
		}
		p.Reject(&JSError{Value: v})
		return nil
	})
	promise.Call("then", onResolve, onReject)
	return p
}

// call invokes method on v, turning a thrown exception into an error.
func call(v js.Value, method string, args ...any) (out js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if jerr, ok := r.(js.Error); ok {
				err = &JSError{Value: jerr.Value}
				return
			}
			err = fmt.Errorf("js: %s: %v", method, r)
		}
	}()
	return v.Call(method, args...), nil
}

func isFunc(v js.Value, name string) bool {
	return v.Type() == js.TypeObject && v.Get(name).Type() == js.TypeFunction
}

// Blob is a hostio.Blob over a browser File or Blob.
type Blob struct {
	file js.Value
	size int64
}

// NewBlob wraps file. A value without a slice method yields a
// *hostio.ConfigError.
func NewBlob(file js.Value) (*Blob, error) {
	if !isFunc(file, "slice") {
		return nil, &hostio.ConfigError{Field: "file.slice", Err: errors.New("not a Blob")}
	}
	return &Blob{file: file, size: int64(file.Get("size").Float())}, nil
}

func (b *Blob) Size() int64 { return b.size }

// Name returns the File name, or "" for a plain Blob.
func (b *Blob) Name() string {
	if n := b.file.Get("name"); n.Type() == js.TypeString {
		return n.String()
	}
	return ""
}

// Slice requests slice(start, end).arrayBuffer().
func (b *Blob) Slice(start, end int64) (hostio.Future[[]byte], error) {
	part, err := call(b.file, "slice", start, end)
	if err != nil {
		return nil, err
	}
	buf, err := call(part, "arrayBuffer")
	if err != nil {
		return nil, err
	}
	return awaitAs(buf, func(ab js.Value) ([]byte, error) {
		arr := js.Global().Get("Uint8Array").New(ab)
		out := make([]byte, arr.Get("length").Int())
		js.CopyBytesToGo(out, arr)
		return out, nil
	}), nil
}

// WriteFunc returns writer.write as a hostio.WriteFunc, or nil when writer
// has no callable write. hostio.NewSink turns nil into a ConfigError.
func WriteFunc(writer js.Value) hostio.WriteFunc {
	if !isFunc(writer, "write") {
		return nil
	}
	return func(p []byte) (hostio.Future[struct{}], error) {
		arr := js.Global().Get("Uint8Array").New(len(p))
		js.CopyBytesToJS(arr, p)
		res, err := call(writer, "write", arr)
		if err != nil {
			return nil, err
		}
		if res.Type() != js.TypeObject || res.Get("then").Type() != js.TypeFunction {
			return hostio.Resolved(struct{}{}), nil
		}
		return awaitAs(res, func(js.Value) (struct{}, error) { return struct{}{}, nil }), nil
	}
}

// Writer wraps writer into a Sink after probing for write.
func Writer(writer js.Value) (*hostio.Sink, error) {
	return hostio.NewSink(WriteFunc(writer))
}
