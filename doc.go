// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hostio adapts host-provided, promise-returning operations into
// pollable byte sources and sinks for a chunked transfer engine.
//
// A host exposes resources only through asynchronous calls: "give me this
// byte range later", "tell me when this buffer is written". A transfer engine
// wants to poll: call once and get either bytes or "not ready". hostio sits in
// between while keeping exactly one host operation in flight per adapter.
//
// Poll semantics
//   - (n, nil): ready; n bytes were read or accepted.
//   - ErrWouldBlock: suspended; a host operation is in flight. Poll again, with
//     the same buffer, once Ready fires. Re-polling never issues a second host
//     call.
//   - io.EOF (Source only): every byte has been read.
//   - *HostCallError: the host rejected the call; the adapter stays usable.
//
// Building blocks
//   - Future / Promise: the Go face of a host promise.
//   - PendingSlot: zero-or-one in-flight Future.
//   - Source: a Blob read sequentially.
//   - Sink: an AsyncWriter written sequentially; Flush and Close are no-ops.
//   - Never: a cancellation Signal that never fires.
//   - Pump: a resumable copy that drives a Source into a Sink.
//
// Adapters are single-owner: one caller polls an instance at a time.
package hostio
