// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build js && wasm

package jshost

import (
	"context"
	"syscall/js"

	"github.com/sirupsen/logrus"

	"code.hybscloud.com/hostio/transfer"
)

// Register installs globalThis.hostio.clientInit(appid, rendezvousURL,
// transitURL, passphraseLen). The returned object has send(file, handlers)
// and receive(code, writer, handlers); both return promises resolving to 0
// on success and 1 on failure. Omitted clientInit arguments take the
// transfer package defaults. handlers may carry onCode, onOffer, onConnect
// and onProgress functions.
//
// A nil log uses the logrus standard logger.
func Register(engine transfer.Engine, log logrus.FieldLogger) {
	log = transfer.OrStandardLogger(log)
	ns := js.Global().Get("Object").New()
	ns.Set("clientInit", js.FuncOf(func(this js.Value, args []js.Value) any {
		cfg := configFromArgs(args)
		client, err := transfer.NewClient(cfg, engine, log)
		if err != nil {
			log.WithError(err).Error("client init")
			return js.Global().Get("Error").New(err.Error())
		}
		return clientObject(client, log)
	}))
	js.Global().Set("hostio", ns)
}

func configFromArgs(args []js.Value) *transfer.Config {
	cfg := transfer.DefaultConfig()
	str := func(i int, dst *string) {
		if len(args) > i && args[i].Type() == js.TypeString {
			*dst = args[i].String()
		}
	}
	str(0, &cfg.AppID)
	str(1, &cfg.RendezvousURL)
	str(2, &cfg.TransitURL)
	if len(args) > 3 && args[3].Type() == js.TypeNumber {
		cfg.PassphraseComponentLen = args[3].Int()
	}
	return cfg
}

func clientObject(client *transfer.Client, log logrus.FieldLogger) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("send", js.FuncOf(func(this js.Value, args []js.Value) any {
		file, h := arg(args, 0), handlers(arg(args, 1))
		return promise(func() int {
			blob, err := NewBlob(file)
			if err != nil {
				log.WithError(err).Error("send")
				return 1
			}
			if err := client.Send(context.Background(), blob, blob.Name(), h); err != nil {
				return 1
			}
			return 0
		})
	}))
	obj.Set("receive", js.FuncOf(func(this js.Value, args []js.Value) any {
		code, writer, h := arg(args, 0), arg(args, 1), handlers(arg(args, 2))
		return promise(func() int {
			if code.Type() != js.TypeString {
				log.Error("receive: code is not a string")
				return 1
			}
			if err := client.Receive(context.Background(), code.String(), WriteFunc(writer), h); err != nil {
				return 1
			}
			return 0
		})
	}))
	return obj
}

func arg(args []js.Value, i int) js.Value {
	if len(args) > i {
		return args[i]
	}
	return js.Undefined()
}

// handlers maps optional JavaScript callbacks onto transfer.Handlers.
func handlers(v js.Value) transfer.Handlers {
	var h transfer.Handlers
	if v.Type() != js.TypeObject {
		return h
	}
	if isFunc(v, "onCode") {
		h.OnCode = func(code string) { v.Call("onCode", code) }
	}
	if isFunc(v, "onOffer") {
		h.OnOffer = func(name string, size int64) { v.Call("onOffer", name, size) }
	}
	if isFunc(v, "onConnect") {
		h.OnConnect = func(info transfer.ConnInfo) { v.Call("onConnect", info.String()) }
	}
	if isFunc(v, "onProgress") {
		h.OnProgress = func(cur, total int64) { v.Call("onProgress", cur, total) }
	}
	return h
}

// promise runs fn on a goroutine and returns a JavaScript promise of its
// result. Go code blocking on host promises must not run on the event-loop
// callback itself.
func promise(fn func() int) js.Value {
	executor := js.FuncOf(func(this js.Value, args []js.Value) any {
		resolve := args[0]
		go func() { resolve.Invoke(fn()) }()
		return nil
	})
	defer executor.Release()
	return js.Global().Get("Promise").New(executor)
}
