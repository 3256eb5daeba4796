// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build js && wasm

// Command hostio-wasm exposes the transfer client to a web page. It wires
// the in-process loopback engine; a page can send and receive within one
// tab.
package main

import (
	"code.hybscloud.com/hostio/jshost"
	"code.hybscloud.com/hostio/transfer"
)

func main() {
	log := transfer.NewLogger(false, nil)
	jshost.Register(transfer.NewLoopback(), log)
	log.Info("hostio registered")
	select {}
}
