// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command hostio moves a file through the transfer client using the
// in-process loopback engine, with both ends backed by oshost adapters.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"code.hybscloud.com/hostio/oshost"
	"code.hybscloud.com/hostio/transfer"
)

const version = "0.1.0"

var (
	app        = kingpin.New("hostio", "Move files through pollable host adapters.")
	configPath = app.Flag("config", "Config file, or directory holding hostio.yaml.").Short('c').Default(".").String()
	envFile    = app.Flag("env-file", "File of HOSTIO_* variables to load.").Default(".env").String()
	debug      = app.Flag("debug", "Log at debug level in text format.").Short('d').Bool()
	quiet      = app.Flag("quiet", "Do not draw progress spinners.").Short('q').Bool()

	copyCmd = app.Command("copy", "Send SRC through a loopback transfer and receive it as DST.")
	copySrc = copyCmd.Arg("src", "File to send.").Required().ExistingFile()
	copyDst = copyCmd.Arg("dst", "File to create.").Required().String()

	configCmd = app.Command("config", "Print the effective configuration.")
)

func main() {
	app.Version(version)
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		app.Fatalf("loading %s: %v", *envFile, err)
	}
	cfg, err := transfer.LoadConfig(*configPath)
	app.FatalIfError(err, "config")

	switch cmd {
	case copyCmd.FullCommand():
		verbose := *debug || cfg.Debug
		log := transfer.NewLogger(verbose, os.Stderr)
		spinners := !*quiet && !verbose
		if spinners {
			// Keep info logs from tearing the spinner lines.
			log.SetLevel(logrus.WarnLevel)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := runCopy(ctx, cfg, log, newTaskManager(spinners), *copySrc, *copyDst); err != nil {
			stop()
			app.Fatalf("%v", err)
		}
	case configCmd.FullCommand():
		printConfig(os.Stdout, cfg)
	}
}

func runCopy(ctx context.Context, cfg *transfer.Config, log *logrus.Logger, tm *taskManager, src, dst string) error {
	defer tm.stop()

	client, err := transfer.NewClient(cfg, transfer.NewLoopback(), log)
	if err != nil {
		return err
	}
	blob, err := oshost.OpenFile(src)
	if err != nil {
		return err
	}
	defer blob.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	w := oshost.NewWriter(out)

	sendTask := tm.add(fmt.Sprintf("sending %s (%s)", blob.Name(), formatBytes(blob.Size())))
	recvTask := tm.add("waiting for code")

	codes := make(chan string, 1)
	sent := make(chan error, 1)
	go func() {
		sent <- client.Send(ctx, blob, blob.Name(), transfer.Handlers{
			OnCode: func(code string) {
				sendTask.updatef("code %s", code)
				codes <- code
			},
			OnConnect: func(info transfer.ConnInfo) {
				sendTask.updatef("connected: %s", info)
			},
			OnProgress: func(cur, total int64) {
				sendTask.updatef("sent %s of %s", formatBytes(cur), formatBytes(total))
			},
		})
	}()

	var code string
	select {
	case code = <-codes:
	case err := <-sent:
		sendTask.check(err)
		w.Close()
		return err
	}

	recvErr := client.Receive(ctx, code, w, transfer.Handlers{
		OnOffer: func(name string, size int64) {
			recvTask.updatef("receiving %s (%s)", name, formatBytes(size))
		},
		OnProgress: func(cur, total int64) {
			recvTask.updatef("received %s of %s", formatBytes(cur), formatBytes(total))
		},
	})
	if err := w.Close(); recvErr == nil {
		recvErr = err
	}
	sendErr := <-sent

	if sendTask.check(sendErr) {
		sendTask.complete("sent %s", blob.Name())
	}
	if recvTask.check(recvErr) {
		recvTask.complete("received %s", dst)
	}
	return errors.Join(sendErr, recvErr)
}

func printConfig(w io.Writer, cfg *transfer.Config) {
	fmt.Fprintf(w, "app_id: %s\n", cfg.AppID)
	fmt.Fprintf(w, "rendezvous_url: %s\n", cfg.RendezvousURL)
	fmt.Fprintf(w, "transit_url: %s\n", cfg.TransitURL)
	fmt.Fprintf(w, "passphrase_component_len: %d\n", cfg.PassphraseComponentLen)
	fmt.Fprintf(w, "chunk_size: %d\n", cfg.ChunkSize)
	fmt.Fprintf(w, "debug: %t\n", cfg.Debug)
}
