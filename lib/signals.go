/*
Copyright 2026 Appointly, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package lib

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
)

// SignalContext returns a context cancelled by the first SIGINT or SIGTERM so
// that in-flight calls can wind down. A second SIGINT exits right away.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC,
		syscall.SIGTERM, // graceful shutdown
		syscall.SIGINT,  // graceful-then-fast shutdown
	)

	go func() {
		defer signal.Stop(sigC)
		var alreadyInterrupted bool
		done := ctx.Done()
		for {
			select {
			case <-done:
				if !alreadyInterrupted {
					return
				}
				// Keep watching for a second interrupt.
				done = nil
			case sig := <-sigC:
				if sig == syscall.SIGINT && alreadyInterrupted {
					log.Warn("Interrupted twice, exiting")
					os.Exit(130)
				}
				log.Debugf("Got %v, cancelling", sig)
				alreadyInterrupted = true
				cancel()
				if sig == syscall.SIGTERM {
					return
				}
			}
		}
	}()

	return ctx, cancel
}
