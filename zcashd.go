// Copyright (c) 2023-2026 The Zingo developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
)

// cfg is the loaded configuration shared by the main package.
var cfg *config

// zcashdMain is the real main function for zcashd.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is
// called.
func zcashdMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	tcfg, _, err := loadConfig(appName)
	if err != nil {
		usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
		fmt.Fprintln(os.Stderr, err)
		var e errSuppressUsage
		if !errors.As(err, &e) {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return err
	}
	cfg = tcfg
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	// Get a context that will be canceled when a shutdown signal has been
	// triggered either from an OS signal such as SIGINT (Ctrl+C) or from
	// another subsystem such as the RPC server.
	ctx := shutdownListener()
	defer zcsdLog.Info("Shutdown complete")

	// Show version and home dir at startup.
	zcsdLog.Infof("Version %s (Go version %s %s/%s)", version(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
	zcsdLog.Infof("Home dir: %s", cfg.HomeDir)
	if cfg.NoFileLogging {
		zcsdLog.Info("File logging disabled")
	}

	// Block template construction can cause bursty allocations.  This
	// limits the garbage collector from excessively overallocating during
	// bursts.
	debug.SetGCPercent(50)

	// Return now if a shutdown signal was triggered.
	if shutdownRequested(ctx) {
		return nil
	}

	// Create server.
	svr, err := newServer(cfg)
	if err != nil {
		zcsdLog.Errorf("Unable to start server: %v", err)
		return err
	}

	if shutdownRequested(ctx) {
		return nil
	}

	// Run the server.  This will block until the context is cancelled
	// which happens when the interrupt signal is received from an OS
	// signal or shutdown is requested through one of the subsystems such
	// as the RPC server.
	svr.Run(ctx)
	srvrLog.Infof("Server shutdown complete")
	return nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := zcashdMain(); err != nil {
		os.Exit(1)
	}
}
