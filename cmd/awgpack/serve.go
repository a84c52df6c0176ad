// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ik5/awgkit/nodestore"
	"github.com/ik5/awgkit/waveform"
)

const defaultRoot = "/dev8000/awgs/0"

func runServe(ctx context.Context, args []string, _ io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", "127.0.0.1:8004", "listen address")
	root := fs.String("root", defaultRoot, "node path of the emulated AWG core")
	descriptors := fs.String("descriptors", "", "waveform descriptor JSON to seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := newEmulator(*root, *descriptors)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              *addr,
		Handler:           nodestore.Handler(store),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", *addr).Str("root", *root).Msg("awg emulator listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("awg emulator stopped")

	return nil
}

// newEmulator seeds descriptors from path when given.
func newEmulator(root, path string) (*nodestore.Store, error) {
	store := nodestore.NewAWG(root)
	if path == "" {
		return store, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	descs, err := waveform.ParseDescriptors(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := store.Seed(root+"/waveform/descriptors", raw); err != nil {
		return nil, err
	}
	log.Info().Int("slots", len(descs)).Msg("descriptors seeded")

	return store, nil
}
