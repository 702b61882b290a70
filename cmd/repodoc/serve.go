package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	repohttp "github.com/fwojciec/repodoc/http"
)

// Run executes the serve command. It blocks until interrupted.
func (c *ServeCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := repohttp.NewServer()
	server.Addr = c.Addr
	server.AllowOrigin = c.AllowOrigin
	server.Readme = deps.Readme
	server.Logger = deps.Logger

	if err := server.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot listen on %s: %v\n", c.Addr, err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", server.URL())
	return server.Serve(ctx)
}
