package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	disthttp "github.com/fwojciec/distill/http"
)

const shutdownTimeout = 10 * time.Second

// Run executes the serve command. It returns once the context is done
// and in-flight requests have finished.
func (c *ServeCmd) Run(deps *Dependencies) error {
	handler := disthttp.NewServer(disthttp.ServerConfig{
		NewFilter: deps.NewFilter,
		NewExtractor: func(schema []byte, backend string) (distill.Extractor, error) {
			return crawl.NewExtractor(schema, crawl.Backend(backend), deps.Logger)
		},
		Converter: deps.Converter,
		Logger:    deps.Logger,
		APIKey:    c.APIKey,
	})

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return report(deps, distill.Errorf(distill.EINVALID, "listen on %s: %v", c.Addr, err))
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", ln.Addr())

	select {
	case err := <-errc:
		return report(deps, err)
	case <-deps.Ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return report(deps, err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return report(deps, err)
	}
	return nil
}
