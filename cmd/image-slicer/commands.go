package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	imageslicer "github.com/menta2k/image-slicer"
	"github.com/menta2k/image-slicer/internal/server"
	"github.com/menta2k/image-slicer/internal/utils"
	"github.com/menta2k/image-slicer/pkg/input"
	"github.com/menta2k/image-slicer/pkg/metrics"
	"github.com/menta2k/image-slicer/pkg/pathgen"
	"github.com/menta2k/image-slicer/pkg/types"
)

type segmentSummary struct {
	Index int    `json:"index"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Bytes int    `json:"bytes"`
	Size  string `json:"size"`
}

type sliceSummary struct {
	Source   string           `json:"source"`
	Original int              `json:"originalBytes"`
	Metadata types.Metadata   `json:"metadata"`
	Segments []segmentSummary `json:"segments"`
}

func (c *cli) sliceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "slice <url|path|->",
		Short: "Slice an image and print its metadata and segment sizes",
		Long:  "Slice an image from a URL, a local file or stdin (\"-\") and print the metadata and\nsegment sizes as JSON. Segments are not written to disk.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			opts, err := c.cfg.Options()
			if err != nil {
				return err
			}

			var in any = args[0]
			if args[0] == "-" {
				in = input.Stream{Reader: cmd.InOrStdin()}
			}

			result, err := c.newSlicer().Slice(cmd.Context(), in, opts)
			if err != nil {
				return err
			}

			summary := sliceSummary{
				Source:   args[0],
				Original: len(result.Original),
				Metadata: result.Metadata,
				Segments: make([]segmentSummary, len(result.Segments)),
			}
			n := result.Metadata.GridSize
			for i, seg := range result.Segments {
				summary.Segments[i] = segmentSummary{
					Index: i,
					Row:   i / n,
					Col:   i % n,
					Bytes: len(seg),
					Size:  utils.FormatFileSize(int64(len(seg))),
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}
}

func (c *cli) pathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path <url>",
		Short: "Print the filesystem-safe identifier derived from an image URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}

			generate := pathgen.Generate
			if c.cfg.Slicer.StrictURLs {
				generate = pathgen.GenerateStrict
			}
			id, err := generate(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func (c *cli) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /v1/slice, /metrics and /healthz over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			opts, err := c.cfg.Options()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			slicerOpts := []imageslicer.Option{imageslicer.WithMetrics(metrics.New(reg))}
			if !c.cfg.Server.AllowPrivateURLs {
				slicerOpts = append(slicerOpts, imageslicer.WithHTTPClient(server.PublicHTTPClient(c.cfg.Fetch.Timeout)))
			}
			slicer := c.newSlicer(slicerOpts...)
			api := server.New(slicer, server.Config{
				Defaults:     opts,
				MaxBodyBytes: c.cfg.Server.MaxBodyBytes,
				Gatherer:     reg,
				Logger:       c.log,
			})

			srv := &http.Server{
				Addr:              c.cfg.Server.Addr,
				Handler:           api.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				c.log.Info().Str("addr", srv.Addr).Msg("listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
				c.log.Info().Msg("received signal, stopping...")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&c.cfg.Server.Addr, "addr", c.cfg.Server.Addr, "listen address")
	cmd.Flags().Int64Var(&c.cfg.Server.MaxBodyBytes, "max-body-bytes", c.cfg.Server.MaxBodyBytes, "largest request body accepted")
	cmd.Flags().BoolVar(&c.cfg.Server.AllowPrivateURLs, "allow-private-urls", c.cfg.Server.AllowPrivateURLs, "let URL requests reach loopback, private and link-local addresses")
	return cmd
}
