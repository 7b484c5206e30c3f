// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-pruner/internal/config"
	"github.com/petar-djukic/go-pruner/internal/policy"
	"github.com/petar-djukic/go-pruner/internal/pruner"
	"github.com/petar-djukic/go-pruner/internal/server"
)

// newServeCmd creates the "serve" command.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dead-code analysis HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

			creds := config.LoadCredentials()
			runner := pruner.NewRunner(pruner.Deps{
				Creds:  creds,
				Filter: policy.New(viper.GetStringSlice("deny")),
				Logger: log,
			})

			srv := server.New(server.Config{
				Addr:    viper.GetString("listen"),
				Version: version,
			}, runner, log)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return srv.ListenAndServe(ctx)
		},
	}
}
