/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskboard-pm/apiserver/config"
	"github.com/taskboard-pm/apiserver/internal/db"
	"github.com/taskboard-pm/apiserver/internal/events"
	"github.com/taskboard-pm/apiserver/internal/mq"
	"github.com/taskboard-pm/apiserver/internal/store"
)

// workerCmd consumes board activity events and refreshes board activity timestamps.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consumes board activity events",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		conn, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer conn.Close()

		broker, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("MQ_BACKEND is required to run the worker")
		}
		defer broker.Close()

		consumer := events.NewConsumer(broker, cfg.MQ.ActivityChannel, store.NewBoardRepository(conn))
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("activity consumer: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
