package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"text2speech/internal/config"
	"text2speech/internal/export"
	"text2speech/internal/tts"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// toolEnv зависимости команд обслуживания
type toolEnv struct {
	store  *export.DirStore
	engine tts.Engine
	logger *zap.Logger
}

type envLoader func() (*toolEnv, error)

func main() {
	cmd := newRootCommand(loadToolEnv)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadToolEnv собирает зависимости из конфигурации сервиса
func loadToolEnv() (*toolEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации логгера: %w", err)
	}

	engine, err := tts.NewEngine(cfg.TTS.Engine, logger)
	if err != nil {
		return nil, err
	}

	return &toolEnv{
		store:  export.NewDirStore(cfg.Export.Dir, logger),
		engine: engine,
		logger: logger,
	}, nil
}

func newRootCommand(load envLoader) *cobra.Command {
	var env *toolEnv

	root := &cobra.Command{
		Use:           "cleanup",
		Short:         "Обслуживание директории экспорта text2speech",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := load()
			if err != nil {
				return err
			}
			env = loaded
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if env != nil {
				_ = env.logger.Sync()
			}
		},
	}

	root.AddCommand(
		newClearCommand(func() *toolEnv { return env }),
		newListCommand(func() *toolEnv { return env }),
		newVoicesCommand(func() *toolEnv { return env }),
	)

	return root
}

func newClearCommand(env func() *toolEnv) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Удалить все файлы из директории экспорта",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := env()
			if dryRun {
				artifacts, err := e.store.List()
				if err != nil {
					return describeStoreError(err, e.store.Dir())
				}
				for _, a := range artifacts {
					fmt.Fprintf(cmd.OutOrStdout(), "будет удален: %s\n", a.Name)
				}
				e.logger.Info("DRY RUN: будет удалено файлов", zap.Int("count", len(artifacts)))
				return nil
			}

			removed, err := e.store.ClearAll()
			if err != nil {
				return describeStoreError(err, e.store.Dir())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "удалено файлов: %d\n", removed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Показать что будет удалено без фактического удаления")

	return cmd
}

func newListCommand(env func() *toolEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Показать файлы в директории экспорта",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := env()
			artifacts, err := e.store.List()
			if err != nil {
				return describeStoreError(err, e.store.Dir())
			}
			for _, a := range artifacts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", a.Name, a.Size, a.ModTime.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func newVoicesCommand(env func() *toolEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "Показать голоса, установленные в движке синтеза",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			voices, err := env().engine.ListVoices(context.Background())
			if err != nil {
				return err
			}
			for _, v := range voices {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func describeStoreError(err error, dir string) error {
	if errors.Is(err, export.ErrNotFound) {
		return fmt.Errorf("директория экспорта не найдена: %s", dir)
	}
	return err
}
