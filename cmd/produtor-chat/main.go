// Portal do Produtor — TUI чат входа и отправки документов.
// Основная точка входа.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/produtor-chat/internal/app"
	"github.com/ilkoid/produtor-chat/internal/ui"
	"github.com/ilkoid/produtor-chat/pkg/config"
	"github.com/ilkoid/produtor-chat/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "", "путь к config.yaml")
	headless := flag.Bool("headless", false, "построчный режим без TUI (stdin/stdout)")
	flag.Parse()

	// 1. Конфигурация
	cfgPath := (&config.DefaultConfigPathFinder{ConfigFlag: *configFlag}).FindConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// 2. Логгер (TUI занимает терминал, поэтому лог в файл)
	if err := utils.InitLoggerIn(cfg.App.LogDir); err != nil {
		log.Printf("Warning: failed to init logger: %v", err)
	}
	utils.SetDebug(cfg.App.Debug)

	ctx, shutdown := utils.SetupGracefulShutdownWithContext()
	defer shutdown()

	utils.Info("Application started", "config", cfgPath, "headless", *headless)
	logKeysInfo(cfg)

	// 3. Компоненты
	comps, err := app.Initialize(ctx, cfg)
	if err != nil {
		utils.Error("Initialization failed", "error", err)
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer comps.Close()

	if *headless {
		return comps.RunHeadless(ctx, os.Stdin, os.Stdout)
	}

	// 4. Bubble Tea программа
	p := tea.NewProgram(
		ui.New(ctx, comps, cfg.UI),
		tea.WithContext(ctx),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		utils.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	utils.Info("Application exited normally")
	return nil
}

// maskKey показывает первые 4 символа ключа для идентификации.
func maskKey(key string) string {
	if key == "" {
		return "NOT SET"
	}
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "..."
}

// logKeysInfo пишет в лог, какие ключи заданы (без значений).
func logKeysInfo(cfg *config.AppConfig) {
	utils.Info("Keys status",
		"s3_access_key", maskKey(cfg.S3.AccessKey),
		"assistant_key", maskKey(cfg.Assistant.APIKey),
		"portal", cfg.Portal.BaseURL)
}
