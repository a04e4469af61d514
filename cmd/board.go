package main

import (
	"fmt"
	"time"

	"brewboard/internal/core/column"
	"brewboard/internal/platform"
	"brewboard/internal/storage"
	"brewboard/internal/ui/board"
	"brewboard/internal/ui/preferences"
	"brewboard/internal/ui/tray"
	"brewboard/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runBoard(cmd *cobra.Command, args []string) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if showErr := platform.RequestShow(appName, time.Second); showErr != nil {
			logger.Warn("single instance", zap.Error(err), zap.NamedError("show", showErr))
			return nil
		}
		logger.Info("board already running, raised existing window")
		return nil
	}
	defer func() {
		_ = guard.Release()
	}()

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, using defaults", zap.Error(err))
	}
	applyFlags(cmd, &settings)

	catalog, err := storage.LoadCatalog(settings.CatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded",
		zap.String("path", settings.CatalogPath),
		zap.Int("teas", len(catalog.Ingredients)),
		zap.Int("columns", settings.Columns))

	columns := column.NewBoard(settings.Columns, catalog, settings.EngineConfig(), clockwork.NewRealClock(), logger)
	defer func() {
		for _, col := range columns {
			col.Close()
		}
	}()

	fyneApp := app.NewWithID("com.brewboard.app")
	fyneApp.SetIcon(resources.MustLogo("brewboard.svg"))

	boardWindow := board.New(fyneApp, columns, catalog)

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		for _, col := range columns {
			col.Engine().UpdateConfig(settings.EngineConfig())
		}
		if err := storage.SaveSettings(appName, settings); err != nil {
			logger.Error("save settings", zap.Error(err))
		}
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		activeIcon := resources.MustLogo("brewboard.svg")
		idleIcon := resources.MustLogo("brewboard_dim.svg")

		trayManager := tray.New(desktopApp, tray.Callbacks{
			OnShowBoard:   boardWindow.Show,
			OnPreferences: prefsWindow.Show,
			OnCancelAll:   boardWindow.CancelAll,
			OnQuit: fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(idleIcon)

		boardWindow.SetCloseIntercept(boardWindow.Hide)
		boardWindow.SetOnChange(func() {
			brewing, running := boardStatus(columns)
			trayManager.SetStatus(brewing, running)
			if brewing > 0 {
				desktopApp.SetSystemTrayIcon(activeIcon)
			} else {
				desktopApp.SetSystemTrayIcon(idleIcon)
			}
		})
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	go boardWindow.Watch()
	go func() {
		if err := guard.Serve(func() { fyne.Do(boardWindow.Show) }); err != nil {
			logger.Warn("show requests", zap.Error(err))
		}
	}()

	boardWindow.Show()
	fyneApp.Run()
	return nil
}

func boardStatus(columns []*column.Column) (brewing, running int) {
	for _, col := range columns {
		if col.Engine().Active() {
			brewing++
		}
		running += col.Engine().Running()
	}
	return brewing, running
}
