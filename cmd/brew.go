package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"brewboard/internal/core/brewer"
	"brewboard/internal/core/column"
	"brewboard/internal/core/model"
	"brewboard/internal/storage"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	brewTea  string
	brewMode string
)

var brewCmd = &cobra.Command{
	Use:   "brew",
	Short: "Run one brew in the terminal",
	Long: `Runs a single column without the board: every stage is started in order,
its countdown printed, and dismissed once it completes.

Example:
  brewboard brew --tea Green --mode hot`,
	Args: cobra.NoArgs,
	RunE: runBrew,
}

func init() {
	brewCmd.Flags().StringVar(&brewTea, "tea", "", "tea name from the catalog")
	brewCmd.Flags().StringVar(&brewMode, "mode", string(model.ModeHot), "brew type: hot, ice or milk")
	_ = brewCmd.MarkFlagRequired("tea")
}

func runBrew(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalogForCommand(cmd)
	if err != nil {
		return err
	}
	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, using defaults", zap.Error(err))
	}

	col := column.New(0, catalog, settings.EngineConfig(), clockwork.NewRealClock(), logger)
	defer col.Close()
	if err := selectBrew(col, catalog, brewTea, model.Mode(strings.ToLower(brewMode))); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return guidedBrew(ctx, cmd.OutOrStdout(), col, time.Second)
}

// selectBrew chooses the named tea and mode on col.
func selectBrew(col *column.Column, catalog model.Catalog, tea string, mode model.Mode) error {
	index := -1
	for i, name := range catalog.Names() {
		if strings.EqualFold(name, tea) {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("unknown tea %q", tea)
	}

	col.ChooseIngredient(index)
	col.ChooseMode(mode)
	if !col.Ready() {
		return fmt.Errorf("%s has no %q type", catalog.Ingredients[index].Name, mode)
	}
	return nil
}

// guidedBrew starts col and walks every stage in order until the session
// resets. poll bounds how long it waits without an event before
// re-reading the column.
func guidedBrew(ctx context.Context, out io.Writer, col *column.Column, poll time.Duration) error {
	events := col.Engine().Subscribe(64)
	if err := col.Start(); err != nil {
		return err
	}

	brewing := col.View().Brewing
	if !brewing.Active {
		return errors.New("brew did not start")
	}
	fmt.Fprintf(out, "%s, %sg\n", brewing.Label, strconv.FormatFloat(brewing.Dose, 'f', -1, 64))

	fallback := time.NewTicker(poll)
	defer fallback.Stop()

	wait := func(done func(brewer.Snapshot) bool, onEvent func(brewer.Snapshot)) error {
		for {
			snapshot := col.View().Brewing
			if done(snapshot) {
				return nil
			}
			select {
			case <-ctx.Done():
				col.Cancel()
				fmt.Fprintln(out, "\ncancelled")
				return ctx.Err()
			case _, ok := <-events:
				if !ok {
					return errors.New("engine closed")
				}
			case <-fallback.C:
			}
			if onEvent != nil {
				onEvent(col.View().Brewing)
			}
		}
	}

	for index, stage := range brewing.Stages {
		col.Tap(index)
		last := ""
		err := wait(func(snapshot brewer.Snapshot) bool {
			return !snapshot.Active || snapshot.Stages[index].State == brewer.StateCompleted
		}, func(snapshot brewer.Snapshot) {
			if !snapshot.Active || snapshot.Stages[index].Display == last {
				return
			}
			last = snapshot.Stages[index].Display
			fmt.Fprintf(out, "\rStage %d  %dml  %5s", index+1, stage.Volume, last)
		})
		if err != nil {
			return err
		}
		if !col.View().Brewing.Active {
			return errors.New("brew cancelled")
		}
		fmt.Fprintf(out, "\rStage %d  %dml  done \n", index+1, stage.Volume)
		col.Tap(index)
	}

	if err := wait(func(snapshot brewer.Snapshot) bool { return !snapshot.Active }, nil); err != nil {
		return err
	}
	fmt.Fprintln(out, "all stages done")
	return nil
}
