package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"brewboard/internal/core/brewer"
	"brewboard/internal/core/model"
	"brewboard/internal/storage"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the teas, types and stages of the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalogForCommand(cmd)
		if err != nil {
			return err
		}
		return printCatalog(cmd.OutOrStdout(), catalog)
	},
}

func loadCatalogForCommand(cmd *cobra.Command) (model.Catalog, error) {
	path := catalogPath
	if !cmd.Flags().Changed("catalog") {
		if settings, err := storage.LoadSettings(appName); err == nil {
			path = settings.CatalogPath
		}
	}
	catalog, err := storage.LoadCatalog(path)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	return catalog, nil
}

func printCatalog(out io.Writer, catalog model.Catalog) error {
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "TEA\tTYPE\tDOSE\tSTAGES")
	for _, ingredient := range catalog.Ingredients {
		for _, mode := range model.Modes {
			config, ok := ingredient.Modes[mode]
			if !ok {
				continue
			}
			stages := make([]string, 0, len(config.Stages))
			for _, stage := range config.Stages {
				stages = append(stages, fmt.Sprintf("%s/%dml", brewer.FormatRemaining(stage.Duration), stage.Volume))
			}
			fmt.Fprintf(writer, "%s\t%s\t%sg\t%s\n",
				ingredient.Name,
				mode.Label(),
				strconv.FormatFloat(config.Dose, 'f', -1, 64),
				strings.Join(stages, " "))
		}
	}
	return writer.Flush()
}
