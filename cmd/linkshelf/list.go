package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/linkshelf/internal/config"
	"github.com/jonathan/linkshelf/internal/observability"
	"github.com/jonathan/linkshelf/internal/store"
	"github.com/jonathan/linkshelf/internal/types"
)

var listCommand = &cobra.Command{
	Use:   "list",
	Short: "Show stored links",
	RunE:  runListCmd,
}

var (
	listDataPath string
	listCategory string
	listLong     bool
	listJSON     bool
)

func init() {
	listCommand.Flags().StringVarP(&listDataPath, "data", "d", "", "Path to the JSON link store")
	listCommand.Flags().StringVarP(&listCategory, "category", "c", "", "Only show links in this category")
	listCommand.Flags().BoolVar(&listLong, "long", false, "Show full record details")
	listCommand.Flags().BoolVar(&listJSON, "json", false, "Emit records as JSON")

	rootCmd.AddCommand(listCommand)
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	settings := config.FromEnv()
	if cmd.Flags().Changed("data") {
		settings.DataPath = listDataPath
	}

	if listCategory != "" && !types.IsValidCategory(listCategory) {
		return fmt.Errorf("unknown category %q (valid: %v)", listCategory, types.Categories)
	}

	linkStore, err := store.New(settings.DataPath)
	if err != nil {
		return err
	}

	records, err := linkStore.GetAll()
	if err != nil {
		return err
	}

	if listCategory != "" {
		filtered := make([]types.Record, 0, len(records))
		for _, r := range records {
			if r.Category == listCategory {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	if listJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}

	printer := observability.NewPrinter(os.Stdout)
	if listLong {
		for i := range records {
			printer.PrintRecord(&records[i])
		}
		return nil
	}

	printer.PrintRecordList(records)
	return nil
}
