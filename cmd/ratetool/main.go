// ratetool converts warehouse rate sheets and customer lists into the JSON
// files the calculators read.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/semaphore"

	"github.com/logistiq/vvp-backend/internal/convert"
	"github.com/logistiq/vvp-backend/internal/ratetable"
)

func newOutputFlag(value string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output JSON file",
		Value:   value,
		EnvVars: []string{"RATETOOL_OUTPUT"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "ratetool",
		Usage: "Convert warehouse rate sheets to calculator JSON",
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Convert one truck-rate sheet (pallets/truck_cost columns)",
				ArgsUsage: "<sheet.xlsx|sheet.csv|rates.json>",
				Flags:     []cli.Flag{newOutputFlag("./data/truck_rates.json")},
				Action:    runConvert,
			},
			{
				Name:      "france",
				Usage:     "Flatten a French department-by-pallet rate matrix",
				ArgsUsage: "<matrix.xlsx|matrix.csv>",
				Flags:     []cli.Flag{newOutputFlag("./data/fr_delivery_rates.json")},
				Action:    runFrance,
			},
			{
				Name:      "customers",
				Usage:     "Convert a customer sheet (name + address columns)",
				ArgsUsage: "<customers.xlsx|customers.csv>",
				Flags:     []cli.Flag{newOutputFlag("./data/customers.json")},
				Action:    runCustomers,
			},
			{
				Name:      "batch",
				Usage:     "Convert every truck-rate sheet in a directory",
				ArgsUsage: "<dir>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output-dir",
						Usage:   "Directory for the converted JSON files",
						Value:   "./data",
						EnvVars: []string{"RATETOOL_OUTPUT_DIR"},
					},
					&cli.Int64Flag{
						Name:  "concurrency",
						Usage: "Maximum sheets converted at once",
						Value: 4,
					},
				},
				Action: runBatch,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runConvert(c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		return fmt.Errorf("missing input sheet argument")
	}

	entries, err := convertTruckSheet(input)
	if err != nil {
		return err
	}
	if err := writeJSON(c.String("output"), entries); err != nil {
		return err
	}

	fmt.Printf("converted %d rates -> %s\n", len(entries), c.String("output"))
	return nil
}

func runFrance(c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		return fmt.Errorf("missing input matrix argument")
	}

	rows, err := convert.ReadRows(input)
	if err != nil {
		return err
	}
	entries, err := convert.FranceMatrix(rows)
	if err != nil {
		return err
	}
	if err := writeJSON(c.String("output"), entries); err != nil {
		return err
	}

	fmt.Printf("converted %d department rates -> %s\n", len(entries), c.String("output"))
	return nil
}

func runCustomers(c *cli.Context) error {
	input := c.Args().First()
	if input == "" {
		return fmt.Errorf("missing input sheet argument")
	}

	rows, err := convert.ReadRows(input)
	if err != nil {
		return err
	}
	customers := convert.Customers(rows)
	if err := writeJSON(c.String("output"), customers); err != nil {
		return err
	}

	fmt.Printf("converted %d customers -> %s\n", len(customers), c.String("output"))
	return nil
}

func runBatch(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("missing input directory argument")
	}

	matches, err := listSheets(dir)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no sheets found in %s", dir)
	}

	outputDir := c.String("output-dir")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	var (
		ctx  = context.Background()
		sem  = semaphore.NewWeighted(c.Int64("concurrency"))
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []string
	)

	for _, input := range matches {
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		wg.Add(1)
		go func(input string) {
			defer wg.Done()
			defer sem.Release(1)

			entries, err := convertTruckSheet(input)
			if err == nil {
				base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
				err = writeJSON(filepath.Join(outputDir, base+".json"), entries)
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Sprintf("%s: %v", input, err))
				mu.Unlock()
				return
			}
			fmt.Printf("converted %s (%d rates)\n", input, len(entries))
		}(input)
	}
	wg.Wait()

	if len(errs) > 0 {
		return fmt.Errorf("batch finished with errors:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func convertTruckSheet(input string) ([]ratetable.Entry, error) {
	if strings.EqualFold(filepath.Ext(input), ".json") {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		return convert.TruckRatesJSON(data)
	}

	rows, err := convert.ReadRows(input)
	if err != nil {
		return nil, err
	}
	return convert.TruckRates(rows)
}

func listSheets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".xlsx", ".xlsm", ".csv":
			matches = append(matches, filepath.Join(dir, entry.Name()))
		}
	}
	return matches, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
