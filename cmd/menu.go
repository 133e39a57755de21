package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/shop-analytics/internal/config"
	"github.com/ginjaninja78/shop-analytics/internal/report"
	"github.com/ginjaninja78/shop-analytics/pkg/utils"
)

// runMenu shows the menu until the user exits or the input ends. A failed
// report is explained by the reporter and the menu is shown again.
func runMenu(in io.Reader, out io.Writer, r reporter, cfg *config.Config) error {
	if !utils.FileExists(cfg.InputFile) {
		report.WriteFileNotFound(out, cfg.InputFile)
		fmt.Fprintln(out, "The reports will fail until the file is available.")
	}

	scanner := bufio.NewScanner(in)
	for {
		printMenu(out, cfg.TopN)

		if !scanner.Scan() {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Goodbye!")
			return scanner.Err()
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			_ = r.Revenue(out)
		case "2":
			_ = r.Stock(out)
		case "3":
			_ = r.Top(out, cfg.TopN)
		case "4":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(out, "Invalid option. Please choose a number from 1 to 4.")
		}
	}
}

func printMenu(out io.Writer, topN int) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "SHOP ANALYTICS")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "1. Total revenue")
	fmt.Fprintln(out, "2. Available stock")
	fmt.Fprintf(out, "3. Top %d best-selling products\n", topN)
	fmt.Fprintln(out, "4. Exit")
	fmt.Fprint(out, "Choose an option (1-4): ")
}
