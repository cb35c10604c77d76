package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/fuzzyload/internal/config"
	"github.com/fuzzyload/internal/correct"
	"github.com/fuzzyload/internal/fuzz"
	"github.com/fuzzyload/internal/pipeline"
	"github.com/fuzzyload/internal/table"
	"github.com/fuzzyload/internal/warehouse"
	"github.com/fuzzyload/internal/web"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fuzzyload",
		Short: "Customer transaction cleaning pipeline",
		Long:  `Reads transaction and customer CSVs, corrects misspelled customer names by fuzzy matching against the customer list, and uploads the joined result to the warehouse`,
	}

	rootCmd.AddCommand(createRunCmd())
	rootCmd.AddCommand(createCorrectCmd())
	rootCmd.AddCommand(createPingCmd())
	rootCmd.AddCommand(createServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// scorerByName maps the --scorer flag to a similarity implementation.
func scorerByName(name string) (fuzz.Scorer, error) {
	switch name {
	case "ratio":
		return fuzz.Ratio{}, nil
	case "token-sort":
		return fuzz.TokenSortRatio{}, nil
	case "token-set":
		return fuzz.TokenSetRatio{}, nil
	default:
		return nil, fmt.Errorf("unknown scorer %q (want ratio, token-sort or token-set)", name)
	}
}

// createRunCmd creates the full load -> correct -> upload command
func createRunCmd() *cobra.Command {
	var dataDir string
	var namesDir string
	var tableName string
	var threshold int
	var scorerName string
	var auditPath string
	var debugFlag bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full cleaning pipeline",
		Long:  `Load transactions.csv and customers.csv, correct customer names, join the tables, pick the best full names from the census reference lists and upload to the warehouse`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				log.Fatalf("Configuration error: %v", err)
			}

			scorer, err := scorerByName(scorerName)
			if err != nil {
				log.Fatalf("Invalid flag: %v", err)
			}

			p := pipeline.New(cfg)
			p.Scorer = scorer
			p.Threshold = threshold
			p.Debug = debugFlag

			result, err := p.Run(dataDir, namesDir, tableName)
			if err != nil {
				log.Fatalf("Pipeline failed: %v", err)
			}

			if auditPath != "" {
				if err := pipeline.WriteAudit(auditPath, result.Audit); err != nil {
					log.Fatalf("Failed to write audit file: %v", err)
				}
			}

			fmt.Printf("\n=== Pipeline Results ===\n")
			fmt.Printf("Transactions: %d\n", result.Transactions)
			fmt.Printf("Customers: %d\n", result.Customers)
			fmt.Printf("Names Corrected: %d\n", result.Corrected)
			fmt.Printf("Near Misses: %d\n", result.NearMisses)
			fmt.Printf("Rows Uploaded: %d\n", result.RowsUploaded)
			if result.Transactions > 0 {
				fmt.Printf("Correction Rate: %.2f%%\n", float64(result.Corrected)/float64(result.Transactions)*100)
			}
			if auditPath != "" {
				fmt.Printf("Audit Trail: %s\n", auditPath)
			}
		},
	}

	cmd.Flags().StringVar(&dataDir, "data", "./data", "Directory holding transactions.csv and customers.csv")
	cmd.Flags().StringVar(&namesDir, "names", "", "Directory holding census reference name files (skip full-name selection when empty)")
	cmd.Flags().StringVar(&tableName, "table", pipeline.DefaultTable, "Destination table name (uppercased)")
	cmd.Flags().IntVar(&threshold, "threshold", pipeline.DefaultThreshold, "Minimum similarity (0-100) to accept a correction")
	cmd.Flags().StringVar(&scorerName, "scorer", "token-set", "Similarity scorer: ratio, token-sort or token-set")
	cmd.Flags().StringVar(&auditPath, "audit", "", "Write the correction audit trail to this CSV")
	cmd.Flags().BoolVar(&debugFlag, "debug", false, "Log stage timings")

	return cmd
}

// createCorrectCmd creates the offline single-column correction command
func createCorrectCmd() *cobra.Command {
	var inputPath string
	var column string
	var refPath string
	var refColumn string
	var outputPath string
	var threshold int
	var scorerName string

	cmd := &cobra.Command{
		Use:   "correct",
		Short: "Correct one CSV column against a reference column",
		Long:  `Offline correction pass: fuzzy-match a column of an input CSV against a column of a reference CSV and write the corrected CSV with a match_score column. No warehouse involved`,
		Run: func(cmd *cobra.Command, args []string) {
			scorer, err := scorerByName(scorerName)
			if err != nil {
				log.Fatalf("Invalid flag: %v", err)
			}

			input, err := table.ReadCSV(inputPath)
			if err != nil {
				log.Fatalf("Failed to read input: %v", err)
			}
			reference, err := table.ReadCSV(refPath)
			if err != nil {
				log.Fatalf("Failed to read reference: %v", err)
			}

			values, err := input.Column(column)
			if err != nil {
				log.Fatalf("Input CSV: %v", err)
			}
			candidates, err := reference.Column(refColumn)
			if err != nil {
				log.Fatalf("Reference CSV: %v", err)
			}

			corrector := correct.New(scorer, threshold)
			matches := corrector.CorrectColumn(values, candidates)

			colIdx := input.ColumnIndex(column)
			scores := make([]string, len(matches))
			corrected := 0
			for i, m := range matches {
				input.Rows[i][colIdx] = m.Chosen
				scores[i] = fmt.Sprintf("%d", m.Score)
				if m.Corrected {
					corrected++
				}
			}
			if err := input.AddColumn("match_score", scores); err != nil {
				log.Fatalf("Failed to add score column: %v", err)
			}

			if err := input.WriteCSV(outputPath); err != nil {
				log.Fatalf("Failed to write output: %v", err)
			}

			fmt.Printf("\n=== Correction Results ===\n")
			fmt.Printf("Rows: %d\n", len(matches))
			fmt.Printf("Corrected: %d\n", corrected)
			fmt.Printf("Unchanged: %d\n", len(matches)-corrected)
			fmt.Printf("Output: %s\n", outputPath)
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "Input CSV path")
	cmd.Flags().StringVar(&column, "column", "customer_name", "Input column to correct")
	cmd.Flags().StringVar(&refPath, "reference", "", "Reference CSV path")
	cmd.Flags().StringVar(&refColumn, "ref-column", "customer_name", "Reference column of canonical values")
	cmd.Flags().StringVar(&outputPath, "output", "corrected.csv", "Output CSV path")
	cmd.Flags().IntVar(&threshold, "threshold", pipeline.DefaultThreshold, "Minimum similarity (0-100) to accept a correction")
	cmd.Flags().StringVar(&scorerName, "scorer", "token-set", "Similarity scorer: ratio, token-sort or token-set")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("reference")

	return cmd
}

// createPingCmd creates a command to test warehouse connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test warehouse connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				log.Fatalf("Configuration error: %v", err)
			}

			conn, err := warehouse.Connect(cfg)
			if err != nil {
				log.Fatalf("Failed to connect to warehouse: %v", err)
			}
			defer conn.Close()

			fmt.Println("Warehouse connection successful!")

			var version string
			if err := conn.DB.QueryRow("SELECT version()").Scan(&version); err != nil {
				log.Printf("Error reading server version: %v", err)
			} else {
				fmt.Printf("Server: %s\n", version)
			}
		},
	}
}

// createServeCmd creates the audit review server command
func createServeCmd() *cobra.Command {
	var addr string
	var auditPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the correction audit trail for review",
		Long:  `Start a read-only HTTP server over an audit CSV written by 'run --audit' so near-miss corrections can be reviewed`,
		Run: func(cmd *cobra.Command, args []string) {
			if _, err := os.Stat(auditPath); err != nil {
				log.Fatalf("Audit file not readable: %v", err)
			}

			server := web.NewServer(addr, auditPath)
			if err := server.Start(); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&auditPath, "audit", "audit.csv", "Audit CSV written by 'run --audit'")

	return cmd
}
