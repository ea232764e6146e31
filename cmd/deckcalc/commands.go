package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"Deckwright/internal/auth"
	"Deckwright/internal/calc/batch"
	"Deckwright/internal/calc/deck"
	"Deckwright/internal/calc/engine"
	"Deckwright/internal/calc/importer"
	"Deckwright/internal/calc/report"
	"Deckwright/internal/calcerr"
	"Deckwright/internal/logging"
	"Deckwright/internal/spantable"
)

// Version is set at build time.
var Version = "dev"

type rootFlags struct {
	tables  string
	prices  string
	verbose bool
}

func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "deckcalc",
		Short: "Deck framing design from the command line",
		Long: color.CyanString(`deckcalc - deck structural design

Selects joists, beams and posts for a deck request, prices the material
takeoff and checks the result against the span tables.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.tables, "tables", "", "span table YAML overriding the embedded tables")
	rootCmd.PersistentFlags().StringVar(&flags.prices, "prices", "", "price book YAML overriding the embedded prices")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log engine diagnostics to stderr")

	rootCmd.AddCommand(newGenerateCommand(flags))
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newBatchCommand(flags))
	rootCmd.AddCommand(newTablesCommand(flags))
	rootCmd.AddCommand(newTokenCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func (f *rootFlags) setup() (*engine.Engine, engine.Reference, error) {
	ref, err := engine.LoadReference(f.tables, f.prices)
	if err != nil {
		return nil, engine.Reference{}, err
	}
	eng, err := engine.New(engine.WithLogger(logging.NewDevelopment(f.verbose)))
	if err != nil {
		return nil, engine.Reference{}, err
	}
	return eng, ref, nil
}

// readInput decodes a request from path, or from stdin when path is "" or "-".
func readInput(cmd *cobra.Command, args []string) (deck.Input, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return deck.Input{}, err
		}
		defer f.Close()
		r = f
	}
	var in deck.Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return deck.Input{}, fmt.Errorf("invalid request JSON: %w", err)
	}
	return in, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newGenerateCommand(flags *rootFlags) *cobra.Command {
	var pdfPath, xlsxPath, project string
	cmd := &cobra.Command{
		Use:   "generate [request.json]",
		Short: "Design a deck and print the result as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			eng, ref, err := flags.setup()
			if err != nil {
				return err
			}
			res, err := eng.Generate(in, ref)
			if err != nil {
				printEngineError(cmd.ErrOrStderr(), err)
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			printSummary(cmd.ErrOrStderr(), res)

			if pdfPath != "" {
				if err := writePDF(pdfPath, res, report.Meta{Project: project}); err != nil {
					return err
				}
			}
			if xlsxPath != "" {
				if err := writeWorkbook(xlsxPath, res); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "also write a PDF design report")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the takeoff workbook")
	cmd.Flags().StringVar(&project, "project", "", "project name for the PDF report")
	return cmd
}

func writePDF(path string, res deck.Result, meta report.Meta) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.PDF(f, res, meta, time.Now()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeWorkbook(path string, res deck.Result) error {
	wb, err := report.Workbook(res)
	if err != nil {
		return err
	}
	defer wb.Close()
	return wb.SaveAs(path)
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [request.json]",
		Short: "Check a request without designing it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			req, err := engine.Validate(in)
			if err != nil {
				printEngineError(cmd.ErrOrStderr(), err)
				return err
			}
			color.New(color.FgGreen).Fprintln(cmd.ErrOrStderr(), "request is valid")
			return writeJSON(cmd.OutOrStdout(), req)
		},
	}
}

func newBatchCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <decks.xlsx>",
		Short: "Design every request in a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			sheet, err := importer.Parse(f)
			if err != nil {
				return err
			}
			out := importer.ImportResult{Sheet: sheet}
			if len(sheet.Inputs) > 0 {
				eng, ref, err := flags.setup()
				if err != nil {
					return err
				}
				res, err := batch.Run(eng, batch.Input{Items: sheet.Inputs}, ref)
				if err != nil {
					return err
				}
				out.Batch = &res
				color.New(color.FgCyan).Fprintf(cmd.ErrOrStderr(), "%d designed, %d failed, %d rows unreadable\n",
					res.Succeeded, res.Failed, len(sheet.Errors))
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newTablesCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Show the span table edition and citations in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := engine.LoadReference(flags.tables, flags.prices)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			title := color.New(color.FgCyan, color.Bold)
			if t, ok := ref.Tables.(*spantable.Table); ok {
				title.Fprint(w, "Edition: ")
				fmt.Fprintln(w, t.Edition())
			}
			c := ref.Tables.Citations()
			for _, row := range [][2]string{
				{"Joists", c.Joists}, {"Beams", c.Beams}, {"Decking", c.Decking}, {"Cantilever", c.Cantilever},
			} {
				title.Fprintf(w, "%s: ", row[0])
				fmt.Fprintln(w, row[1])
			}
			title.Fprint(w, "Species: ")
			for i, s := range deck.AllSpecies {
				if i > 0 {
					fmt.Fprint(w, ", ")
				}
				fmt.Fprint(w, s)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
}

func newTokenCommand() *cobra.Command {
	var userID int
	var login string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an API session token with TOKEN_KEY",
		RunE: func(cmd *cobra.Command, args []string) error {
			key := os.Getenv("TOKEN_KEY")
			if key == "" {
				return errors.New("TOKEN_KEY is not set")
			}
			tok, err := (&auth.Authenv{JWTkey: []byte(key)}).IssueToken(userID, login, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().IntVar(&userID, "user", 1, "user id claim")
	cmd.Flags().StringVar(&login, "login", "deckcalc", "login claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			titleColor.Fprint(cmd.OutOrStdout(), "deckcalc version: ")
			fmt.Fprintln(cmd.OutOrStdout(), Version)
			titleColor.Fprint(cmd.OutOrStdout(), "Go version: ")
			fmt.Fprintln(cmd.OutOrStdout(), runtime.Version())
		},
	}
}

func printSummary(w io.Writer, res deck.Result) {
	j := res.Joists
	fmt.Fprintf(w, "joists: %d x %s at %d in, cantilever %.2f ft\n", j.Count, j.Size, j.SpacingIn, j.CantileverFt)
	for _, b := range res.Beams {
		if !b.IsLedger() {
			fmt.Fprintf(w, "%s beam: %s, %d posts\n", b.Position, b.Size, b.PostCount)
		}
	}
	fmt.Fprintf(w, "total cost: %.2f\n", res.TotalCost())
	if res.Compliance.Passes {
		color.New(color.FgGreen, color.Bold).Fprintln(w, "compliance: PASS")
	} else {
		color.New(color.FgRed, color.Bold).Fprintln(w, "compliance: REVIEW REQUIRED")
	}
	warn := color.New(color.FgYellow)
	for _, msg := range res.Compliance.Warnings {
		warn.Fprintln(w, "  warning:", msg)
	}
}

func printEngineError(w io.Writer, err error) {
	var ce *calcerr.Error
	if !errors.As(err, &ce) {
		return
	}
	red := color.New(color.FgRed)
	for _, f := range ce.Fields {
		red.Fprintln(w, "  "+f.String())
	}
}
