package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
	"github.com/ridwanfathin/invoice-composer-service/internal/logging"
	"github.com/ridwanfathin/invoice-composer-service/internal/model"
	"github.com/ridwanfathin/invoice-composer-service/internal/pdf"
	"github.com/ridwanfathin/invoice-composer-service/internal/service"
)

func newApp() *cli.App {
	composerFlags := []cli.Flag{
		&cli.StringFlag{Name: "theme", Aliases: []string{"t"}, Usage: "document theme (" + strings.Join(pdf.ThemeNames(), ", ") + ")", Value: pdf.DefaultThemeName, EnvVars: []string{"PDF_THEME"}},
		&cli.StringFlag{Name: "page-size", Usage: "A4 or Letter", Value: pdf.DefaultPageSize, EnvVars: []string{"PDF_PAGE_SIZE"}},
		&cli.StringFlag{Name: "currency", Usage: "currency symbol printed before amounts", Value: "$", EnvVars: []string{"CURRENCY_SYMBOL"}},
		&cli.StringFlag{Name: "terms", Usage: "terms used when the invoice has none", EnvVars: []string{"PDF_TERMS"}},
		&cli.StringFlag{Name: "generated-at", Usage: "RFC 3339 timestamp printed in the footer (default: now)"},
	}
	inputFlag := &cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "invoice JSON file, - for stdin", Required: true}

	return &cli.App{
		Name:  "invoicepdf",
		Usage: "render invoices to PDF",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: func(c *cli.Context) error {
			slog.SetDefault(logging.New(c.App.ErrWriter, "pretty", logging.ParseLevel(c.String("log-level"))))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "render an invoice JSON file to PDF",
				UsageText: "invoicepdf render --input invoice.json [--output invoice.pdf] [--theme blue]",
				Flags: append([]cli.Flag{
					inputFlag,
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file, - for stdout (default: invoice-<number>.pdf)"},
				}, composerFlags...),
				Action: renderAction,
			},
			{
				Name:   "outline",
				Usage:  "print the text laid out on each page",
				Flags:  append([]cli.Flag{inputFlag}, composerFlags...),
				Action: outlineAction,
			},
			{
				Name:  "themes",
				Usage: "list the available themes",
				Action: func(c *cli.Context) error {
					for _, name := range pdf.ThemeNames() {
						marker := ""
						if name == pdf.DefaultThemeName {
							marker = " (default)"
						}
						fmt.Fprintf(c.App.Writer, "%s%s\n", name, marker)
					}
					return nil
				},
			},
		},
	}
}

func renderAction(c *cli.Context) error {
	doc, composer, now, err := prepare(c)
	if err != nil {
		return err
	}

	data, err := composer.Generate(doc, now)
	if err != nil {
		return err
	}

	output := c.String("output")
	if output == "-" {
		_, err := c.App.Writer.Write(data)
		return err
	}
	if output == "" {
		output = service.Filename(doc.InvoiceNumber)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	slog.Info("invoice rendered", "output", output, "theme", composer.Theme().Name, "bytes", len(data))
	fmt.Fprintln(c.App.Writer, output)
	return nil
}

func outlineAction(c *cli.Context) error {
	doc, composer, now, err := prepare(c)
	if err != nil {
		return err
	}

	layout, err := composer.Compose(doc, now)
	if err != nil {
		return err
	}
	for _, page := range layout.Pages {
		fmt.Fprintf(c.App.Writer, "--- page %d of %d ---\n", page.Number, layout.PageCount())
		for _, text := range page.Texts() {
			fmt.Fprintln(c.App.Writer, text)
		}
	}
	return nil
}

// prepare reads the input document and builds a composer from the flags
func prepare(c *cli.Context) (*domain.InvoiceDocument, *pdf.Composer, time.Time, error) {
	doc, err := readDocument(c.String("input"), c.App.Reader)
	if err != nil {
		return nil, nil, time.Time{}, err
	}

	opts := pdf.DefaultOptions()
	opts.Theme = c.String("theme")
	opts.PageSize = c.String("page-size")
	opts.CurrencySymbol = c.String("currency")
	if terms := c.String("terms"); terms != "" {
		opts.DefaultTerms = terms
	}
	composer, err := pdf.NewComposer(opts)
	if err != nil {
		return nil, nil, time.Time{}, err
	}

	now := time.Now()
	if at := c.String("generated-at"); at != "" {
		now, err = time.Parse(time.RFC3339, at)
		if err != nil {
			return nil, nil, time.Time{}, fmt.Errorf("generated-at must be RFC 3339: %w", err)
		}
	}
	return doc, composer, now, nil
}

func readDocument(path string, stdin io.Reader) (*domain.InvoiceDocument, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var req model.InvoiceDocumentRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return req.ToDomain()
}
