package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/docquill/docquill"
	"github.com/docquill/docquill/docx"
	"github.com/docquill/docquill/fill"
	"github.com/docquill/docquill/internal/config"
	"github.com/docquill/docquill/preview"
	"github.com/docquill/docquill/store"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "docquill",
		Short: "Quotation document generator",
		Long: `Docquill fills DOCX quotation templates from customer details,
keeps a numbered quotation registry, and pulls applicant fields out of
sanction-letter PDFs.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			log.DefaultLogger.Level = log.ParseLevel(cfg.LogLevel)
			return nil
		},
	}
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(previewCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore opens the quotation registry configured in cfg.
func openStore(cfg *config.Config) (*store.Store, error) {
	return store.Open(store.Options{
		Path:            cfg.DataDir,
		QuotationPrefix: cfg.QuotationPrefix,
		QuotationStart:  cfg.QuotationStart,
	})
}

// templateForProduct picks the template file for the selected product. The
// 5.5 kWp product has its own layout; everything else uses the default.
func templateForProduct(dir, product string) string {
	if strings.Contains(strings.ToLower(product), "5.5") {
		return filepath.Join(dir, "quotation-5.5.docx")
	}
	return filepath.Join(dir, "quotation.docx")
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a quotation document",
		Long: `Generate a filled quotation DOCX from customer details.

A fresh quotation number is allocated from the registry, the matching
product template is filled, and the record is saved.

Example:
  docquill generate --name "Asha Rao" --mobile 9876543210 \
    --location "12 MG Road" --city Bengaluru --state Karnataka \
    --pincode 560001 --product "3.3 kWp Solar System"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			name, _ := cmd.Flags().GetString("name")
			mobile, _ := cmd.Flags().GetString("mobile")
			location, _ := cmd.Flags().GetString("location")
			city, _ := cmd.Flags().GetString("city")
			state, _ := cmd.Flags().GetString("state")
			pincode, _ := cmd.Flags().GetString("pincode")
			product, _ := cmd.Flags().GetString("product")
			staff, _ := cmd.Flags().GetString("staff")
			date, _ := cmd.Flags().GetString("date")
			template, _ := cmd.Flags().GetString("template")

			if name == "" || mobile == "" {
				return fmt.Errorf("--name and --mobile are required")
			}
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			if template == "" {
				template = templateForProduct(cfg.TemplateDir, product)
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			qno, err := st.NextQuotationNo()
			if err != nil {
				return err
			}

			q := fill.Quotation{
				CustomerName:    name,
				Mobile:          mobile,
				Location:        location,
				City:            city,
				State:           state,
				Pincode:         pincode,
				Product:         product,
				QuotationNo:     qno,
				DateOfQuotation: date,
				ValidityDate:    fill.ValidityDate(date, cfg.ValidityDays),
			}

			outName := fill.SafeFilename(qno) + ".docx"
			outPath := filepath.Join(cfg.OutputDir, outName)
			if err := docquill.Open(template).Quotation(q).Save(outPath); err != nil {
				return fmt.Errorf("generating quotation: %w", err)
			}

			rec := &store.Record{
				QuotationNo:     qno,
				Product:         product,
				CustomerName:    name,
				Mobile:          mobile,
				Location:        location,
				City:            city,
				State:           state,
				Pincode:         pincode,
				StaffName:       staff,
				DateOfQuotation: date,
				ValidityDate:    q.ValidityDate,
				PDFPath:         outPath,
			}
			if err := st.Save(rec); err != nil {
				return fmt.Errorf("saving quotation record: %w", err)
			}

			log.Info().Str("quotation_no", qno).Str("path", outPath).Msg("quotation generated")
			fmt.Printf("Generated %s\n", outPath)
			fmt.Printf("Quotation No: %s\n", qno)
			return nil
		},
	}

	cmd.Flags().String("name", "", "Customer name (required)")
	cmd.Flags().String("mobile", "", "Customer mobile number (required)")
	cmd.Flags().String("location", "", "Customer location / street address")
	cmd.Flags().String("city", "", "City")
	cmd.Flags().String("state", "", "State")
	cmd.Flags().String("pincode", "", "Pincode")
	cmd.Flags().String("product", "", "Product and service description")
	cmd.Flags().String("staff", "", "Staff member creating the quotation")
	cmd.Flags().String("date", "", "Date of quotation (YYYY-MM-DD, default today)")
	cmd.Flags().String("template", "", "Template file (overrides product-based selection)")
	return cmd
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <pdf>",
		Short: "Extract applicant fields from a sanction letter PDF",
		Long: `Extract the date, applicant name, address, and mobile number from a
sanction letter PDF. Scanned PDFs are recognised with OCR when the ocr
build tag is enabled.

Example:
  docquill extract sanction-letter.pdf --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")

			rec, err := docquill.ExtractPDF(args[0],
				docquill.WithOCRLanguage(cfg.OCRLanguage))
			if err != nil {
				return fmt.Errorf("extracting fields: %w", err)
			}

			if asJSON {
				out, err := json.MarshalIndent(rec, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			fmt.Printf("Date:    %s\n", rec.Date)
			fmt.Printf("Name:    %s\n", rec.Name)
			fmt.Printf("Address: %s\n", rec.Address)
			fmt.Printf("Number:  %s\n", rec.Number)
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print the extracted record as JSON")
	return cmd
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved quotations",
		Long: `List quotation records, newest first. Filters match anywhere in the
field, case-insensitively.

Example:
  docquill list --name asha --mobile 91234`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			name, _ := cmd.Flags().GetString("name")
			mobile, _ := cmd.Flags().GetString("mobile")
			qno, _ := cmd.Flags().GetString("quotation-no")

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(store.Filter{
				CustomerName: name,
				Mobile:       mobile,
				QuotationNo:  qno,
			})
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println("No quotations found.")
				return nil
			}

			for _, r := range recs {
				fmt.Printf("%-20s %-25s %-12s %s\n",
					r.QuotationNo, r.CustomerName, r.Mobile, r.DateOfQuotation)
			}
			fmt.Printf("\n%d quotation(s)\n", len(recs))
			return nil
		},
	}

	cmd.Flags().String("name", "", "Filter by customer name")
	cmd.Flags().String("mobile", "", "Filter by mobile number")
	cmd.Flags().String("quotation-no", "", "Filter by quotation number")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <quotation-no>",
		Short: "Show a single quotation record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(args[0])
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <docx>",
		Short: "Render a DOCX document as HTML",
		Long: `Render a DOCX document as a standalone HTML page, useful for checking
a filled quotation without opening a word processor. Highlighted runs
are marked so unfilled placeholders stand out.

Example:
  docquill preview output/MIERAE-25-26-0793.docx --out preview.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, _ := cmd.Flags().GetString("out")

			doc, err := docx.Open(args[0])
			if err != nil {
				return err
			}

			w := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := preview.Render(doc, w); err != nil {
				return fmt.Errorf("rendering preview: %w", err)
			}
			if outPath != "" {
				fmt.Printf("Wrote %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().String("out", "", "Output HTML file (default stdout)")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <quotation-no>",
		Short: "Delete a quotation record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}
