// Package importcmd runs the statement import pipeline from the command line.
package importcmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"fintracker/cmd/common"
	"fintracker/cmd/root"
	"fintracker/internal/batch"
	"fintracker/internal/container"
	"fintracker/internal/fileutils"
	"fintracker/internal/importer"
	"fintracker/internal/importerror"
	"fintracker/internal/logging"
	"fintracker/internal/models"
	"fintracker/internal/validation"

	"github.com/spf13/cobra"
)

// Options are the import command flags.
type Options struct {
	Input         string
	Dir           string
	Output        string
	StatementType string
	Save          bool
}

var opts Options

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import a bank or credit card statement",
	Long: `Import a statement file and print or write the categorized transactions.

The local parser handles the known bank layouts, CSV and OFX exports. When it
finds nothing, the document is sent to the configured AI providers instead.
With --dir every statement file under the directory is imported and the
results are merged, keeping transactions repeated across files once.

Example:
  fintracker import -i fatura.pdf --type credit_card --save
  fintracker import -i extrato.ofx -o extrato.csv
  fintracker import --dir extratos/ --save -o 2024.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), c, root.SharedFlags.UserID, opts, os.Stdout)
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Statement file (pdf, txt, csv, ofx)")
	Cmd.Flags().StringVar(&opts.Dir, "dir", "", "Directory of statement files to import together")
	Cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (.csv or .json); prints JSON when empty")
	Cmd.Flags().StringVarP(&opts.StatementType, "type", "t", "", "Statement type: credit_card or checking (detected when empty)")
	Cmd.Flags().BoolVar(&opts.Save, "save", false, "Persist the imported transactions")
	Cmd.MarkFlagsOneRequired("input", "dir")
	Cmd.MarkFlagsMutuallyExclusive("input", "dir")
}

// Run imports one statement file, or every statement in o.Dir, for userID.
func Run(ctx context.Context, c *container.Container, userID string, o Options, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if o.Input == "" && o.Dir == "" {
		return &importerror.ValidationError{Field: "input", Reason: "an input file or directory is required"}
	}
	st, err := common.ParseStatementType(o.StatementType)
	if err != nil {
		return err
	}
	if err := validation.IsValidOutputFormat(o.Output); err != nil {
		return err
	}
	if o.Dir != "" {
		return runBatch(ctx, c, userID, st, o, w)
	}
	if err := validation.IsValidInputFile(o.Input); err != nil {
		return err
	}

	log := c.GetLogger().WithFields(
		logging.F(logging.FieldOperation, "import"),
		logging.F(logging.FieldInputFile, o.Input))

	text, err := c.GetReader().ReadDocument(o.Input)
	if err != nil {
		return err
	}

	req := importer.Request{UserID: userID, Text: text, StatementType: st}
	var res *importer.Result
	if o.Save {
		res, err = c.GetImporter().ImportAndSave(ctx, req)
	} else {
		res, err = c.GetImporter().Import(ctx, req)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if res.Metadata.Error != "" {
		log.Warn("No transactions could be extracted", logging.F(logging.FieldError, res.Metadata.Error))
	} else if o.Save {
		log.Info("Transactions saved", logging.F(logging.FieldCount, len(res.Transactions)))
	}

	return common.WriteOutput(w, o.Output, res, res.Transactions, common.Delimiter(c.GetConfig().CSV.Delimiter), log)
}

func runBatch(ctx context.Context, c *container.Container, userID string, st models.StatementType, o Options, w io.Writer) error {
	log := c.GetLogger().WithFields(
		logging.F(logging.FieldOperation, "import_batch"),
		logging.F("dir", o.Dir))

	files, err := fileutils.ListFilesWithExtensions(o.Dir, fileutils.StatementExtensions...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return &importerror.ValidationError{Field: "dir", Reason: "no statement files found in " + o.Dir}
	}

	agg := batch.NewAggregator(func(ctx context.Context, path string) (*importer.Result, error) {
		text, err := c.GetReader().ReadDocument(path)
		if err != nil {
			return nil, err
		}
		return c.GetImporter().Import(ctx, importer.Request{UserID: userID, Text: text, StatementType: st})
	}, log)

	summary, err := agg.Aggregate(ctx, files)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if o.Save && len(summary.Transactions) > 0 {
		saved, err := c.GetStore().BatchCreateTransactions(ctx, summary.Transactions, userID)
		if err != nil {
			return err
		}
		summary.Transactions = saved
		log.Info("Transactions saved", logging.F(logging.FieldCount, len(saved)))
	}

	return common.WriteOutput(w, o.Output, summary, summary.Transactions, common.Delimiter(c.GetConfig().CSV.Delimiter), log)
}
