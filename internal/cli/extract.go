package cli

import (
	"fmt"

	"jobkit/internal/common"
	"jobkit/internal/document"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [document]",
	Short: "Extract text from a PDF or DOCX document",
	Long: `Extract the text content of a position description document. Supported
file types are .pdf, .docx and .doc. With --metadata the document's
metadata (page count, word count, file size) is printed instead of the
text.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var (
	extractOutputFile string
	extractMetadata   bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractOutputFile, "output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().BoolVar(&extractMetadata, "metadata", false, "Print document metadata instead of text")
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	if extractMetadata {
		meta, err := document.ExtractMetadata(args[0])
		if err != nil {
			return err
		}
		outputHandler := common.NewOutputHandler(logger)
		return outputHandler.HandleOutput(meta, common.CommandConfig{
			OutputFile:   extractOutputFile,
			OutputFormat: "json",
		})
	}

	text, err := document.ExtractText(args[0])
	if err != nil {
		return err
	}

	if extractOutputFile != "" {
		fileProcessor := common.NewFileProcessor(logger)
		return fileProcessor.WriteFile(extractOutputFile, text)
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
