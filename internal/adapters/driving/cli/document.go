package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var downloadDir string

var downloadCmd = &cobra.Command{
	Use:   "download [doc-id]",
	Short: "Download a document",
	Long: `Downloads a document into the output directory. The file is named after the
server's filename; an existing file is never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

var openCmd = &cobra.Command{
	Use:   "open [doc-id]",
	Short: "Open a document in the browser",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

var openPrint bool

func init() {
	downloadCmd.Flags().StringVarP(&downloadDir, "output", "o", ".", "directory to save the document in")
	openCmd.Flags().BoolVar(&openPrint, "print", false, "print the document URL instead of opening it")
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(openCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	service, err := requireActions()
	if err != nil {
		return err
	}

	path, err := service.Download(cmd.Context(), args[0], downloadDir)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	cmd.Printf("Saved to %s\n", path)
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	service, err := requireActions()
	if err != nil {
		return err
	}

	if openPrint {
		link, err := service.DocumentURL(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve document: %w", err)
		}
		cmd.Println(link)
		return nil
	}

	if err := service.OpenDocument(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	cmd.Printf("Opening document %s\n", args[0])
	return nil
}
