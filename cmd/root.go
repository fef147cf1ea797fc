// file: cmd/root.go

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/d64tools/d64tools/internal/config"
	"github.com/d64tools/d64tools/internal/logger"
	"github.com/d64tools/d64tools/pkg/d64"
)

var cfgFile string

// rootCmd represents the base CLI command
var rootCmd = &cobra.Command{
	Use:   "d64tools",
	Short: "Manipulate Commodore 1541 (D64) disk images",
	Long: `d64tools creates and manipulates D64 disk images: the raw
track/sector layout of a Commodore 1541 floppy, including its
Block Availability Map, directory and file chains.

Images are plain files of exactly 683 or 768 sectors of 256 bytes;
every command loads the image, operates on the in-memory buffer and
writes it back only on success.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// An explicit --config replaces the startup configuration; flag
		// overrides below still win over the file's settings.
		if cmd.Flags().Changed("config") && cfgFile != "" {
			if err := config.LoadFile(cfgFile); err != nil {
				logger.LogError("Error loading config file", err, map[string]interface{}{
					"config_file": cfgFile,
				})
			}
		}
		if cmd.Flags().Changed("debug") {
			debug, _ := cmd.Flags().GetBool("debug")
			config.Instance.Debug = debug
		}
		if cmd.Flags().Changed("log-format") {
			logFormat, _ := cmd.Flags().GetString("log-format")
			config.Instance.LogFormat = logFormat
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. Any surfaced error exits non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is searched in standard locations)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "human", "log format: json or human")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

// loadImage opens an image file for a command.
func loadImage(path string) (*d64.Image, error) {
	logger.LogDebug("loading image", map[string]interface{}{"file": path})
	img, err := d64.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// saveImage persists a mutated image back to its file.
func saveImage(img *d64.Image, path string) error {
	logger.LogDebug("saving image", map[string]interface{}{
		"file":  path,
		"bytes": img.Size(),
	})
	return img.SaveToFile(path)
}
