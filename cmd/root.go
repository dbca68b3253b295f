package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "emoscan",
	Short: "A service that annotates faces and emotions in videos",
	Long: `Emoscan processes videos frame by frame: it detects faces, matches them
against an enrolled identity registry, classifies the dominant emotion of
each face and writes an annotated copy of the video with boxes and labels.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
