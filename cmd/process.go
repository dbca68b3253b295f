package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"emoscan/internal/config"
	"emoscan/internal/processor"
)

var processCmd = &cobra.Command{
	Use:   "process [input]",
	Short: "Annotate a single video",
	Long: `Run one video through face and emotion annotation.
The input is an s3://bucket/key locator or a local file path. Without
--output the annotated video lands next to the input under a derived name.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().String("output", "", "Output locator (defaults to a name derived from the input)")
	processCmd.Flags().Float64("tolerance", 0, "Match tolerance override (defaults to MATCH_TOLERANCE)")
	processCmd.Flags().Int("max-frames", 0, "Stop after this many frames (0 means all)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted, finishing current frame...")
		cancel()
	}()

	proc, _, _, cleanup, err := buildProcessor(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// Frame count is unknown up front, so the bar runs in spinner mode.
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Annotating frames"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)

	result, err := proc.Process(ctx, processor.Request{
		Input:     args[0],
		Output:    mustGetString(cmd, "output"),
		Tolerance: mustGetFloat64(cmd, "tolerance"),
		MaxFrames: mustGetInt(cmd, "max-frames"),
		Progress: func(frames int) {
			_ = bar.Add(1)
		},
	})
	_ = bar.Finish()
	fmt.Println()

	if err != nil {
		return fmt.Errorf("processing failed after %d frames: %w", result.FramesProcessed, err)
	}

	fmt.Printf("Annotated %d frames (%d faces) into %s\n",
		result.FramesProcessed, result.FacesDetected, result.OutputLocator)
	return nil
}
