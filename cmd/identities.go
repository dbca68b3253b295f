package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"emoscan/internal/config"
	"emoscan/internal/detect"
	"emoscan/internal/registry"
)

var identitiesCmd = &cobra.Command{
	Use:   "identities",
	Short: "Manage the identity registry",
}

var identitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enrolled identities",
	RunE:  runIdentitiesList,
}

var identitiesEnrollCmd = &cobra.Command{
	Use:   "enroll [label] [image]",
	Short: "Enroll an identity from a face image",
	Long: `Enroll a new identity. The image must contain exactly one face;
its embedding is stored under the normalized label.`,
	Args: cobra.ExactArgs(2),
	RunE: runIdentitiesEnroll,
}

var identitiesRemoveCmd = &cobra.Command{
	Use:   "remove [label]",
	Short: "Remove an identity",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentitiesRemove,
}

func init() {
	rootCmd.AddCommand(identitiesCmd)
	identitiesCmd.AddCommand(identitiesListCmd)
	identitiesCmd.AddCommand(identitiesEnrollCmd)
	identitiesCmd.AddCommand(identitiesRemoveCmd)
}

func runIdentitiesList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	pool, store, err := openIdentityStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting identities: %w", err)
	}
	if count == 0 {
		fmt.Println("No identities enrolled")
		return nil
	}

	records, err := store.Scan(ctx)
	if err != nil {
		return fmt.Errorf("listing identities: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tENROLLED")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\n", rec.Label, rec.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runIdentitiesEnroll(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	label := registry.NormalizeLabel(args[0])
	if label == "" {
		return errors.New("label must not be empty")
	}

	imgData, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	pool, store, err := openIdentityStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	detector, err := detect.NewGoFaceDetector(cfg.Detect.ModelsDir)
	if err != nil {
		return fmt.Errorf("loading face models: %w", err)
	}
	defer detector.Close()

	face, err := detector.DetectSingle(imgData)
	switch {
	case errors.Is(err, detect.ErrNoFace):
		return errors.New("no face found in the image")
	case errors.Is(err, detect.ErrMultipleFaces):
		return errors.New("the image must contain exactly one face")
	case err != nil:
		return fmt.Errorf("detecting face: %w", err)
	}

	exists, err := store.HasLabel(ctx, label)
	if err != nil {
		return fmt.Errorf("checking identity: %w", err)
	}
	if exists {
		fmt.Printf("Label %q already enrolled, adding another embedding\n", label)
	}

	if err := store.Add(ctx, label, face.Embedding); err != nil {
		return fmt.Errorf("storing identity: %w", err)
	}

	fmt.Printf("Enrolled %q\n", label)
	return nil
}

func runIdentitiesRemove(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	label := registry.NormalizeLabel(args[0])

	pool, store, err := openIdentityStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	removed, err := store.Remove(ctx, label)
	if err != nil {
		return fmt.Errorf("removing identity: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("identity %q not found", label)
	}

	fmt.Printf("Removed %d embedding(s) for %q\n", removed, label)
	return nil
}
