package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fdumary/HawkEye/internal/config"
	"github.com/fdumary/HawkEye/internal/credential"
	"github.com/fdumary/HawkEye/internal/identity"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll [soldier-id] [image-file]",
	Short: "Enroll a credential image for a soldier",
	Long: `Enroll an image as the credential template for a soldier on the
roster. Enrolling again replaces the previous template.

With --dir, every image in the directory is enrolled in bulk; the file
name without extension is taken as the soldier id (e.g. soldier1.png).`,
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("dir", "", "Directory of images to enroll in bulk")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	dir := mustGetString(cmd, "dir")

	if dir == "" && len(args) != 2 {
		return fmt.Errorf("expected <soldier-id> <image-file>, or --dir")
	}

	identities, err := identity.LoadStore(cfg.Roster.Path)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	be, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer be.close()

	cmp, err := credential.NewComparator(cfg.Verifier.Comparator)
	if err != nil {
		return fmt.Errorf("failed to create comparator: %w", err)
	}
	verifier := credential.NewVerifier(be.credentials, cmp, cfg.Verifier.Threshold, cfg.Verifier.Timeout)

	ctx := context.Background()

	if dir == "" {
		if err := enrollFile(ctx, verifier, identities, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Enrolled credential for %s\n", args[0])
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif", ".bmp":
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}

	bar := progressbar.Default(int64(len(files)), "enrolling")
	enrolled := 0
	for _, name := range files {
		id := strings.TrimSuffix(name, filepath.Ext(name))
		if err := enrollFile(ctx, verifier, identities, id, filepath.Join(dir, name)); err != nil {
			fmt.Fprintf(os.Stderr, "\nSkipping %s: %v\n", name, err)
		} else {
			enrolled++
		}
		_ = bar.Add(1)
	}

	fmt.Printf("Enrolled %d of %d credentials\n", enrolled, len(files))
	return nil
}

func enrollFile(ctx context.Context, verifier *credential.Verifier, identities *identity.Store, id, path string) error {
	rec, err := identities.Get(id)
	if err != nil {
		return fmt.Errorf("soldier %q is not on the roster", id)
	}

	sample, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	if _, err := verifier.Enroll(ctx, rec.ID, sample); err != nil {
		return fmt.Errorf("failed to enroll: %w", err)
	}
	return nil
}
