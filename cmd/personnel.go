package cmd

import (
	"fmt"
	"strings"

	"github.com/fdumary/HawkEye/internal/config"
	"github.com/fdumary/HawkEye/internal/identity"
	"github.com/spf13/cobra"
)

var personnelCmd = &cobra.Command{
	Use:   "personnel",
	Short: "List the personnel roster",
	Long:  `Prints every identity on the configured roster with clearance and authorized areas.`,
	RunE:  runPersonnel,
}

func init() {
	rootCmd.AddCommand(personnelCmd)
}

func runPersonnel(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	identities, err := identity.LoadStore(cfg.Roster.Path)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	fmt.Printf("%-12s %-16s %-12s %-16s %-14s %s\n",
		"ID", "NAME", "RANK", "UNIT", "CLEARANCE", "AREAS")
	for _, rec := range identities.List() {
		fmt.Printf("%-12s %-16s %-12s %-16s %-14s %s\n",
			rec.ID, rec.Name, rec.Rank, rec.Unit, rec.Clearance, strings.Join(rec.Areas, ", "))
	}
	fmt.Printf("\n%d personnel on roster\n", identities.Len())
	return nil
}
