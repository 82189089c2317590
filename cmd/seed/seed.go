// Package seed installs a category catalog for a user.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"fintracker/cmd/root"
	"fintracker/internal/container"
	"fintracker/internal/logging"
	"fintracker/internal/store"

	"github.com/spf13/cobra"
)

var catalogFile string

// Cmd represents the seed command
var Cmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the category catalog for a user",
	Long: `Install the default category catalog, or the one in --file, for the user.
Users that already have categories are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), c, root.SharedFlags.UserID, catalogFile, os.Stdout)
	},
}

func init() {
	Cmd.Flags().StringVarP(&catalogFile, "file", "f", "", "YAML catalog to install instead of the defaults")
}

// Run seeds userID's catalog from file, or from the embedded defaults.
func Run(ctx context.Context, c *container.Container, userID, file string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	catalog, err := store.DefaultCategories()
	if file != "" {
		catalog, err = store.LoadCatalogFile(file)
	}
	if err != nil {
		return err
	}

	n, err := c.GetStore().SeedCategories(ctx, userID, catalog)
	if err != nil {
		return err
	}
	c.GetLogger().Info("Categories seeded",
		logging.F(logging.FieldUserID, userID),
		logging.F(logging.FieldCount, n))

	if n == 0 {
		_, err = fmt.Fprintf(w, "user %s already has categories\n", userID)
		return err
	}
	_, err = fmt.Fprintf(w, "%d categories created for user %s\n", n, userID)
	return err
}
