// Package customers provides commands managing the customer directory.
package customers

import (
	"fmt"

	"fjacquet/agri-potential/cmd/root"

	"github.com/spf13/cobra"
)

var file string

// Cmd represents the customers command
var Cmd = &cobra.Command{
	Use:   "customers",
	Short: "Manage the active customer directory",
}

// LoadCmd loads a directory file.
var LoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load customers from a CSV or YAML file",
	Long: `Insert or update customers from a directory file. CSV files use the configured delimiter
and the columns id, legal_name, postal_code, city, active, turnover_last_year; YAML files hold a list
with the same keys. Potential fields already on a customer are kept.

Example:
  agri-potential customers load --file customers.csv`,
	RunE: loadFunc,
}

func init() {
	LoadCmd.Flags().StringVarP(&file, "file", "f", "", "Directory file (.csv, .yaml or .yml)")
	_ = LoadCmd.MarkFlagRequired("file")
	Cmd.AddCommand(LoadCmd)
}

func loadFunc(cmd *cobra.Command, _ []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	res, err := c.GetDirectoryLoader().Load(cmd.Context(), file)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d customers read, %d loaded, %d skipped\n",
		res.Read, res.Upserted, res.Skipped)
	return err
}
