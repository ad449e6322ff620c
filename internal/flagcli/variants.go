package flagcli

import (
	"strconv"

	"github.com/spf13/cobra"
)

var variantWeight int

var createVariantCmd = &cobra.Command{
	Use:   "create-variant FEATURE_ID VALUE",
	Short: "Create a standard variant for a feature in the current environment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		featureID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		variant, err := session.CreateVariant(featureID, args[1], variantWeight)
		if err != nil {
			return err
		}
		okLabel.Printf("created variant %s (id=%d, weight=%d)\n", variant.Value, variant.ID, variant.Weight)
		printResult(variant)
		return nil
	},
}

var deleteVariantCmd = &cobra.Command{
	Use:   "delete-variant ID",
	Short: "Delete a variant in the current environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		if err := session.DeleteVariant(id); err != nil {
			return err
		}
		okLabel.Printf("deleted variant %d\n", id)
		return nil
	},
}

func init() {
	createVariantCmd.Flags().IntVarP(&variantWeight, "weight", "w", 0, "variant weight (0-100)")
	rootCmd.AddCommand(createVariantCmd)
	rootCmd.AddCommand(deleteVariantCmd)
}
