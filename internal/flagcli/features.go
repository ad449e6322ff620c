package flagcli

import (
	"github.com/spf13/cobra"

	"github.com/mbuczko/flagrant/internal/flagstore"
)

var (
	featureValue     string
	featureValueType string
	featureEnabled   bool
)

var createFeatureCmd = &cobra.Command{
	Use:   "create-feature NAME",
	Short: "Create a feature in the current environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		feature, err := session.CreateFeature(args[0], flagstore.ValueType(featureValueType), featureValue, featureEnabled)
		if err != nil {
			return err
		}
		okLabel.Printf("created feature %s (id=%d)\n", feature.Name, feature.ID)
		printResult(feature)
		return nil
	},
}

var listFeaturesCmd = &cobra.Command{
	Use:   "list-features",
	Short: "List features visible in the current environment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		features, err := session.ListFeatures("")
		if err != nil {
			return err
		}
		printResult(features)
		return nil
	},
}

var getFeatureCmd = &cobra.Command{
	Use:   "get-feature NAME",
	Short: "Evaluate a feature for an identity in the current environment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := session.GetFeature("flagrant-cli", args[0])
		if err != nil {
			return err
		}
		printResult(value)
		return nil
	},
}

func init() {
	createFeatureCmd.Flags().StringVarP(&featureValue, "value", "v", "", "control variant value")
	createFeatureCmd.Flags().StringVarP(&featureValueType, "type", "t", string(flagstore.ValueTypeText), "value type: text|json|toml")
	createFeatureCmd.Flags().BoolVarP(&featureEnabled, "enabled", "e", true, "whether the feature is enabled")
	rootCmd.AddCommand(createFeatureCmd)
	rootCmd.AddCommand(listFeaturesCmd)
	rootCmd.AddCommand(getFeatureCmd)
}
