package flagcli

import (
	"github.com/spf13/cobra"
)

var envDescription string

var createEnvCmd = &cobra.Command{
	Use:   "create-env NAME",
	Short: "Create an environment in the current project and select it as current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := session.CreateEnvironment(args[0], envDescription)
		if err != nil {
			return err
		}
		okLabel.Printf("created environment %s (id=%d)\n", env.Name, env.ID)
		printResult(env)
		return nil
	},
}

var useEnvCmd = &cobra.Command{
	Use:   "use-env ID_OR_NAME",
	Short: "Select an environment in the current project as current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := session.GetEnvironment(args[0])
		if err != nil {
			return err
		}
		printResult(env)
		return nil
	},
}

var listEnvsCmd = &cobra.Command{
	Use:   "list-envs",
	Short: "List environments in the current project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		envs, err := session.ListEnvironments("")
		if err != nil {
			return err
		}
		printResult(envs)
		return nil
	},
}

func init() {
	createEnvCmd.Flags().StringVarP(&envDescription, "description", "d", "", "environment description")
	rootCmd.AddCommand(createEnvCmd)
	rootCmd.AddCommand(useEnvCmd)
	rootCmd.AddCommand(listEnvsCmd)
}
