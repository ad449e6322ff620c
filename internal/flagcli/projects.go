package flagcli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var createProjectCmd = &cobra.Command{
	Use:   "create-project NAME",
	Short: "Create a project and select it as current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project, err := session.CreateProject(args[0])
		if err != nil {
			return err
		}
		okLabel.Printf("created project %s (id=%d)\n", project.Name, project.ID)
		printResult(project)
		return nil
	},
}

var useProjectCmd = &cobra.Command{
	Use:   "use-project ID",
	Short: "Select a project as current by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid project id: %w", err)
		}
		project, err := session.GetProject(id)
		if err != nil {
			return err
		}
		printResult(project)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createProjectCmd)
	rootCmd.AddCommand(useProjectCmd)
}
