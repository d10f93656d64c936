package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// seedCmd sets up example workflows through the public API.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Quick setup commands for development/test environments",
	Long: `Seed commands create example data through the same API endpoints an
operator uses, with the same validation and rate limits.

Example:
  1. go run ./cmd/bootstrap-token --name "Riverside Club" > .env.choo
  2. source .env.choo
  3. choo-cli seed workflows --notify treasurer@riverside.example`,
}

var seedWorkflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "Create the example signup and renewal workflows",
	RunE: func(cmd *cobra.Command, args []string) error {
		notify, _ := cmd.Flags().GetString("notify")
		position, _ := cmd.Flags().GetString("position-id")
		if notify == "" {
			return fmt.Errorf("--notify is required")
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		return seedWorkflows(cmd.OutOrStdout(), c, notify, position)
	},
}

func init() {
	seedCmd.AddCommand(seedWorkflowsCmd)
	seedWorkflowsCmd.Flags().String("notify", "", "address that receives signup notices")
	seedWorkflowsCmd.Flags().String("position-id", "", "committee position that receives renewal notices (default: --notify address)")
}

func exampleWorkflows(notify, positionID string) []WorkflowRequest {
	renewal := WorkflowRequest{
		Name:           "Renewal notice",
		TriggerEvent:   "renewal",
		RecipientType:  "email",
		RecipientEmail: notify,
		EmailSubject:   "Renewal: {{first_name}} {{last_name}}",
		EmailTemplate:  "{{first_name}} {{last_name}} renewed their {{membership_type}} membership.",
	}
	if positionID != "" {
		renewal.RecipientType = "position"
		renewal.RecipientEmail = ""
		renewal.RecipientPositionID = positionID
	}
	return []WorkflowRequest{
		{
			Name:           "New signup notice",
			Description:    "Tell the committee about every new member",
			TriggerEvent:   "signup",
			RecipientType:  "email",
			RecipientEmail: notify,
			EmailSubject:   "New signup: {{first_name}} {{last_name}}",
			EmailTemplate:  "{{first_name}} joined as {{membership_type}}.",
		},
		renewal,
	}
}

// seedWorkflows creates the example workflows that do not exist yet, matched
// by name, and prints one env line per workflow id.
func seedWorkflows(out io.Writer, c *ChooClient, notify, positionID string) error {
	existing, err := c.ListWorkflows()
	if err != nil {
		return err
	}
	byName := map[string]string{}
	for _, w := range existing {
		byName[w.Name] = w.ID
	}
	for i, req := range exampleWorkflows(notify, positionID) {
		id, ok := byName[req.Name]
		if !ok {
			w, err := c.CreateWorkflow(req)
			if err != nil {
				return fmt.Errorf("create %q: %w", req.Name, err)
			}
			id = w.ID
		}
		fmt.Fprintf(out, "WORKFLOW_%d_ID=%s\n", i+1, id)
	}
	return nil
}
