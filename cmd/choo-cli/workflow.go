package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	wdomain "github.com/wjlander/choo/internal/workflows/domain"
)

var workflowCmd = &cobra.Command{
	Use:     "workflow",
	Aliases: []string{"wf"},
	Short:   "Email workflow management",
	Long:    "List, create, toggle, delete and test email workflows",
}

var workflowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workflows with their state",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		items, err := c.ListWorkflows()
		if err != nil {
			return err
		}
		if outputFmt != "table" {
			return formatOutput(cmd.OutOrStdout(), items)
		}
		printWorkflows(cmd.OutOrStdout(), items)
		return nil
	},
}

var workflowGetCmd = &cobra.Command{
	Use:   "get [workflow-id]",
	Short: "Show one workflow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		w, err := c.GetWorkflow(args[0])
		if err != nil {
			return err
		}
		if outputFmt != "table" {
			return formatOutput(cmd.OutOrStdout(), w)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID: %s\nName: %s\nTrigger: %s\nRecipient: %s\nState: %s\nSubject: %s\n\n%s\n",
			w.ID, w.Name, w.TriggerEvent, recipientLabel(w), w.State, w.EmailSubject, w.EmailTemplate)
		return nil
	},
}

var workflowCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a workflow",
	Long: `Create a workflow. The recipient flags must match --recipient-type:
  email        needs --recipient-email
  position     needs --position-id
  all_members  takes nothing else and mails every active member`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := WorkflowRequest{Name: args[0]}
		req.Description, _ = cmd.Flags().GetString("description")
		req.TriggerEvent, _ = cmd.Flags().GetString("trigger")
		req.RecipientType, _ = cmd.Flags().GetString("recipient-type")
		req.RecipientEmail, _ = cmd.Flags().GetString("recipient-email")
		req.RecipientPositionID, _ = cmd.Flags().GetString("position-id")
		req.EmailSubject, _ = cmd.Flags().GetString("subject")
		req.EmailTemplate, _ = cmd.Flags().GetString("body")
		if disabled, _ := cmd.Flags().GetBool("disabled"); disabled {
			f := false
			req.IsActive = &f
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		w, err := c.CreateWorkflow(req)
		if err != nil {
			return err
		}
		if outputFmt != "table" {
			return formatOutput(cmd.OutOrStdout(), w)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Workflow created: %s (%s)\n", w.ID, w.State)
		for _, warn := range w.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warn)
		}
		return nil
	},
}

var workflowToggleCmd = &cobra.Command{
	Use:   "toggle [workflow-id]",
	Short: "Enable a disabled workflow or disable an active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		w, err := c.ToggleWorkflow(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", w.Name, w.State)
		return nil
	},
}

var workflowDeleteCmd = &cobra.Command{
	Use:   "delete [workflow-id]",
	Short: "Delete a workflow (irreversible)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete workflow '%s'? This cannot be undone.\nType 'yes' to confirm: ", args[0])
			var confirmation string
			_, _ = fmt.Fscanln(cmd.InOrStdin(), &confirmation)
			if confirmation != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled.")
				return nil
			}
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.DeleteWorkflow(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Workflow deleted.")
		return nil
	},
}

var workflowTestCmd = &cobra.Command{
	Use:   "test [workflow-id] [test-email]",
	Short: "Render a workflow with sample data and send it to one address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := testData(cmd)
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		if err := c.SendTest(args[0], args[1], data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Test email sent to %s\n", args[1])
		return nil
	},
}

var workflowTriggerCmd = &cobra.Command{
	Use:   "trigger [signup|renewal]",
	Short: "Fire a membership event and report what each workflow did",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := testData(cmd)
		if err != nil {
			return err
		}
		member, _ := cmd.Flags().GetString("member-id")
		c, err := newClient()
		if err != nil {
			return err
		}
		r, err := c.Trigger(args[0], member, vars)
		if err != nil {
			return err
		}
		if outputFmt != "table" {
			return formatOutput(cmd.OutOrStdout(), r)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "event=%s matched=%d delivered=%d failed=%d\n", r.Event, r.Matched, r.Delivered, r.Failed)
		for _, o := range r.Outcomes {
			fmt.Fprintf(out, "  %s: %d/%d delivered\n", o.Name, o.Delivered, o.Recipients)
			for _, e := range o.Errors {
				fmt.Fprintf(out, "    error: %s\n", e)
			}
		}
		return nil
	},
}

func init() {
	workflowCmd.AddCommand(workflowListCmd, workflowGetCmd, workflowCreateCmd, workflowToggleCmd,
		workflowDeleteCmd, workflowTestCmd, workflowTriggerCmd)

	f := workflowCreateCmd.Flags()
	f.String("description", "", "free-text description")
	f.String("trigger", "signup", "trigger event (signup, renewal, both)")
	f.String("recipient-type", "email", "recipient type (email, position, all_members)")
	f.String("recipient-email", "", "recipient address for --recipient-type email")
	f.String("position-id", "", "committee position UUID for --recipient-type position")
	f.String("subject", "", "email subject, may contain {{variables}}")
	f.String("body", "", "email body, may contain {{variables}}")
	f.Bool("disabled", false, "create the workflow disabled")

	workflowDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	for _, c := range []*cobra.Command{workflowTestCmd, workflowTriggerCmd} {
		c.Flags().StringArray("var", nil, "template variable as key=value (repeatable)")
		c.Flags().String("first-name", "", "shortcut for --var first_name=...")
		c.Flags().String("last-name", "", "shortcut for --var last_name=...")
		c.Flags().String("membership-type", "", "shortcut for --var membership_type=...")
	}
	workflowTriggerCmd.Flags().String("member-id", "", "member whose profile supplies the variables")
}

// testData collects --var pairs and the name shortcuts. Keys left out are
// filled server-side for test sends.
func testData(cmd *cobra.Command) (map[string]string, error) {
	out := map[string]string{}
	pairs, _ := cmd.Flags().GetStringArray("var")
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --var %q, want key=value", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	for flag, key := range map[string]string{
		"first-name":      wdomain.VarFirstName,
		"last-name":       wdomain.VarLastName,
		"membership-type": wdomain.VarMembershipType,
	} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			out[key] = v
		}
	}
	return out, nil
}

func recipientLabel(w WorkflowResponse) string {
	switch w.RecipientType {
	case "email":
		return w.RecipientEmail
	case "position":
		if w.RecipientPositionName != "" {
			return "position " + w.RecipientPositionName
		}
		return "position " + w.RecipientPositionID
	default:
		return w.RecipientType
	}
}

func printWorkflows(out io.Writer, items []WorkflowResponse) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTRIGGER\tRECIPIENT\tSTATE")
	for _, w := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", w.ID, w.Name, w.TriggerEvent, recipientLabel(w), w.State)
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "\nTotal: %d workflows\n", len(items))
}
