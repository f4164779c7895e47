package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ledgerdesk/internal/analytics"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Show the reporting hierarchy",
	Args:  cobra.NoArgs,
	RunE:  runTeam,
}

func init() {
	rootCmd.AddCommand(teamCmd)
}

func runTeam(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	roots, err := client.GetHierarchy(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, RenderTitle("TEAM"))
	fmt.Fprintln(out)
	if len(roots) == 0 {
		fmt.Fprintln(out, RenderEmpty("users"))
		return nil
	}
	fmt.Fprint(out, renderTree(roots))
	return nil
}

// renderTree draws the hierarchy with box-drawing branches, one user per line.
func renderTree(roots []*analytics.TreeNode) string {
	var b strings.Builder
	for _, root := range roots {
		b.WriteString("  ")
		b.WriteString(nodeLabel(root))
		b.WriteString("\n")
		writeChildren(&b, root.Children, "  ")
	}
	return b.String()
}

func writeChildren(b *strings.Builder, children []*analytics.TreeNode, prefix string) {
	for i, child := range children {
		branch, indent := "├──", mutedStyle.Render("│")+"   "
		if i == len(children)-1 {
			branch, indent = "└──", "    "
		}
		b.WriteString(prefix)
		b.WriteString(mutedStyle.Render(branch))
		b.WriteString(" ")
		b.WriteString(nodeLabel(child))
		b.WriteString("\n")
		writeChildren(b, child.Children, prefix+indent)
	}
}

func nodeLabel(n *analytics.TreeNode) string {
	label := n.Name
	if label == "" {
		label = n.Email
	}
	if n.Role != "" {
		label += " " + mutedStyle.Render("("+n.Role+")")
	}
	return label
}
