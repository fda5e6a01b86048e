package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/krsacme/ansible-modules-extras/pkg/db"
	"github.com/krsacme/ansible-modules-extras/pkg/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	historyImage string
	historyID    string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled invocations, newest first",
	Long: `Lists the invocations recorded in the journal configured with --history-db:
  --image <name>   Only show invocations for one image
  --id <id>        Show a single invocation by its full ID
  --limit <n>      Show at most n records (0 for all)`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyImage, "image", "", "Only show invocations for this image")
	historyCmd.Flags().StringVar(&historyID, "id", "", "Show the invocation with this ID")
	historyCmd.Flags().Int("limit", 20, "Maximum number of records (0 for all)")

	viper.BindPFlag("history-limit", historyCmd.Flags().Lookup("limit"))
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.JournalEnabled() {
		return fmt.Errorf("history-db is not configured")
	}

	repo, err := db.NewRepository(cfg.HistoryDB)
	if err != nil {
		return errors.Wrap(err, "db init failed")
	}
	defer repo.Close()

	invocations, err := listHistory(cmd.Context(), repo, historyID, historyImage, cfg.HistoryLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(invocations) == 0 {
		fmt.Fprintln(out, "No invocations found")
		return nil
	}

	renderHistory(out, invocations)
	return nil
}

// listHistory selects journal records: one by ID, those of one image, or
// the most recent ones.
func listHistory(ctx context.Context, repo *db.Repository, id, image string, limit int) ([]*db.Invocation, error) {
	if id != "" {
		inv, err := repo.Get(ctx, id)
		if err != nil {
			return nil, errors.Wrap(err, "get failed")
		}
		if inv == nil {
			return nil, fmt.Errorf("invocation %s not found", id)
		}
		return []*db.Invocation{inv}, nil
	}

	var invocations []*db.Invocation
	var err error
	if image != "" {
		invocations, err = repo.ListByImage(ctx, image, limit)
	} else {
		invocations, err = repo.List(ctx, limit)
	}
	if err != nil {
		return nil, errors.Wrap(err, "list failed")
	}
	return invocations, nil
}

func renderHistory(out io.Writer, invocations []*db.Invocation) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "IMAGE", "STATE", "UPGRADE", "OUTCOME", "RC", "CREATED", "MESSAGE"})
	table.SetAutoWrapText(false)

	for _, inv := range invocations {
		id := inv.ID
		if len(id) > 8 {
			id = id[:8]
		}
		rc := "-"
		if inv.Failed {
			rc = strconv.Itoa(inv.RC)
		}
		table.Append([]string{
			id,
			inv.Image,
			inv.State,
			strconv.FormatBool(inv.Upgrade),
			inv.Outcome(),
			rc,
			inv.CreatedAt,
			summarize(inv.Message, 40),
		})
	}

	table.Render()
}

// summarize returns the first line of s, cut to at most n runes.
func summarize(s string, n int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if r := []rune(s); len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}
