// filepath: internal/cli/jobs.go
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photovault/internal/jobs"
	"photovault/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// pollInterval is how often a foreground job refreshes its progress bar.
const pollInterval = 200 * time.Millisecond

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile vault catalogs with the folders on disk",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultID, err := optionalID(cmd, "vault")
		if err != nil {
			return err
		}
		return runJob(cmd, func(a *app) (*jobs.Job, error) {
			return a.jobs.StartSync(vaultID)
		})
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Discover images under the vaults or an arbitrary directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vaultID, err := optionalID(cmd, "vault")
		if err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("path")
		return runJob(cmd, func(a *app) (*jobs.Job, error) {
			return a.jobs.StartScan(models.ScanRequest{VaultID: vaultID, Path: path})
		})
	},
}

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Carry out pending album assignments and trash / not-sure marks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var req models.OrganizeRequest
		if cmd.Flags().Changed("delete-originals") {
			deleteOriginals, _ := cmd.Flags().GetBool("delete-originals")
			req.DeleteOriginals = &deleteOriginals
		}
		return runJob(cmd, func(a *app) (*jobs.Job, error) {
			return a.jobs.StartOrganize(req)
		})
	},
}

var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails",
	Short: "Regenerate thumbnails",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, _ := cmd.Flags().GetString("scope")
		return runJob(cmd, func(a *app) (*jobs.Job, error) {
			return a.jobs.StartThumbnails(scope)
		})
	},
}

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Inspect or empty the trash folders",
}

var trashInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what the trash folders hold",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		info, err := a.trash.GetTrashInfo()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, loc := range info.Locations {
			fmt.Fprintf(out, "%s: %d file(s), %s\n", loc.Path, loc.Count, humanize.Bytes(uint64(loc.TotalBytes)))
		}
		fmt.Fprintf(out, "Total: %d file(s), %s\n", info.Count, humanize.Bytes(uint64(info.TotalBytes)))
		return nil
	},
}

var trashEmptyCmd = &cobra.Command{
	Use:   "empty",
	Short: "Permanently delete everything in the trash folders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.trash.EmptyTrash()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Removed %d, failed %d, freed %s.\n",
			report.Message, report.Removed, report.Failed, humanize.Bytes(uint64(report.FreedBytes)))
		return nil
	},
}

func init() {
	syncCmd.Flags().Int64("vault", 0, "Only sync this vault")
	scanCmd.Flags().Int64("vault", 0, "Only scan this vault")
	scanCmd.Flags().String("path", "", "Scan an arbitrary directory instead of the vaults")
	organizeCmd.Flags().Bool("delete-originals", false, "Move files instead of copying them (defaults to organize.delete_originals)")
	thumbnailsCmd.Flags().String("scope", "visible", "Which images to regenerate: 'visible' or 'all'")

	trashCmd.AddCommand(trashInfoCmd, trashEmptyCmd)
	RootCmd.AddCommand(syncCmd, scanCmd, organizeCmd, thumbnailsCmd, trashCmd)
}

// optionalID reads an id flag; an unset flag yields nil.
func optionalID(cmd *cobra.Command, name string) (*int64, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	id, _ := cmd.Flags().GetInt64(name)
	if id <= 0 {
		return nil, fmt.Errorf("invalid --%s: %d", name, id)
	}
	return &id, nil
}

// runJob starts a job in the foreground, renders its progress and cancels it
// on interrupt.
func runJob(cmd *cobra.Command, start func(a *app) (*jobs.Job, error)) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	job, err := start(a)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := followJob(ctx, job, cmd.ErrOrStderr())
	return reportJob(cmd.OutOrStdout(), status)
}

// followJob polls job until it finishes, mirroring its progress on w.
// Cancelling ctx cancels the job and waits for it to wind down.
func followJob(ctx context.Context, job *jobs.Job, w io.Writer) models.JobStatus {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(string(job.Kind)),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Finish()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-job.Done():
			return job.Status()
		case <-ctx.Done():
			job.Cancel()
			<-job.Done()
			return job.Status()
		case <-ticker.C:
			st := job.Status()
			if st.Total > 0 {
				bar.ChangeMax(st.Total)
				_ = bar.Set(st.Completed)
			}
			if st.CurrentItem != "" {
				bar.Describe(fmt.Sprintf("%s %s", job.Kind, st.CurrentItem))
			}
		}
	}
}

// reportJob prints the outcome of a finished job. Failed jobs return an error.
func reportJob(w io.Writer, st models.JobStatus) error {
	fmt.Fprintf(w, "%s %s: %d/%d item(s)", st.Kind, st.State, st.Completed, st.Total)
	if len(st.Errors) > 0 {
		fmt.Fprintf(w, ", %d error(s)", len(st.Errors))
	}
	fmt.Fprintln(w)
	for _, e := range st.Errors {
		fmt.Fprintf(w, "  %s: %s\n", e.Path, e.Reason)
	}
	if st.State == models.JobStateFailed {
		return fmt.Errorf("%s job failed: %s", st.Kind, st.Fatal)
	}
	return nil
}
