package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"studentz/pkg/client"
	"studentz/pkg/imagenorm"
	"studentz/pkg/submission"
	"studentz/pkg/validate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reportIn  validate.ReportInput
	memberIn  validate.MemberInput
	photoPath string
	photoOut  string
	listLimit int
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the API is up",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Submit and list problem reports",
}

var reportSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a problem report",
	Args:  cobra.NoArgs,
	RunE:  runReportSubmit,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent reports, newest first",
	Args:  cobra.NoArgs,
	RunE:  runReportList,
}

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Register members and print ID cards",
}

var memberRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a community member",
	Args:  cobra.NoArgs,
	RunE:  runMemberRegister,
}

var memberListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent members, newest first",
	Args:  cobra.NoArgs,
	RunE:  runMemberList,
}

var memberCardCmd = &cobra.Command{
	Use:   "card <member-id>",
	Short: "Print the ID card of a local or server member",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemberCard,
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Manage registrations saved locally while offline",
}

var pendingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List locally saved members",
	Args:  cobra.NoArgs,
	RunE:  runPendingList,
}

var pendingDeleteCmd = &cobra.Command{
	Use:   "delete <member-id>",
	Short: "Remove a locally saved member",
	Args:  cobra.ExactArgs(1),
	RunE:  runPendingDelete,
}

var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Photo helpers",
}

var photoCompressCmd = &cobra.Command{
	Use:   "compress <file>",
	Short: "Resize and compress a photo the way registration does",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhotoCompress,
}

func runHealth(cmd *cobra.Command, args []string) error {
	h, err := newClient().Health(commandContext(cmd))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok=%t time=%s\n", h.OK, h.Time)
	return nil
}

func runReportSubmit(cmd *cobra.Command, args []string) error {
	in := reportIn
	in.Details = validate.TrimDetails(in.Details)

	w := submission.New(newClient(), nil)
	w.Timeout = timeout
	s, err := w.Run(commandContext(cmd), submission.ReportDraft(in))
	if err != nil {
		return err
	}
	logger.Debug("report submission finished", zap.String("phase", string(s.Phase)), zap.String("preview_id", s.PreviewID))
	return printOutcome(cmd.OutOrStdout(), s)
}

func runReportList(cmd *cobra.Command, args []string) error {
	reports, err := newClient().ListReports(commandContext(cmd), listLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(reports) == 0 {
		fmt.Fprintln(out, "No reports yet.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REFERENCE\tCREATED\tCOLLEGE\tCATEGORY\tDETAILS")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ReferenceID, r.CreatedAt.Local().Format(time.DateTime), r.College, r.Category, shorten(r.Details, 40))
	}
	return tw.Flush()
}

func runMemberRegister(cmd *cobra.Command, args []string) error {
	in := memberIn
	if photoPath != "" {
		res, err := compressFile(photoPath)
		if err != nil {
			return err
		}
		in.Photo = res.DataURL
	}

	cache, err := openCache()
	if err != nil {
		return err
	}
	w := submission.New(newClient(), cache)
	w.Timeout = timeout
	s, err := w.Run(commandContext(cmd), submission.MemberDraft(in))
	if err != nil {
		return err
	}
	logger.Debug("member registration finished",
		zap.String("phase", string(s.Phase)),
		zap.Bool("saved_locally", s.SavedLocally))

	if err := printOutcome(cmd.OutOrStdout(), s); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return renderCard(cmd.OutOrStdout(), *s.Member, time.Now())
}

func runMemberList(cmd *cobra.Command, args []string) error {
	members, err := newClient().ListMembers(commandContext(cmd), listLimit)
	if err != nil {
		return err
	}
	return printMembers(cmd.OutOrStdout(), members, "No members yet.")
}

// memberIDArg accepts member IDs typed in any case or with stray spaces.
func memberIDArg(args []string) string {
	return strings.ToUpper(strings.TrimSpace(args[0]))
}

func runMemberCard(cmd *cobra.Command, args []string) error {
	id := memberIDArg(args)

	cache, err := openCache()
	if err != nil {
		return err
	}
	local, err := cache.List()
	if err != nil {
		return err
	}
	for _, m := range local {
		if m.MemberID == id {
			return renderCard(cmd.OutOrStdout(), m, time.Now())
		}
	}

	members, err := newClient().ListMembers(commandContext(cmd), 200)
	if err != nil {
		return fmt.Errorf("member %s is not in the local cache and the server is unavailable: %w", id, err)
	}
	for _, m := range members {
		if m.MemberID == id {
			return renderCard(cmd.OutOrStdout(), m, time.Now())
		}
	}
	return fmt.Errorf("member %s not found", id)
}

func runPendingList(cmd *cobra.Command, args []string) error {
	cache, err := openCache()
	if err != nil {
		return err
	}
	members, err := cache.List()
	if err != nil {
		return err
	}
	return printMembers(cmd.OutOrStdout(), members, "No locally saved members.")
}

func runPendingDelete(cmd *cobra.Command, args []string) error {
	id := memberIDArg(args)

	cache, err := openCache()
	if err != nil {
		return err
	}
	ok, err := cache.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no local member with ID %s", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
	return nil
}

func runPhotoCompress(cmd *cobra.Command, args []string) error {
	res, err := compressFile(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%dx%d quality=%d size=%d bytes\n", res.Width, res.Height, res.Quality, res.EstimatedBytes)

	if photoOut == "" {
		return nil
	}
	raw, err := imagenorm.DecodeDataURL(res.DataURL)
	if err != nil {
		return err
	}
	if err := os.WriteFile(photoOut, raw, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", photoOut)
	return nil
}

func compressFile(path string) (*imagenorm.Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := imagenorm.Normalize(src, imagenorm.DefaultOptions())
	switch {
	case errors.Is(err, imagenorm.ErrSourceTooLarge):
		return nil, errors.New("Image is too large. Please upload an image smaller than 5MB.")
	case errors.Is(err, imagenorm.ErrOverBudget):
		return nil, errors.New("Photo is too large even after compression. Try a smaller image.")
	case errors.Is(err, imagenorm.ErrUndecodable):
		return nil, errors.New("Could not read image. Try another file.")
	case err != nil:
		return nil, err
	}
	logger.Debug("photo compressed",
		zap.Int("width", res.Width),
		zap.Int("height", res.Height),
		zap.Int("quality", res.Quality),
		zap.Int("bytes", res.EstimatedBytes))
	return res, nil
}

// printOutcome prints the notice and turns failed or invalid states into errors
// so the exit code reflects the outcome.
func printOutcome(w io.Writer, s submission.State) error {
	switch s.Phase {
	case submission.PhaseInvalid:
		for _, v := range s.Violations {
			fmt.Fprintf(w, "  - %s\n", v)
		}
		return errors.New("form has errors")
	case submission.PhaseFailed:
		if s.Retryable {
			return fmt.Errorf("%s (you can retry)", s.Error)
		}
		return errors.New(s.Error)
	}
	if s.Notice != nil {
		fmt.Fprintln(w, s.Notice.Message)
	}
	return nil
}

func printMembers(w io.Writer, members []client.Member, empty string) error {
	if len(members) == 0 {
		fmt.Fprintln(w, empty)
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MEMBER ID\tNAME\tCOLLEGE\tSTATUS\tCREATED")
	for _, m := range members {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.MemberID, m.Name, m.College, m.Status, m.CreatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
