// Command journal is the terminal client for the mistake journal API. It
// mirrors the data-view behavior of the original browser client: the full
// record set is fetched once, then searched, filtered and paginated locally.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/mistake-journal/internal/client"
	"github.com/noah-isme/mistake-journal/internal/review"
	"github.com/noah-isme/mistake-journal/internal/service"
	"github.com/noah-isme/mistake-journal/internal/view"
)

var (
	serverURL string
	authToken string

	searchTerm   string
	statusFilter string
	pageNum      int
	pageSize     int

	inDate     string
	inIssue    string
	inContext  string
	inFeedback string
	inLearned  string
	inPlan     string
	inStatus   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "journal",
		Short:         "Log, search and review your mistake journal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "journal API base URL")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Verify a bearer token and store it for later use",
		RunE:  runLogin,
	}
	loginCmd.Flags().StringVar(&authToken, "token", "", "bearer token")
	_ = loginCmd.MarkFlagRequired("token")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored bearer token",
		RunE:  runLogout,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List records with search, status filter and pagination",
		RunE:  runList,
	}
	listCmd.Flags().StringVar(&searchTerm, "search", "", "case-insensitive search term")
	listCmd.Flags().StringVar(&statusFilter, "status", view.StatusAll, "status filter (all, In progress, Resolved, Ongoing)")
	listCmd.Flags().IntVar(&pageNum, "page", 1, "page number")
	listCmd.Flags().IntVar(&pageSize, "page-size", view.DefaultPageSize, "records per page")

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Log a new mistake",
		RunE:  runAdd,
	}
	registerInputFlags(addCmd)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the fields of an existing record",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpdate,
	}
	registerInputFlags(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record permanently",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show journal statistics",
		RunE:  runStats,
	}

	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Show the weekly review digest",
		RunE:  runReview,
	}

	rootCmd.AddCommand(loginCmd, logoutCmd, listCmd, addCmd, updateCmd, deleteCmd, statsCmd, reviewCmd)

	if err := rootCmd.Execute(); err != nil {
		if client.IsAuthError(err) {
			fmt.Fprintln(os.Stderr, "Authentication required. Run 'journal login --token <token>' first.")
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func registerInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&inDate, "date", time.Now().Format("2006-01-02"), "mistake date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&inIssue, "issue", "", "what went wrong")
	cmd.Flags().StringVar(&inContext, "context", "", "context or situation")
	cmd.Flags().StringVar(&inFeedback, "feedback", "", "mentor feedback (optional)")
	cmd.Flags().StringVar(&inLearned, "learned", "", "what was learned")
	cmd.Flags().StringVar(&inPlan, "plan", "", "plan to improve")
	cmd.Flags().StringVar(&inStatus, "status", "In progress", "status (In progress, Resolved, Ongoing)")
}

func inputFromFlags() service.MistakeInput {
	return service.MistakeInput{
		MistakeDate:      inDate,
		MistakeIssue:     inIssue,
		ContextSituation: inContext,
		MentorFeedback:   inFeedback,
		WhatLearned:      inLearned,
		PlanImprove:      inPlan,
		Status:           inStatus,
	}
}

func newClient() (*client.Client, *client.TokenStore, error) {
	store, err := client.NewTokenStore()
	if err != nil {
		return nil, nil, err
	}
	token, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	return client.New(serverURL, token), store, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	store, err := client.NewTokenStore()
	if err != nil {
		return err
	}
	c := client.New(serverURL, authToken)
	if err := c.TestAuth(cmd.Context()); err != nil {
		if client.IsAuthError(err) {
			return errors.New("authentication failed: the token was rejected")
		}
		return err
	}
	if err := store.Save(authToken); err != nil {
		return err
	}
	fmt.Println("Authentication successful. Token stored.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	store, err := client.NewTokenStore()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	records, err := c.Records(cmd.Context())
	if err != nil {
		return err
	}

	state := view.NewState(records).
		WithSearch(searchTerm).
		WithStatus(statusFilter).
		WithPageSize(pageSize).
		WithPage(pageNum)
	v := view.Compute(state)

	if v.FilteredCount == 0 {
		fmt.Println("No mistakes found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tISSUE\tSTATUS\tLEARNED")
	for _, rec := range v.Slice {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			rec.ID, rec.MistakeDate, truncate(rec.MistakeIssue, 40), rec.Status, truncate(rec.WhatLearned, 40))
	}
	w.Flush()

	start := (v.Page-1)*state.PageSize + 1
	end := start + len(v.Slice) - 1
	fmt.Printf("Showing %d-%d of %d mistakes (page %d/%d)\n", start, end, v.FilteredCount, v.Page, v.PageCount)

	total, resolved, rate := view.Stats(records)
	fmt.Printf("Total: %d  Resolved: %d  Progress: %d%%\n", total, resolved, rate)
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	id, err := c.Add(cmd.Context(), inputFromFlags())
	if err != nil {
		return err
	}
	fmt.Printf("Mistake added with id %d.\n", id)
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}
	c, _, err := newClient()
	if err != nil {
		return err
	}
	if err := c.Update(cmd.Context(), id, inputFromFlags()); err != nil {
		return err
	}
	fmt.Printf("Mistake %d updated.\n", id)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}
	c, _, err := newClient()
	if err != nil {
		return err
	}
	if err := c.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Mistake %d deleted.\n", id)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	stats, err := c.Stats(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Total mistakes:  %d\n", stats.Total)
	fmt.Printf("Resolved:        %d\n", stats.Resolved)
	fmt.Printf("Progress rate:   %d%%\n", stats.ProgressRate)
	fmt.Printf("Last 7 days:     %d\n", stats.Recent)
	if len(stats.ByStatus) > 0 {
		fmt.Println("By status:")
		for _, sc := range stats.ByStatus {
			fmt.Printf("  %-12s %d\n", sc.Status, sc.Count)
		}
	}
	return nil
}

func runReview(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	records, err := c.Records(cmd.Context())
	if err != nil {
		return err
	}

	digest := review.Synthesize(records, time.Now())
	if digest.Empty() {
		fmt.Println("No activity this week. Keep up the great work!")
		return nil
	}

	fmt.Printf("This week: %d mistakes logged, %d resolved\n", digest.RecentCount, len(digest.RecentlyResolved))
	if len(digest.Patterns) > 0 {
		fmt.Println("Patterns detected:")
		for _, p := range digest.Patterns {
			fmt.Printf("  %s (%d occurrences)\n", p.Category, p.Count)
		}
	}
	if len(digest.RecentlyResolved) > 0 {
		fmt.Println("Recently resolved:")
		for _, rec := range digest.RecentlyResolved {
			fmt.Printf("  %s (resolved, %s)\n", rec.MistakeIssue, rec.MistakeDate)
		}
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
