// Package screens renders the terminal views of the wallet, one per screen
// of the mobile app. Each renderer fetches what it needs, hands raw fields to
// the metrics deriver and writes plain text to an io.Writer. Screens depend
// on the session manager and API client; nothing depends on screens.
package screens

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tobiusaolo/Cariya-wallet/api"
	"github.com/tobiusaolo/Cariya-wallet/config"
	"github.com/tobiusaolo/Cariya-wallet/metrics"
	"github.com/tobiusaolo/Cariya-wallet/models"
	"github.com/tobiusaolo/Cariya-wallet/session"
)

// ErrNotSignedIn is returned by authenticated screens when no session exists.
var ErrNotSignedIn = errors.New("screens: not signed in, run `login` or `register` first")

// Deps is everything a screen needs. Screens receive read-only access to the
// session through the manager's accessors.
type Deps struct {
	Client  *api.Client
	Session *session.Manager
	Cfg     *config.Config
}

func (d Deps) requireUser() (string, error) {
	if !d.Session.Authenticated() {
		return "", ErrNotSignedIn
	}
	return d.Session.UserID(), nil
}

// fetchFailed formats a network failure the way every screen reports one:
// the server's detail when present, a generic line otherwise, always with the
// manual retry hint. No automatic retries happen anywhere in the client.
func fetchFailed(w io.Writer, err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: %s\nRun the command again to retry.\n", apiErr.UserMessage())
		return err
	}
	fmt.Fprintf(w, "Error: could not reach the server.\nRun the command again to retry.\n")
	return err
}

// Dashboard renders the credit score, balance and milestone rollup.
func Dashboard(ctx context.Context, d Deps, w io.Writer) error {
	userID, err := d.requireUser()
	if err != nil {
		return err
	}
	snap, err := d.Client.GetUser(ctx, userID)
	if err != nil {
		return fetchFailed(w, err)
	}

	score, err := metrics.CreditScore(snap.TotalSavings, d.Cfg.TargetSavings)
	if err != nil {
		return err
	}
	status := metrics.StatusForScore(score)
	balance := metrics.AccountBalance(snap.TotalSavings, d.Cfg.ConversionRate)
	compliance := metrics.ComplianceProgress(snap.ComplianceScore)
	rollup := metrics.Rollup(snap.MonthlyData)

	fmt.Fprintf(w, "Welcome back, %s %s\n\n", snap.FirstName, snap.Surname)
	fmt.Fprintf(w, "Credit score   %d / %d (%s)\n", score, metrics.MaxCreditScore, status)
	fmt.Fprintf(w, "Balance        UGX %.0f\n", balance)
	fmt.Fprintf(w, "Savings        %.2f\n", snap.TotalSavings)
	fmt.Fprintf(w, "Compliance     %s (%.0f%%)\n", snap.ComplianceScore, compliance*100)
	fmt.Fprintf(w, "Activity pts   %d\n\n", snap.ActivityPoints)

	fmt.Fprintf(w, "Milestones (%d/12)\n", rollup.TotalMilestones)
	for _, m := range rollup.Months {
		mark := " "
		if m.Milestone {
			mark = "*"
		}
		fmt.Fprintf(w, "  %s [%s] %8.2f\n", m.Name, mark, m.Savings)
	}
	return nil
}

// Savings renders the savings overview and mini statements.
func Savings(ctx context.Context, d Deps, w io.Writer) error {
	userID, err := d.requireUser()
	if err != nil {
		return err
	}
	overview, err := d.Client.GetSavings(ctx, userID)
	if err != nil {
		return fetchFailed(w, err)
	}
	statements, err := d.Client.GetStatements(ctx, userID)
	if err != nil {
		return fetchFailed(w, err)
	}

	fmt.Fprintf(w, "Total savings  %.2f\n", overview.TotalSavings)
	if overview.TargetSavings > 0 {
		fmt.Fprintf(w, "Target         %.2f (monthly %.2f)\n", overview.TargetSavings, overview.TargetSavings/12)
	}
	fmt.Fprintf(w, "\nMini statements\n")
	if len(statements) == 0 {
		fmt.Fprintln(w, "  (none yet)")
		return nil
	}
	for _, s := range statements {
		fmt.Fprintf(w, "  %-12s %10.2f  %s\n", s.Date, s.Amount, s.Activity)
	}
	return nil
}

// AddSavings validates and records a savings installment.
func AddSavings(ctx context.Context, d Deps, w io.Writer, entry models.SavingsEntry) error {
	userID, err := d.requireUser()
	if err != nil {
		return err
	}
	if entry.Amount <= 0 {
		return errors.New("screens: amount must be greater than 0")
	}
	if entry.Activity == "" {
		entry.Activity = "general"
	}
	if err := d.Client.AddSavings(ctx, userID, entry); err != nil {
		return fetchFailed(w, err)
	}
	fmt.Fprintf(w, "Saved %.2f (%s)\n", entry.Amount, entry.Activity)
	return nil
}

// Donors renders the donor discovery list, largest contributors first.
func Donors(ctx context.Context, d Deps, w io.Writer) error {
	view, err := d.Client.DonorView(ctx)
	if err != nil {
		return fetchFailed(w, err)
	}
	donors := view.DonorView
	if len(donors) == 0 {
		fmt.Fprintln(w, "No donors found.")
		return nil
	}
	sort.SliceStable(donors, func(i, j int) bool {
		return donors[i].TotalDonorContributions > donors[j].TotalDonorContributions
	})
	for _, donor := range donors {
		fmt.Fprintf(w, "%s %s\n", donor.FirstName, donor.Surname)
		fmt.Fprintf(w, "  savings %.2f  donated %.2f\n", donor.TotalUserSavings, donor.TotalDonorContributions)
	}
	return nil
}

// Compliance renders the annual compliance standing.
func Compliance(ctx context.Context, d Deps, w io.Writer) error {
	userID, err := d.requireUser()
	if err != nil {
		return err
	}
	resp, err := d.Client.GetCompliance(ctx, userID)
	if err != nil {
		return fetchFailed(w, err)
	}
	progress := metrics.ComplianceProgress(resp.ComplianceScore)
	fmt.Fprintf(w, "%s %s\n", resp.FirstName, resp.Surname)
	fmt.Fprintf(w, "Compliance %s (%.0f%%)\n", resp.ComplianceScore, progress*100)
	fmt.Fprintf(w, "%s\n", progressBar(progress, 24))
	return nil
}

func progressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// Activity logs a monthly activity and reports the updated scores.
func Activity(ctx context.Context, d Deps, w io.Writer, activity models.MonthlyActivity) error {
	userID, err := d.requireUser()
	if err != nil {
		return err
	}
	if activity.Activity == "" {
		return errors.New("screens: activity description is required")
	}
	if activity.Month < 1 || activity.Month > 12 {
		return errors.New("screens: month must be between 1 and 12")
	}
	resp, err := d.Client.AddActivity(ctx, userID, activity)
	if err != nil {
		return fetchFailed(w, err)
	}
	fmt.Fprintf(w, "%s\n", resp.Message)
	fmt.Fprintf(w, "Activity points %d, compliance %s\n", resp.ActivityPoints, resp.ComplianceScore)
	return nil
}

// Profile renders the user snapshot alongside the compliance standing.
func Profile(ctx context.Context, d Deps, w io.Writer) error {
	userID, err := d.requireUser()
	if err != nil {
		return err
	}
	snap, err := d.Client.GetUser(ctx, userID)
	if err != nil {
		return fetchFailed(w, err)
	}
	compliance, err := d.Client.GetCompliance(ctx, userID)
	if err != nil {
		return fetchFailed(w, err)
	}

	fmt.Fprintf(w, "%s %s\n", snap.FirstName, snap.Surname)
	fmt.Fprintf(w, "User ID        %s\n", userID)
	fmt.Fprintf(w, "Total savings  %.2f\n", snap.TotalSavings)
	fmt.Fprintf(w, "Milestones     %d\n", snap.MilestoneScore)
	fmt.Fprintf(w, "Compliance     %s\n", compliance.ComplianceScore)
	if info := d.Session.UserInfo(); info != nil {
		if mobile, ok := info["mobileNumber"].(string); ok && mobile != "" {
			fmt.Fprintf(w, "Mobile         %s\n", mobile)
		}
	}
	return nil
}

// EditProfile validates and submits a profile update.
func EditProfile(ctx context.Context, d Deps, w io.Writer, form models.Registration) error {
	userID, err := d.requireUser()
	if err != nil {
		return err
	}
	if err := d.Client.UpdateProfile(ctx, userID, form); err != nil {
		return fetchFailed(w, err)
	}
	fmt.Fprintln(w, "Profile updated.")
	return nil
}
