package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bz888/loanchat/internal/profile"
	"github.com/rivo/tview"
)

// formatRupees groups digits the Indian way: 12,34,567.
func formatRupees(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		groups = append([]string{head}, groups...)
		s = strings.Join(groups, ",") + "," + tail
	}
	if neg {
		return "-₹" + s
	}
	return "₹" + s
}

func renderProfile(view *profile.View) string {
	if !view.LoggedIn {
		return "Not logged in.\n\nPress [yellow]F4[-] to log in or [yellow]F5[-] to sign up."
	}

	var b strings.Builder
	if view.Stale {
		fmt.Fprintf(&b, "[yellow]Could not refresh your profile (%s). Showing saved details.[-]\n\n",
			tview.Escape(errorText(view.ProfileErr)))
	}

	c := view.Customer
	rows := [][2]string{
		{"Name", c.Name},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"City", c.City},
		{"Age", strconv.Itoa(c.Age)},
		{"Monthly salary", formatRupees(c.Salary)},
		{"PAN", c.PANNumber},
		{"Aadhaar", c.AadhaarNumber},
		{"Credit score", strconv.Itoa(c.CreditScore)},
		{"Pre-approved limit", formatRupees(c.PreapprovedLimit)},
		{"Existing loans", strconv.Itoa(c.ExistingLoans)},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "[::b]%-20s[::-] %s\n", row[0], tview.Escape(row[1]))
	}

	b.WriteString("\n[::u]Your loans[::-]\n")
	switch {
	case view.LoansErr != nil:
		fmt.Fprintf(&b, "[red]Could not load loans: %s[-]\n", tview.Escape(errorText(view.LoansErr)))
	case len(view.Loans) == 0:
		b.WriteString("No loans yet.\n")
	}
	for _, loan := range view.Loans {
		fmt.Fprintf(&b, "\n[yellow]%s[-] (%s, %s)\n", tview.Escape(loan.Name), tview.Escape(loan.Type), tview.Escape(loan.Status))
		fmt.Fprintf(&b, "  %s at %.2f%% for %d months\n", formatRupees(loan.Amount), loan.InterestRate, loan.TenureMonths)
		if loan.EMI != nil {
			fmt.Fprintf(&b, "  EMI %s\n", formatRupees(*loan.EMI))
		}
		if loan.Purpose != nil {
			fmt.Fprintf(&b, "  Purpose: %s\n", tview.Escape(*loan.Purpose))
		}
		if loan.SanctionLetterPath != nil {
			fmt.Fprintf(&b, "  Sanction letter: %s (/download %s)\n", tview.Escape(*loan.SanctionLetterPath), tview.Escape(*loan.SanctionLetterPath))
		}
	}
	return b.String()
}

type profilePage struct {
	s *screens

	root    *tview.Flex
	details *tview.TextView
	buttons *tview.Form
}

func newProfilePage(s *screens) *profilePage {
	p := &profilePage{s: s}
	p.details = tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	p.details.SetScrollable(true)
	p.details.SetTitle("Profile").SetBorder(true)

	p.buttons = tview.NewForm().
		AddButton("Go to chat", func() { s.show(pageChat) }).
		AddButton("Refresh", p.refresh).
		AddButton("Logout", p.logout)
	p.buttons.SetButtonsAlign(tview.AlignLeft)

	p.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(p.details, 0, 1, false).
		AddItem(p.buttons, 3, 0, true)
	return p
}

func (p *profilePage) refresh() {
	p.details.SetText("Loading profile...")
	ctx := p.s.ctx
	go func() {
		view, err := p.s.deps.Profile.Load(ctx)
		app.QueueUpdateDraw(func() {
			if err != nil {
				localLogger.Error("Failed to load profile:", err)
				p.details.SetText("[red]" + tview.Escape(err.Error()) + "[-]")
				return
			}
			p.details.SetText(renderProfile(view))
		})
	}()
}

func (p *profilePage) logout() {
	ctx := p.s.ctx
	go func() {
		err := p.s.deps.Auth.Logout(ctx)
		if err == nil {
			err = p.s.deps.Chat.Reset(ctx)
		}
		app.QueueUpdateDraw(func() {
			if err != nil {
				localLogger.Error("Logout failed:", err)
				p.details.SetText("[red]" + tview.Escape(err.Error()) + "[-]")
				return
			}
			p.s.show(pageHome)
		})
	}()
}
