package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	pageHome    = "home"
	pageChat    = "chat"
	pageProfile = "profile"
	pageLogin   = "login"
	pageSignup  = "signup"
	pageAbout   = "about"
	pageFAQ     = "faq"
	pageSupport = "support"
	pageStories = "stories"
	pageBlog    = "blog"

	modalPage = "modal"
)

type navEntry struct {
	key   tcell.Key
	page  string
	label string
}

var navEntries = []navEntry{
	{tcell.KeyF1, pageHome, "Home"},
	{tcell.KeyF2, pageChat, "Chat"},
	{tcell.KeyF3, pageProfile, "Profile"},
	{tcell.KeyF4, pageLogin, "Login"},
	{tcell.KeyF5, pageSignup, "Sign up"},
	{tcell.KeyF6, pageAbout, "About"},
	{tcell.KeyF7, pageFAQ, "FAQ"},
	{tcell.KeyF8, pageSupport, "Support"},
	{tcell.KeyF9, pageStories, "Stories"},
	{tcell.KeyF10, pageBlog, "Blog"},
}

func pageForKey(key tcell.Key) (string, bool) {
	for _, e := range navEntries {
		if e.key == key {
			return e.page, true
		}
	}
	return "", false
}

// renderNav draws the navigation bar with current highlighted.
func renderNav(current string) string {
	var b strings.Builder
	b.WriteString("[::b]FinWise[::-] ")
	for i, e := range navEntries {
		if e.page == current {
			fmt.Fprintf(&b, " [black:yellow]F%d %s[-:-]", i+1, e.label)
		} else {
			fmt.Fprintf(&b, " [yellow]F%d[-] %s", i+1, e.label)
		}
	}
	return b.String()
}

type screens struct {
	ctx  context.Context
	deps Deps

	pages *tview.Pages
	nav   *tview.TextView

	chat    *chatPage
	profile *profilePage
	login   *loginPage
	signup  *signupPage
}

func newScreens(ctx context.Context, deps Deps) *screens {
	s := &screens{
		ctx:   ctx,
		deps:  deps,
		pages: tview.NewPages(),
		nav:   tview.NewTextView().SetDynamicColors(true),
	}

	s.chat = newChatPage(s)
	s.profile = newProfilePage(s)
	s.login = newLoginPage(s)
	s.signup = newSignupPage(s)

	s.pages.
		AddPage(pageHome, staticPage("FinWise", homeText()), true, false).
		AddPage(pageChat, s.chat.root, true, false).
		AddPage(pageProfile, s.profile.root, true, false).
		AddPage(pageLogin, s.login.root, true, false).
		AddPage(pageSignup, s.signup.root, true, false).
		AddPage(pageAbout, staticPage("About Us", aboutText()), true, false).
		AddPage(pageFAQ, staticPage("Frequently Asked Questions", faqText()), true, false).
		AddPage(pageSupport, staticPage("Support & Help Center", supportText()), true, false).
		AddPage(pageStories, staticPage("Customer Stories", storiesText()), true, false).
		AddPage(pageBlog, staticPage("Financial Blog", blogText()), true, false)
	return s
}

// show switches to page and moves focus to its main input.
func (s *screens) show(page string) {
	s.pages.RemovePage(modalPage)
	s.pages.SwitchToPage(page)
	s.nav.SetText(renderNav(page))

	switch page {
	case pageChat:
		app.SetFocus(s.chat.input)
	case pageProfile:
		app.SetFocus(s.profile.buttons)
		s.profile.refresh()
	case pageLogin:
		s.login.reset()
		app.SetFocus(s.login.form)
	case pageSignup:
		s.signup.reset()
		app.SetFocus(s.signup.form)
	default:
		_, item := s.pages.GetFrontPage()
		app.SetFocus(item)
	}
}

// modalSize fits an overlay around text, border included.
func modalSize(text string) (width, height int) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	width = 30
	for _, line := range lines {
		if w := tview.TaggedStringWidth(line) + 4; w > width {
			width = w
		}
	}
	return width, len(lines) + 2
}

// showModal overlays text on the current page until Esc or Enter.
func (s *screens) showModal(title, text string) {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetText(tview.Escape(text))
	view.SetTitle(title + " (Esc to close)").SetBorder(true)
	view.SetDoneFunc(func(tcell.Key) {
		s.pages.RemovePage(modalPage)
		name, item := s.pages.GetFrontPage()
		if name == pageChat {
			item = s.chat.input
		}
		app.SetFocus(item)
	})

	width, height := modalSize(tview.Escape(text))
	s.pages.AddPage(modalPage, createModal(view, width, height), true, true)
	app.SetFocus(view)
}

func staticPage(title, text string) tview.Primitive {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetText(text)
	view.SetScrollable(true)
	view.SetTitle(title).SetBorder(true)
	return view
}
