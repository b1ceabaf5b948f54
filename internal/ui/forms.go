package ui

import (
	"github.com/bz888/loanchat/internal/auth"
	"github.com/rivo/tview"
)

const fieldWidth = 40

func inputText(form *tview.Form, label string) string {
	if field, ok := form.GetFormItemByLabel(label).(*tview.InputField); ok {
		return field.GetText()
	}
	return ""
}

func clearInput(form *tview.Form, label string) {
	if field, ok := form.GetFormItemByLabel(label).(*tview.InputField); ok {
		field.SetText("")
	}
}

// inFlight stops a form from submitting again before the previous call
// returns. It is only touched from the UI goroutine.
type inFlight struct {
	busy bool
}

func (f *inFlight) begin() bool {
	if f.busy {
		return false
	}
	f.busy = true
	return true
}

func (f *inFlight) end() {
	f.busy = false
}

func formPage(form *tview.Form, message *tview.TextView) *tview.Flex {
	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(message, 1, 0, false)
}

type loginPage struct {
	s *screens

	root    *tview.Flex
	form    *tview.Form
	message *tview.TextView
	pending inFlight
}

func newLoginPage(s *screens) *loginPage {
	p := &loginPage{s: s}
	p.message = tview.NewTextView().SetDynamicColors(true)
	p.form = tview.NewForm().
		AddInputField("Email", "", fieldWidth, nil, nil).
		AddPasswordField("Password", "", fieldWidth, '*', nil).
		AddButton("Login", p.submit).
		AddButton("Create an account", func() { s.show(pageSignup) })
	p.form.SetTitle("Login").SetBorder(true)
	p.root = formPage(p.form, p.message)
	return p
}

func (p *loginPage) reset() {
	p.message.SetText("")
	clearInput(p.form, "Password")
}

func (p *loginPage) submit() {
	if !p.pending.begin() {
		return
	}
	form := auth.LoginForm{
		Email:    inputText(p.form, "Email"),
		Password: inputText(p.form, "Password"),
	}
	p.message.SetText("[yellow]Logging in...[-]")

	ctx := p.s.ctx
	go func() {
		_, err := p.s.deps.Auth.Login(ctx, form)
		app.QueueUpdateDraw(func() {
			p.pending.end()
			if err != nil {
				p.message.SetText("[red]" + tview.Escape(auth.ErrorText(err)) + "[-]")
				return
			}
			p.message.SetText("")
			p.s.show(pageProfile)
		})
	}()
}

type signupPage struct {
	s *screens

	root    *tview.Flex
	form    *tview.Form
	message *tview.TextView
	pending inFlight
}

func newSignupPage(s *screens) *signupPage {
	p := &signupPage{s: s}
	p.message = tview.NewTextView().SetDynamicColors(true)
	p.form = tview.NewForm().
		AddInputField("Name", "", fieldWidth, nil, nil).
		AddInputField("Age", "", 4, tview.InputFieldInteger, nil).
		AddInputField("City", "", fieldWidth, nil, nil).
		AddInputField("Phone", "", 16, nil, nil).
		AddInputField("Monthly salary", "", 12, tview.InputFieldFloat, nil).
		AddInputField("Email", "", fieldWidth, nil, nil).
		AddPasswordField("Password", "", fieldWidth, '*', nil).
		AddInputField("PAN number", "", 12, nil, nil).
		AddInputField("Aadhaar number", "", 14, nil, nil).
		AddButton("Sign up", p.submit).
		AddButton("Already registered? Login", func() { s.show(pageLogin) })
	p.form.SetTitle("Create your account").SetBorder(true)
	p.root = formPage(p.form, p.message)
	return p
}

func (p *signupPage) reset() {
	p.message.SetText("")
}

func (p *signupPage) submit() {
	if !p.pending.begin() {
		return
	}
	form := auth.SignupForm{
		Name:          inputText(p.form, "Name"),
		Age:           inputText(p.form, "Age"),
		City:          inputText(p.form, "City"),
		Phone:         inputText(p.form, "Phone"),
		Salary:        inputText(p.form, "Monthly salary"),
		Email:         inputText(p.form, "Email"),
		Password:      inputText(p.form, "Password"),
		PANNumber:     inputText(p.form, "PAN number"),
		AadhaarNumber: inputText(p.form, "Aadhaar number"),
	}
	p.message.SetText("[yellow]Creating account...[-]")

	ctx := p.s.ctx
	go func() {
		_, err := p.s.deps.Auth.Signup(ctx, form)
		app.QueueUpdateDraw(func() {
			p.pending.end()
			if err != nil {
				p.message.SetText("[red]" + tview.Escape(auth.ErrorText(err)) + "[-]")
				return
			}
			p.message.SetText("")
			p.s.show(pageProfile)
		})
	}()
}
