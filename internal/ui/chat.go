package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bz888/loanchat/internal/api"
	"github.com/bz888/loanchat/internal/chat"
	"github.com/bz888/loanchat/internal/domain"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var uploadExtensions = []string{".pdf", ".png", ".jpg", ".jpeg"}

type command struct {
	name string
	arg  string
}

// parseCommand splits a slash command from its argument. ok is false for
// plain chat text.
func parseCommand(input string) (command, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return command{}, false
	}
	name, arg, _ := strings.Cut(input, " ")
	return command{name: strings.ToLower(name), arg: strings.TrimSpace(arg)}, true
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Here are some commands you can use:\n")
	b.WriteString("- /help: Display this help message\n")
	b.WriteString("- /upload <path>: Upload the document the assistant is asking for\n")
	b.WriteString("- /download [file]: Save the sanction letter to the downloads folder\n")
	b.WriteString("- /profile: Open your profile\n")
	b.WriteString("- /new: Start a new conversation\n")
	b.WriteString("- /debug: Toggle the debug console\n")
	b.WriteString("- /bye: Exit the application\n")
	return b.String()
}

func acceptedUpload(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range uploadExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func renderTranscript(state chat.State) string {
	var b strings.Builder
	for _, m := range state.Messages {
		switch {
		case m.Sender == domain.SenderUser:
			fmt.Fprintf(&b, "[red::]You:[-]\n%s\n\n", tview.Escape(m.Text))
		case m.Failed:
			fmt.Fprintf(&b, "[green::]Bot:[-]\n[red]%s[-]\n\n", tview.Escape(m.Text))
		default:
			fmt.Fprintf(&b, "[green::]Bot:[-]\n%s\n", tview.Escape(m.Text))
			if m.File != "" {
				fmt.Fprintf(&b, "[blue::u]Download Sanction Letter: %s[-::-] (/download)\n", tview.Escape(m.File))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderBanner returns the stage banner, or "" when the stage has none.
func renderBanner(state chat.State) string {
	banner, err := domain.BannerFor(state.Stage, state.Awaiting)
	color := "yellow"
	switch {
	case err != nil:
		color = "red"
	case banner.Kind == domain.BannerNone:
		return ""
	case banner.Kind == domain.BannerUnderwriting:
		color = "blue"
	case banner.Kind == domain.BannerSanctioned:
		color = "green"
	}
	return fmt.Sprintf("[%s::b]%s[-::-]\n%s", color, banner.Title, tview.Escape(banner.Body))
}

func renderStatus(state chat.State, notice string) string {
	var status string
	switch state.Status() {
	case chat.StatusSending:
		status = "[yellow]Sending...[-]"
	case chat.StatusUploading:
		status = "[yellow]Uploading...[-]"
	default:
		status = "Stage: " + tview.Escape(state.Stage.String())
	}
	if notice != "" {
		status += "  |  " + notice
	}
	return status
}

type chatPage struct {
	s *screens

	root       *tview.Flex
	transcript *tview.TextView
	banner     *tview.TextView
	status     *tview.TextView
	input      *tview.TextArea

	state  chat.State
	notice string
}

func newChatPage(s *screens) *chatPage {
	p := &chatPage{s: s}

	p.transcript = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)
	p.transcript.SetTitle("Conversation").SetBorder(true)
	p.transcript.SetScrollable(true)

	p.banner = tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	p.status = tview.NewTextView().SetDynamicColors(true)

	p.input = tview.NewTextArea()
	p.input.SetTitle("Message (Enter to send, /help for commands)").SetBorder(true)

	p.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(p.transcript, 0, 1, false).
		AddItem(p.banner, 0, 0, false).
		AddItem(p.status, 1, 0, false).
		AddItem(p.input, 5, 0, true)

	p.transcript.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEnter {
			app.SetFocus(p.input)
		}
		return event
	})
	p.input.SetInputCapture(p.handleKey)

	s.deps.Chat.OnChange(func(state chat.State) {
		app.QueueUpdateDraw(func() {
			p.render(state)
		})
	})
	p.render(s.deps.Chat.Snapshot())
	return p
}

func (p *chatPage) render(state chat.State) {
	p.state = state
	p.transcript.SetText(renderTranscript(state))
	p.transcript.ScrollToEnd()

	banner := renderBanner(state)
	p.banner.SetText(banner)
	if banner == "" {
		p.root.ResizeItem(p.banner, 0, 0)
	} else {
		p.root.ResizeItem(p.banner, strings.Count(banner, "\n")+2, 0)
	}

	p.status.SetText(renderStatus(state, p.notice))
	p.input.SetDisabled(state.Sending)
}

// setNotice shows a one-line local message next to the status.
func (p *chatPage) setNotice(text string) {
	p.notice = text
	p.status.SetText(renderStatus(p.state, p.notice))
}

func (p *chatPage) asyncNotice(text string) {
	app.QueueUpdateDraw(func() {
		p.setNotice(text)
	})
}

func (p *chatPage) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyESC:
		if p.transcript.GetText(false) != "" {
			app.SetFocus(p.transcript)
		}
		return nil
	case tcell.KeyEnter:
		if event.Modifiers()&tcell.ModAlt != 0 {
			return event
		}
		content := p.input.GetText()
		if strings.TrimSpace(content) == "" {
			return nil
		}
		p.input.SetText("", true)
		p.setNotice("")

		if cmd, ok := parseCommand(content); ok {
			p.runCommand(cmd)
			return nil
		}

		ctx := p.s.ctx
		go func() {
			err := p.s.deps.Chat.Send(ctx, content)
			switch {
			case errors.Is(err, chat.ErrBusy):
				p.asyncNotice("[yellow]Still waiting for the previous reply[-]")
			case err != nil:
				localLogger.Warn("Send failed:", err)
			}
		}()
		return nil
	}
	return event
}

func (p *chatPage) runCommand(cmd command) {
	localLogger.Info("Command", cmd.name)
	switch cmd.name {
	case "/help":
		p.s.showModal("Commands", helpText())
	case "/bye", "/quit", "/exit":
		quitApp()
	case "/debug":
		toggleDebugConsole()
	case "/profile":
		p.s.show(pageProfile)
	case "/new":
		go func() {
			if err := p.s.deps.Chat.Reset(p.s.ctx); err != nil {
				localLogger.Error("Failed to reset conversation:", err)
				p.asyncNotice("[red]" + tview.Escape(err.Error()) + "[-]")
			}
		}()
	case "/upload":
		p.upload(cmd.arg)
	case "/download":
		p.download(cmd.arg)
	default:
		p.setNotice(fmt.Sprintf("[red]Unknown command %s[-], type /help", tview.Escape(cmd.name)))
	}
}

func (p *chatPage) upload(path string) {
	if path == "" {
		p.setNotice("Usage: /upload <path>")
		return
	}
	if !acceptedUpload(path) {
		p.setNotice("[red]Only .pdf, .png and .jpg files can be uploaded[-]")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		p.setNotice("[red]" + tview.Escape(err.Error()) + "[-]")
		return
	}

	doc := domain.Document{Name: filepath.Base(path), Body: f}
	ctx := p.s.ctx
	go func() {
		defer f.Close()
		err := p.s.deps.Chat.Upload(ctx, doc)
		switch {
		case errors.Is(err, chat.ErrBusy):
			p.asyncNotice("[yellow]An upload is already in progress[-]")
		case err != nil:
			localLogger.Warn("Upload failed:", err)
		}
	}()
}

func (p *chatPage) download(name string) {
	if name == "" {
		name = p.state.LastFile()
	}
	if name == "" {
		p.setNotice("No sanction letter yet")
		return
	}

	downloads := p.s.deps.Downloads
	dir := p.s.deps.DownloadDir
	ctx := p.s.ctx
	p.setNotice("Downloading " + tview.Escape(name) + "...")
	go func() {
		path, err := saveSanction(ctx, downloads, dir, name)
		if err != nil {
			localLogger.Error("Failed to download sanction letter:", err)
			p.asyncNotice("[red]Download failed: " + tview.Escape(errorText(err)) + "[-]")
			return
		}
		p.asyncNotice("[green]Saved to " + tview.Escape(path) + "[-]")
	}()
}

func errorText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// saveSanction writes the letter into dir and returns the file path.
func saveSanction(ctx context.Context, downloads Downloader, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	localLogger.Info("Downloading", downloads.SanctionURL(name))
	if err := downloads.DownloadSanction(ctx, name, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
