package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bz888/loanchat/internal/auth"
	"github.com/bz888/loanchat/internal/chat"
	"github.com/bz888/loanchat/internal/logger"
	"github.com/bz888/loanchat/internal/profile"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var app *tview.Application

var (
	debugConsole *tview.TextView
	mainFlex     *tview.Flex
	debugShown   bool
	localLogger  = logger.NewLogger("views")
)

// Downloader fetches sanction letters from the backend.
type Downloader interface {
	DownloadSanction(ctx context.Context, filename string, w io.Writer) error
	SanctionURL(filename string) string
}

// Deps are the controllers the screens drive.
type Deps struct {
	Chat        *chat.Controller
	Auth        *auth.Service
	Profile     *profile.Loader
	Downloads   Downloader
	DownloadDir string
	Dev         bool
}

func Init() {
	app = tview.NewApplication()
	app.EnablePaste(true)
	app.EnableMouse(true)

	debugConsole = initDebugConsole()
}

func initDebugConsole() *tview.TextView {
	console := tview.NewTextView().
		SetChangedFunc(func() {
			app.Draw()
		}).
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	console.SetTitle("Debugger").SetBorder(true)
	console.ScrollToEnd()
	return console
}

func GetDebugConsole() (*tview.TextView, error) {
	if debugConsole == nil {
		return nil, errors.New("debug console not initialized")
	}
	return debugConsole, nil
}

// Run blocks until the application exits.
func Run(ctx context.Context, deps Deps) error {
	if app == nil {
		return errors.New("ui not initialized")
	}
	localLogger = logger.NewLogger("views")

	s := newScreens(ctx, deps)

	mainFlex = tview.NewFlex().
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(s.nav, 1, 0, false).
			AddItem(s.pages, 0, 1, true), 0, 2, true)

	if deps.Dev {
		mainFlex.AddItem(debugConsole, 0, 1, false)
		debugShown = true
	}

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if page, ok := pageForKey(event.Key()); ok {
			s.show(page)
			return nil
		}
		return event
	})

	s.show(pageHome)
	if err := app.SetRoot(mainFlex, true).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func toggleDebugConsole() {
	go func() {
		app.QueueUpdateDraw(func() {
			if debugShown {
				mainFlex.RemoveItem(debugConsole)
			} else {
				mainFlex.AddItem(debugConsole, 0, 1, false)
			}
			debugShown = !debugShown
		})
	}()
}

func quitApp() {
	localLogger.Info("Shutting down gracefully.")
	app.Stop()
}

func createModal(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
