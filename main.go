// termchess-local is a terminal chess clock for two players sharing one
// keyboard. Moves are checked against piece movement rules, every move is
// timed, and games are saved as PGN.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"termchess-local/archive"
	"termchess-local/audio"
	"termchess-local/config"
	"termchess-local/engine"
	"termchess-local/engine/local"
	"termchess-local/msgcat"
	"termchess-local/obslog"
	"termchess-local/record"
	"termchess-local/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagBase       = flag.Int("base", 600, "Base time per player in seconds")
	flagIncrement  = flag.Int("increment", 0, "Increment per move in seconds")
	flagPreset     = flag.String("preset", "", "Time control preset name (e.g. Blitz)")
	flagWhite      = flag.String("white", "", "Name of the white player")
	flagBlack      = flag.String("black", "", "Name of the black player")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (board only)")
	flagMute       = flag.Bool("mute", false, "Start with sound effects off")
	flagRecent     = flag.Bool("recent", false, "List recently archived games and exit")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

// archiveTimeout bounds a single archive write after a game ends.
const archiveTimeout = 5 * time.Second

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.ChessBoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var cfg *config.Config
var cat *msgcat.Catalog
var archiver *archive.Archiver
var cues audio.Player
var muter *audio.Muter

// The current game's record, shared by the UI loop and the session ticker.
var (
	recMu      sync.Mutex
	rec        *record.GameRecord
	lastConfig engine.GameConfig
)

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("termchess-local %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if err := obslog.Init(cfg.LogOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logging: %s\n", err)
		os.Exit(1)
	}
	defer obslog.Close()
	log := obslog.L()

	cat, err = msgcat.New(cfg.Messages)
	if err != nil {
		log.Warn("message overrides ignored", zap.String("dir", cfg.Messages), zap.Error(err))
		cat = msgcat.Default()
	}

	ctx := context.Background()
	archiver, err = archive.Open(ctx, cfg.Archive)
	if err != nil {
		log.Warn("archive disabled", zap.Error(err))
		archiver = archive.New(nil, nil)
	}
	defer archiver.Close()

	if *flagRecent {
		if err := printRecent(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		return
	}

	set := setFlags()
	gameCfg, err := buildGameConfigFromFlags(set)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	quickStart := isQuickStart(set)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open terminal: %s\n", err)
		os.Exit(1)
	}
	app = tview.NewApplication()
	app.SetScreen(screen)
	cues, muter = audio.FromConfig(cfg.Audio, screen)
	if *flagMute && !muter.Muted() {
		muter.Toggle()
	}

	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ♞ termchess ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetDynamicColors(true)
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewChessBoard(app, cfg, cat, gameHint)
	gameBoard.SetHooks(recordMove, finishGame)

	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)
	gameBoard.Box.SetInputCapture(handleGameKey)

	// History screen
	history := ui.NewHistoryBrowser(cfg.Record.Dir, cat, func() {
		rootPage.SwitchToPage("setup")
	})

	// Color configuration screen
	colorConfig := ui.NewColorConfig(cfg, func() {
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	}, func(err error) {
		showError(err)
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			colorConfig.Reset()
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	// Game setup screen
	setupUI := ui.NewGameSetup(cfg, cat,
		func(gc engine.GameConfig) {
			gc.WhiteName, gc.BlackName = gameCfg.WhiteName, gameCfg.BlackName
			startGame(gc)
		},
		func() {
			history.Refresh()
			rootPage.SwitchToPage("history")
		},
		func() {
			rootPage.SwitchToPage("colors")
		},
		func() {
			app.Stop()
		},
	)
	setupPage := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(ui.CreateCenteredForm(setupUI, ui.SetupWidth), ui.SetupHeight, 0, true).
		AddItem(nil, 0, 1, false)

	// Add pages - start on setup by default, or gameview if quick start
	rootPage.AddPage("setup", setupPage, true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("history", history.Flex(), true, false)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)

	if quickStart {
		startGame(gameCfg)
		if *flagFocus {
			gameBoard.SetFocusMode(true)
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		log.Error("ui stopped", zap.Error(err))
		closeGame()
		os.Exit(1)
	}
	closeGame()
}

// handleGameKey maps keys on the game board to board actions.
func handleGameKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		gameBoard.MoveCursor(0, -1)
	case tcell.KeyDown:
		gameBoard.MoveCursor(0, 1)
	case tcell.KeyLeft:
		gameBoard.MoveCursor(-1, 0)
	case tcell.KeyRight:
		gameBoard.MoveCursor(1, 0)
	case tcell.KeyEnter:
		gameBoard.Activate()
	case tcell.KeyRune:
		switch event.Rune() {
		case 'h':
			gameBoard.MoveCursor(-1, 0)
		case 'j':
			gameBoard.MoveCursor(0, 1)
		case 'k':
			gameBoard.MoveCursor(0, -1)
		case 'l':
			gameBoard.MoveCursor(1, 0)
		case ' ':
			gameBoard.TogglePause()
		case 'm':
			if muter.Toggle() {
				gameBoard.SetMessage(cat.Text("status.muted", nil))
			} else {
				gameBoard.SetMessage(cat.Text("status.unmuted", nil))
			}
		case 'f':
			if gameBoard.ToggleFocusMode() {
				ui.BuildFocusLayout(gameFrame, gameBoard)
			} else {
				ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
			}
		case 'n':
			if gameBoard.IsFinished() {
				startGame(lastConfig)
			} else {
				confirmNewGame()
			}
		case 'q':
			closeGame()
			rootPage.SwitchToPage("setup")
		}
		return nil
	}
	return event
}

// startGame starts a new session with the given configuration.
func startGame(gameCfg engine.GameConfig) {
	closeGame()
	lastConfig = gameCfg
	log := obslog.L()

	session, err := local.NewSession(gameCfg, local.WithLogger(log))
	if err != nil {
		showError(err)
		return
	}

	if cfg.Record.Enabled {
		r, err := record.NewGameRecord(cfg.Record.Dir, record.Header{
			GameID:           session.ID(),
			White:            gameCfg.WhiteName,
			Black:            gameCfg.BlackName,
			BaseSeconds:      gameCfg.BaseSeconds,
			IncrementSeconds: gameCfg.IncrementSeconds,
		})
		if err != nil {
			log.Warn("game record disabled", zap.String("dir", cfg.Record.Dir), zap.Error(err))
		} else {
			recMu.Lock()
			rec = r
			recMu.Unlock()
		}
	}

	session.OnCue(cues.Play)
	if err := gameBoard.ConnectEngine(session); err != nil {
		session.Close()
		showError(err)
		return
	}
	rootPage.SwitchToPage("gameview")
	app.SetFocus(gameBoard.Box)
}

// closeGame stops the current session and closes its record.
func closeGame() {
	gameBoard.Close()
	recMu.Lock()
	defer recMu.Unlock()
	if rec != nil {
		rec.Close()
		rec = nil
	}
}

func recordMove(res engine.MoveResult, _ engine.Snapshot) {
	recMu.Lock()
	defer recMu.Unlock()
	if rec == nil {
		return
	}
	if err := rec.AddMove(res.Record); err != nil {
		obslog.L().Warn("record move", zap.String("file", rec.FilePath), zap.Error(err))
	}
}

// finishGame records the result, archives the game and shows the
// game over dialog.
func finishGame(reason engine.Reason, snap engine.Snapshot) {
	recMu.Lock()
	if rec != nil {
		outcome := fmt.Sprintf("%s wins on time", reason.Winner())
		if err := rec.SetResult(outcome); err != nil {
			obslog.L().Warn("record result", zap.String("file", rec.FilePath), zap.Error(err))
		}
	}
	recMu.Unlock()

	game := archive.FromSnapshot(snap, time.Now())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		// Save logs each backend failure itself.
		_ = archiver.Save(ctx, game)
	}()

	msg := ui.EndMessage(cat, reason)
	go app.QueueUpdateDraw(func() {
		showGameOver(msg)
	})
}

func showGameOver(msg string) {
	modal := tview.NewModal().
		SetText(cat.Text("dialog.game_over", map[string]any{"Message": msg})).
		AddButtons([]string{"New game", "Menu"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("gameover")
			if buttonIndex == 0 {
				startGame(lastConfig)
				return
			}
			app.SetFocus(gameBoard.Box)
		})
	modal.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'n' {
			rootPage.RemovePage("gameover")
			startGame(lastConfig)
			return nil
		}
		return event
	})
	rootPage.AddPage("gameover", modal, true, true)
}

func confirmNewGame() {
	modal := tview.NewModal().
		SetText(cat.Text("dialog.new_game", nil)).
		AddButtons([]string{"Yes", "No"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("confirm")
			if buttonIndex == 0 {
				startGame(lastConfig)
				return
			}
			app.SetFocus(gameBoard.Box)
		})
	rootPage.AddPage("confirm", modal, true, true)
}

func showError(err error) {
	obslog.L().Error("ui error", zap.Error(err))
	modal := tview.NewModal().
		SetText(cat.Text("dialog.error", map[string]any{"Message": err.Error()})).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("error")
		})
	rootPage.AddPage("error", modal, true, true)
}

// setFlags returns the names of the flags given on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// isQuickStart reports whether the flags ask to skip the setup screen.
func isQuickStart(set map[string]bool) bool {
	if *flagQuickStart || *flagFocus {
		return true
	}
	return set["base"] || set["increment"] || set["preset"]
}

// buildGameConfigFromFlags creates a GameConfig from the config file and
// the flags in set. Explicit values are validated, never replaced.
func buildGameConfigFromFlags(set map[string]bool) (engine.GameConfig, error) {
	gameCfg := engine.DefaultConfig()
	gameCfg.BaseSeconds = cfg.Clock.BaseSeconds
	gameCfg.IncrementSeconds = cfg.Clock.IncrementSeconds

	if set["preset"] {
		p, ok := findPreset(cfg.Clock.Presets, *flagPreset)
		if !ok {
			return engine.GameConfig{}, fmt.Errorf("unknown preset %q", *flagPreset)
		}
		gameCfg.BaseSeconds, gameCfg.IncrementSeconds = p.BaseSeconds, p.IncrementSeconds
	}
	if set["base"] {
		gameCfg.BaseSeconds = *flagBase
	}
	if set["increment"] {
		gameCfg.IncrementSeconds = *flagIncrement
	}
	if set["white"] {
		gameCfg.WhiteName = *flagWhite
	}
	if set["black"] {
		gameCfg.BlackName = *flagBlack
	}
	return gameCfg, gameCfg.Validate()
}

func findPreset(presets []config.Preset, name string) (config.Preset, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return config.Preset{}, false
}

// printRecent lists the games held by the archive's recent index.
func printRecent(ctx context.Context) error {
	if !archiver.Enabled() {
		return fmt.Errorf("no archive configured")
	}
	games, err := archiver.Recent(ctx)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Println(cat.Text("history.none", nil))
		return nil
	}
	for _, g := range games {
		fmt.Printf("%s  %-7s %-7s %s vs %s, %d moves\n",
			g.StartedAt.Local().Format("2006-01-02 15:04"),
			g.TimeControl(), g.Result, g.White, g.Black, g.Moves)
	}
	return nil
}
