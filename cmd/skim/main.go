package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nikbrunner/skim/internal/api"
	"github.com/nikbrunner/skim/internal/cache"
	"github.com/nikbrunner/skim/internal/config"
	"github.com/nikbrunner/skim/internal/logger"
	"github.com/nikbrunner/skim/internal/session"
	"github.com/nikbrunner/skim/internal/telemetry"
	"github.com/nikbrunner/skim/internal/tui"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "version", "--version", "-v":
			fmt.Printf("skim %s\n", version)
			return
		case "login":
			runLogin()
			return
		case "add":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: skim add <url> [tags,comma,separated]\n")
				os.Exit(1)
			}
			tags := ""
			if len(os.Args) >= 4 {
				tags = strings.Join(os.Args[3:], ",")
			}
			runAdd(os.Args[2], tags)
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command %q. Run `skim help`.\n", os.Args[1])
			os.Exit(1)
		}
	}

	// No args - run full TUI
	runTUI()
}

func printHelp() {
	help := `skim - read-it-later bookmarks with server-side summaries

Usage:
  skim                  Open the interactive TUI
  skim add <url> [tags] Bookmark a URL from the command line
  skim login            Sign in and store the session
  skim version          Print the version
  skim help             Show this help

TUI Keybindings:
  Navigation:
    j/k         Move down/up
    gg/G        Jump to top/bottom
    l/Enter     Open bookmark
    h/Esc       Back to the list
    [/]         Previous/next page

  Actions:
    a           Add bookmark
    e           Edit bookmark
    d           Delete bookmark
    s           Share (users/Slack/Notion)
    t           Filter by tag
    c           Clear tag filters
    o           Toggle summary/content
    r           Refresh
    Y           Copy URL to clipboard

  Session:
    L           Log in (while browsing publicly)
    X           Log out

  Other:
    ?           Show help overlay
    q           Quit

Configuration:
  ~/.config/skim/config.yaml
`
	fmt.Print(help)
}

// bootstrap loads config and wires the client, session and logger. Shared
// by every command.
func bootstrap() (*config.Config, *api.Client, *session.Store, logger.Logger) {
	configPath, err := config.DefaultConfigFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error locating config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log = logger.Nop()
	}

	client := api.NewClient(cfg.APIBaseURL)
	store := session.Load(cfg.SessionFile, client)
	client.SetTokenSource(store)
	client.SetAuthFailureHandler(store.Clear)

	return cfg, client, store, log
}

// runTUI runs the full interactive TUI.
func runTUI() {
	cfg, client, store, log := bootstrap()
	defer func() { _ = log.Sync() }()

	var bmCache *cache.Cache
	if c, err := cache.Open(cfg.CacheFile); err == nil {
		bmCache = c
		defer bmCache.Close()
	} else {
		log.Warn("cache unavailable", zap.Error(err))
	}

	sink := telemetry.New(client, log, store, version, !cfg.DisableTelemetry)

	app := tui.NewApp(tui.AppParams{
		Client:       client,
		Session:      store,
		Cache:        bmCache,
		Sink:         sink,
		Log:          log,
		PageSize:     cfg.PageSize,
		PollInterval: cfg.PollInterval.Std(),
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

// runLogin signs in from the terminal and persists the session.
func runLogin() {
	_, _, store, log := bootstrap()
	defer func() { _ = log.Sync() }()

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	fmt.Print("Password: ")
	password, _ := reader.ReadString('\n')

	username = strings.TrimSpace(username)
	password = strings.TrimRight(password, "\r\n")
	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Username and password are required.")
		os.Exit(1)
	}

	if err := store.Login(username, password); err != nil {
		fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Logged in as %s\n", store.User().Username)
}

// runAdd bookmarks a URL without opening the TUI.
func runAdd(rawURL, rawTags string) {
	_, client, store, log := bootstrap()
	defer func() { _ = log.Sync() }()

	if !store.CheckAuth() {
		fmt.Fprintln(os.Stderr, "Not logged in. Run `skim login` first.")
		os.Exit(1)
	}

	url, err := api.NormalizeURL(rawURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid URL %q\n", rawURL)
		os.Exit(1)
	}

	bm, err := client.CreateBookmark(api.CreateBookmarkParams{
		URL:  url,
		Tags: api.ParseTags(rawTags),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding bookmark: %v\n", err)
		os.Exit(1)
	}

	title := bm.Title
	if title == "" {
		title = bm.URL
	}
	fmt.Printf("Added: %s\n", title)
	fmt.Println("The summary is generated in the background; open the TUI to read it.")
}
