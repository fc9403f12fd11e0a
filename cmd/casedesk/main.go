package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/casedesk/casedesk-go/api"
	"github.com/casedesk/casedesk-go/credentials"
	"github.com/casedesk/casedesk-go/credentials/filerepo"
	"github.com/casedesk/casedesk-go/internal/config"
	"github.com/casedesk/casedesk-go/queries"
	"github.com/casedesk/casedesk-go/querycache"
	"github.com/casedesk/casedesk-go/session"
	"github.com/casedesk/casedesk-go/transport"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.WarnLevel).With().Timestamp().Logger()
	if c.GetEnv() == "development" {
		logger = logger.Level(zerolog.DebugLevel)
	}

	app, err := newApp(c, logger)
	if err != nil {
		return err
	}

	if len(os.Args) < 2 {
		displayAppname(c.GetAppName())
		usage()
		return nil
	}
	return app.dispatch(context.Background(), os.Args[1], os.Args[2:])
}

// app wires the session and data layers together for the CLI commands.
type app struct {
	session *session.Controller
	queries *queries.Queries
	log     zerolog.Logger
}

func newApp(c config.Config, logger zerolog.Logger) (*app, error) {
	repo, err := filerepo.New(c.GetProfileDir())
	if err != nil {
		return nil, err
	}
	creds, err := credentials.NewStore(repo, credentials.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	pipeline, err := transport.NewPipeline(creds, c.GetBaseURL()+"/auth/refresh/",
		transport.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	client, err := api.New(c.GetBaseURL(),
		api.WithHTTPClient(pipeline.Client()),
		api.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	cacheOpts := append(queries.DefaultCacheOptions(),
		querycache.WithDefaultStaleness(c.GetListStaleness()),
		querycache.WithStalenessWindow(queries.FamilyCaseTypes, c.GetLookupStaleness()),
		querycache.WithLogger(logger))
	cache, err := querycache.NewCache(querycache.DefaultGraph(), cacheOpts...)
	if err != nil {
		return nil, err
	}

	q, err := queries.New(cache, client)
	if err != nil {
		return nil, err
	}

	ctrl, err := session.NewController(client.Auth(), client.Firms(), creds,
		session.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	pipeline.SetSessionExpiredHandler(ctrl.HandleSessionExpired)

	return &app{session: ctrl, queries: q, log: logger}, nil
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx)
	case "logout":
		return a.session.Logout(ctx)
	case "whoami":
		return a.whoami()
	case "cases":
		return a.listCases(ctx, args)
	case "tasks":
		return a.listTasks(ctx)
	case "clients":
		return a.listClients(ctx)
	case "stats":
		return a.stats(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) login(ctx context.Context) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	fmt.Print("Password: ")
	rawPassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	profile, err := a.session.Login(ctx, strings.TrimSpace(email), string(rawPassword))
	if err != nil {
		if msg := a.session.State().Err; msg != "" {
			return errors.New(msg)
		}
		return err
	}
	fmt.Printf("Signed in as %s\n", profile.FullName())
	return nil
}

func (a *app) whoami() error {
	if !a.session.Restore() {
		fmt.Println("Not signed in")
		return nil
	}
	state := a.session.State()
	fmt.Printf("%s <%s>\n", state.User.FullName(), state.User.Email)
	if state.User.Firm != nil {
		fmt.Printf("Firm: %s (%s)\n", state.User.Firm.Name, state.User.Firm.Role)
	}
	return nil
}

func (a *app) listCases(ctx context.Context, args []string) error {
	a.session.Restore()

	filters := map[string]string{}
	if len(args) > 0 {
		filters["status"] = args[0]
	}
	list, err := a.queries.Cases().List(ctx, filters)
	if err != nil {
		return err
	}

	fmt.Printf("%d case(s)\n", list.Count)
	for _, c := range list.Results {
		fmt.Printf("  #%-5d %-10s %s\n", c.ID, c.Status, c.Title)
	}
	return nil
}

func (a *app) listTasks(ctx context.Context) error {
	a.session.Restore()

	list, err := a.queries.Tasks().Mine(ctx, nil)
	if err != nil {
		return err
	}

	fmt.Printf("%d task(s)\n", list.Count)
	for _, t := range list.Results {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Printf("  #%-5d %-10s %-10s %s\n", t.ID, t.Status, due, t.Title)
	}
	return nil
}

func (a *app) listClients(ctx context.Context) error {
	a.session.Restore()

	list, err := a.queries.Clients().List(ctx, nil)
	if err != nil {
		return err
	}

	fmt.Printf("%d client(s)\n", list.Count)
	for _, c := range list.Results {
		fmt.Printf("  #%-5d %s\n", c.ID, c.Name)
	}
	return nil
}

func (a *app) stats(ctx context.Context) error {
	a.session.Restore()

	stats, err := a.queries.Dashboard().Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Open cases:     %d\n", stats.OpenCases)
	fmt.Printf("Active clients: %d\n", stats.ActiveClients)
	fmt.Printf("Pending tasks:  %d\n", stats.PendingTasks)
	fmt.Printf("Overdue tasks:  %d\n", stats.OverdueTasks)
	return nil
}

func usage() {
	fmt.Println("Usage: casedesk <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login            sign in and store the session")
	fmt.Println("  logout           sign out and clear the stored session")
	fmt.Println("  whoami           show the current user")
	fmt.Println("  cases [status]   list cases, optionally filtered by status")
	fmt.Println("  tasks            list tasks assigned to you")
	fmt.Println("  clients          list clients")
	fmt.Println("  stats            show dashboard aggregates")
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
