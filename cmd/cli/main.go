package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"storefront/console/internal/apiclient"
	"storefront/console/internal/config"
	"storefront/console/internal/logx"
	"storefront/console/internal/service"
	"storefront/console/internal/session"
	"storefront/console/internal/store"
)

const usage = `usage: storefront <command> [flags]

commands:
  login             sign in with -email and -password
  signup            create an account
  logout            forget the stored session
  whoami            show the signed-in user
  products list     list products
  products show     show one product by -id
  products create   add a product (-image is required)
  products update   change a product by -id
  products delete   remove a product by -id
  profile show      fetch the profile from the server
  profile update    change name, email or mobile number
  password          change the password
`

var errUsage = errors.New("invalid usage")

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logging. Logs go to stderr and stay quiet unless asked for.
	level := cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	logx.Init(logx.Options{Production: cfg.Env.IsProduction(), Level: level})

	// 3. Setup state
	path := cfg.StateFile
	if path == "" {
		if path, err = store.DefaultPath(); err != nil {
			logx.Fatal().Err(err).Msg("failed to resolve state file")
		}
	}

	api := apiclient.NewClient(apiclient.Config{
		APIURL:  cfg.API.URL,
		Timeout: cfg.API.Timeout,
	})
	a := newApp(api, store.NewFileStore(path), os.Stdin, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Run the command
	if err := a.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is one invocation of the terminal client.
type app struct {
	ctrl  *session.Controller
	api   *apiclient.Client
	cache *service.ProductCache
	in    *bufio.Reader
	out   io.Writer

	// landed is the last page the session controller sent us to.
	landed string
}

func newApp(api *apiclient.Client, st store.Store, in io.Reader, out io.Writer) *app {
	a := &app{
		cache: service.NewProductCache(0),
		in:    bufio.NewReader(in),
		out:   out,
	}
	a.ctrl = session.NewController(st, service.NewAuthService(api), session.NavigatorFunc(func(path string) {
		a.landed = path
	}))
	a.ctrl.Restore()
	a.api = api.WithCredentials(a.ctrl)
	return a
}
