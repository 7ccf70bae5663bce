package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/raezil/qwant-go/internal/config"
	"github.com/raezil/qwant-go/qwant"
)

func main() {
	// .env is optional; values feed the QWANT_* flag bindings below.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "qwant-cli",
		Usage: "query the Qwant search API (unofficial)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{"QWANT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "run a search and print the results",
				ArgsUsage: "<terms...>",
				Flags:     searchFlags(),
				Action:    runSearch,
			},
			{
				Name:  "kinds",
				Usage: "list the supported search kinds",
				Action: func(c *cli.Context) error {
					for _, k := range qwant.Kinds() {
						fmt.Fprintln(c.App.Writer, k)
					}
					return nil
				},
			},
		},
	}
}

func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "app-id", Usage: "application id sent as t=", EnvVars: []string{"QWANT_APP_ID"}},
		&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "web, news, images, videos, shopping or music", EnvVars: []string{"QWANT_KIND"}},
		&cli.StringFlag{Name: "locale", Aliases: []string{"l"}, Usage: "locale such as en_US", EnvVars: []string{"QWANT_LOCALE"}},
		&cli.BoolFlag{Name: "safe", Usage: "enable safe search", EnvVars: []string{"QWANT_SAFE"}},
		&cli.IntFlag{Name: "pages", Aliases: []string{"p"}, Usage: "number of pages to fetch", EnvVars: []string{"QWANT_PAGES"}},
		&cli.StringFlag{Name: "strip", Usage: "markup stripping: none, regex or html", EnvVars: []string{"QWANT_STRIP"}},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "json or text", Value: "text", EnvVars: []string{"QWANT_OUTPUT"}},
		&cli.DurationFlag{Name: "timeout", Usage: "per-request timeout", EnvVars: []string{"QWANT_TIMEOUT"}},
		&cli.Float64Flag{Name: "rate", Usage: "maximum requests per second (0 disables)", EnvVars: []string{"QWANT_RATE_LIMIT"}},
		&cli.IntFlag{Name: "rate-burst", Usage: "requests allowed in a burst", EnvVars: []string{"QWANT_RATE_BURST"}},
		&cli.StringFlag{Name: "base", Usage: "override base URL (for testing)", EnvVars: []string{"QWANT_BASE_URL"}},
		&cli.StringFlag{Name: "ua", Usage: "custom user-agent", EnvVars: []string{"QWANT_USER_AGENT"}},
	}
}

// loadConfig layers flags and environment variables over the config file.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("app-id") {
		cfg.AppID = c.String("app-id")
	}
	if c.IsSet("kind") {
		cfg.Kind = c.String("kind")
	}
	if c.IsSet("locale") {
		cfg.Locale = c.String("locale")
	}
	if c.IsSet("safe") {
		cfg.Safe = c.Bool("safe")
	}
	if c.IsSet("pages") {
		cfg.Pages = c.Int("pages")
	}
	if c.IsSet("strip") {
		cfg.Strip = c.String("strip")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("rate") {
		cfg.RateLimit = c.Float64("rate")
	}
	if c.IsSet("rate-burst") {
		cfg.RateBurst = c.Int("rate-burst")
	}
	if c.IsSet("base") {
		cfg.BaseURL = c.String("base")
	}
	if c.IsSet("ua") {
		cfg.UserAgent = c.String("ua")
	}
	return cfg, cfg.Validate()
}

func newLogger(c *cli.Context) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(c.App.ErrWriter)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(c.String("log-level"))))
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

func runSearch(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("missing search terms")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	req, err := cfg.Request(query)
	if err != nil {
		return err
	}
	out, err := newRenderer(c.String("output"), c.App.Writer, cfg.Sanitizer())
	if err != nil {
		return err
	}

	logger := newLogger(c)
	client := qwant.NewClient(cfg.AppID, cfg.ClientOptions(logger)...)

	page, err := client.Search(c.Context, req)
	for n := 1; ; n++ {
		if err != nil {
			return err
		}
		if err := page.Err(); err != nil {
			return err
		}
		if err := out.Render(page); err != nil {
			return err
		}
		if n >= cfg.Pages || !page.HasMore() {
			return nil
		}
		logger.WithField("offset", page.Offset+qwant.PageSize).Debug("Fetching next page")
		page, err = client.NextPage(c.Context, page)
	}
}
