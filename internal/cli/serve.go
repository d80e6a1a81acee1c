package cli

import (
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grocery/internal/config"
	"github.com/idilsaglam/grocery/internal/devserver"
)

func addServe(topLevel *cobra.Command, e *env) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a development backend for the items collection.",
		Long: `Serves GET/POST /items and PATCH/DELETE /items/{id}, plus /metrics.
The collection path follows the path of --endpoint.`,
		Example: `
grocery serve
grocery serve --addr :3500 --driver json --db db.json
grocery serve --driver sqlite --db ~/grocery.sqlite3
`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, closeLog, err := e.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			c := e.cfg.Serve
			repo, err := devserver.Open(c.Driver, c.DB)
			if err != nil {
				return usagef("serve: %v", err)
			}
			defer repo.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			prefix := collectionPath(e.cfg.Endpoint)
			log.Info("serving items", "driver", c.Driver, "db", c.DB, "prefix", prefix)
			return serve(ctx, c.Addr, devserver.Handler(repo, prefix, log), log)
		},
	}

	f := cmd.Flags()
	f.String("addr", "localhost:3500", "Listen address.")
	f.String("driver", devserver.DriverMemory, "Storage: memory, json or sqlite.")
	f.String("db", "", "Database file for the json and sqlite drivers.")
	bindFlags(e.v, f, map[string]string{
		config.KeyServeAddr:   "addr",
		config.KeyServeDriver: "driver",
		config.KeyServeDB:     "db",
	})

	topLevel.AddCommand(cmd)
}

// serve is swapped in tests.
var serve = devserver.Run

func collectionPath(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "/items"
	}
	return u.Path
}
