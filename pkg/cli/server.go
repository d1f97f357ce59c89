package cli

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mchmarny/fraudcheck/pkg/check"
	"github.com/mchmarny/fraudcheck/pkg/logging"
	urfave "github.com/urfave/cli/v3"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	bytesPerMB                = 1 << 20
	corsMaxAgeSeconds         = 300
)

var (
	//go:embed assets/* templates/*
	embedFS embed.FS

	portFlag = &urfave.IntFlag{
		Name:    "port",
		Usage:   "Port on which the server will listen (overrides config)",
		Sources: urfave.EnvVars("FRAUDCHECK_PORT"),
	}

	addressFlag = &urfave.StringFlag{
		Name:    "address",
		Usage:   "Address on which the server will listen (overrides config)",
		Sources: urfave.EnvVars("FRAUDCHECK_ADDRESS"),
	}

	noBrowserFlag = &urfave.BoolFlag{
		Name:    "no-browser",
		Aliases: []string{"nb"},
		Usage:   "Do not open browser automatically",
	}

	serverCmd = &urfave.Command{
		Name:    "serve",
		Aliases: []string{"server"},
		Usage:   "Start local HTTP server with the applicant form",
		Action:  cmdStartServer,
		Flags: []urfave.Flag{
			portFlag,
			addressFlag,
			noBrowserFlag,
		},
	}
)

// serverConfig is what the handlers share. Everything in it is read-only
// once the server starts.
type serverConfig struct {
	service        *check.Service
	maxUploadMB    int
	allowedOrigins []string
}

func cmdStartServer(ctx context.Context, cmd *urfave.Command) error {
	app, err := loadApp(ctx, cmd)
	if err != nil {
		return err
	}

	if p := int(cmd.Int(portFlag.Name)); p > 0 {
		app.Config.Port = p
	}
	if a := cmd.String(addressFlag.Name); a != "" {
		app.Config.Address = a
	}
	if err := app.Config.Validate(); err != nil {
		return err
	}

	address := net.JoinHostPort(app.Config.Address, strconv.Itoa(app.Config.Port))
	handler := makeRouter(&serverConfig{
		service:        app.Service,
		maxUploadMB:    app.Config.MaxUploadMB,
		allowedOrigins: app.Config.AllowedOrigins,
	})

	s := &http.Server{
		Addr:           address,
		Handler:        handler,
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("error starting server", "error", err)
			done <- syscall.SIGTERM
		}
	}()

	url := fmt.Sprintf("http://%s", address)
	slog.Info("server started", "address", url)

	if !cmd.Bool(noBrowserFlag.Name) {
		openBrowser(url)
	}

	<-done

	sctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(sctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

func makeRouter(cfg *serverConfig) http.Handler {
	tmpl := template.Must(template.New("").ParseFS(embedFS, "templates/*.html"))

	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(embedFS)))
	mux.HandleFunc("GET /favicon.ico", faviconHandler)

	// Views
	mux.HandleFunc("GET /{$}", homeViewHandler(tmpl, cfg))
	mux.HandleFunc("POST /check", checkViewHandler(tmpl, cfg))
	mux.HandleFunc("POST /batch", batchViewHandler(tmpl, cfg))

	// API
	mux.HandleFunc("GET /api/schema", schemaAPIHandler(cfg))
	mux.HandleFunc("POST /api/check", checkAPIHandler(cfg))
	mux.HandleFunc("POST /api/batch", batchAPIHandler(cfg))
	mux.HandleFunc("GET /healthz", healthHandler)

	var h http.Handler = mux
	if len(cfg.allowedOrigins) > 0 {
		h = cors.Handler(cors.Options{
			AllowedOrigins: cfg.allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         corsMaxAgeSeconds,
		})(h)
	}
	h = middleware.Recoverer(h)
	h = logging.RequestLogger(nil)(h)
	h = middleware.RealIP(h)
	h = middleware.RequestID(h)
	return h
}

func openBrowser(url string) {
	var cmd string
	args := make([]string, 0, 1)

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
	case "linux":
		cmd = "xdg-open"
	default: // windows
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler"}
	}

	args = append(args, url)
	if err := exec.Command(cmd, args...).Start(); err != nil {
		slog.Error("failed to open browser", "error", err)
	}
}
