package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shadowprobe/shadowprobe"
)

var (
	configFile string

	host         string
	port         int
	authKey      string
	corsAllow    string
	logFile      string
	debugFile    string
	poolSize     int
	inboundRPS   float64
	inboundBurst int

	rootCmd = &cobra.Command{
		Use:   "shadowprobe",
		Short: "Shadowban probe service for Twitter accounts",
		Long: `shadowprobe serves GET /{handle} and reports whether the account
appears subject to undisclosed visibility restrictions: reduced search
visibility, suppressed autocomplete, hidden replies.

It works entirely through unauthenticated guest sessions obtained with
the platform's public application key; a fixed pool of sessions is
warmed at startup and one is picked at random per request.`,
		RunE: runServe,
	}
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configFile, "config", "", "path to YAML config file")
	flags.StringVar(&host, "host", "127.0.0.1", "hostname/ip to listen on")
	flags.IntVar(&port, "port", 8080, "port to listen on")
	flags.StringVar(&authKey, "auth-key", "", "override the platform application auth key")
	flags.StringVar(&corsAllow, "cors-allow", "", "value for Access-Control-Allow-Origin")
	flags.StringVar(&logFile, "log", "", "log file for results (default stderr)")
	flags.StringVar(&debugFile, "debug-log", "", "debug log file")
	flags.IntVar(&poolSize, "pool-size", 10, "number of guest sessions to warm up")
	flags.Float64Var(&inboundRPS, "inbound-rps", 0, "per-client inbound rate limit (0 disables)")
	flags.IntVar(&inboundBurst, "inbound-burst", 10, "per-client inbound burst")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig layers defaults, config file, environment, and flags.
func buildConfig(cmd *cobra.Command) (shadowprobe.Config, error) {
	cfg, err := shadowprobe.LoadConfig(configFile)
	if err != nil {
		return cfg, err
	}

	if v := os.Getenv("SHADOWPROBE_AUTH_KEY"); v != "" {
		cfg.AuthKey = v
	}

	set := cmd.Flags().Changed
	if set("host") || cfg.Host == "" {
		cfg.Host = host
	}
	if set("port") || cfg.Port == 0 {
		cfg.Port = port
	}
	if set("auth-key") {
		cfg.AuthKey = authKey
	}
	if set("cors-allow") {
		cfg.CORSAllow = corsAllow
	}
	if set("log") {
		cfg.LogFile = logFile
	}
	if set("debug-log") {
		cfg.DebugFile = debugFile
	}
	if set("pool-size") || cfg.PoolSize == 0 {
		cfg.PoolSize = poolSize
	}
	if set("inbound-rps") {
		cfg.InboundRPS = inboundRPS
	}
	if set("inbound-burst") {
		cfg.InboundBurst = inboundBurst
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	closeLogs, err := shadowprobe.SetupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLogs()

	if cfg.CORSAllow == "" {
		slog.Info("running without CORS headers")
	} else {
		slog.Info("allowing cross-origin requests", slog.String("origin", cfg.CORSAllow))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := shadowprobe.WarmUp(ctx, cfg)
	if err != nil {
		return err
	}

	handler := http.Handler(shadowprobe.Handler(pool, cfg.CORSAllow))
	handler = shadowprobe.RateLimitMiddleware(cfg.InboundRPS, cfg.InboundBurst)(handler)

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("listening", slog.String("addr", cfg.ListenAddr()), slog.Int("pool_size", cfg.PoolSize))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
