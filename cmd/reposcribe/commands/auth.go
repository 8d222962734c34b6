package commands

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jrsteele09/reposcribe/internal/app"
	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/jrsteele09/reposcribe/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// openBrowser launches the system browser. Failure is not fatal: the URL is
// also printed.
var openBrowser = func(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in with GitHub",
		Long: `Opens the GitHub authorization page and waits for the redirect on the local
callback address (PUBLIC_URL + /auth/callback).`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			a.Sessions.EndSession()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// NewWhoamiCommand creates the whoami command
func NewWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in GitHub account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if err := requireSession(cmd.Context(), a); err != nil {
				return err
			}
			user := a.Sessions.Session().User
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.DisplayName(), user.Login)
			if user.Email != "" {
				fmt.Fprintln(cmd.OutOrStdout(), user.Email)
			}
			return nil
		},
	}
}

// requireSession validates the stored token and fails when nobody is signed in.
func requireSession(ctx context.Context, a *app.App) error {
	if err := a.Sessions.CheckSession(ctx); err != nil {
		log.Debug().Err(err).Msg("session check failed")
	}
	s := a.Sessions.Session()
	if !s.Authenticated {
		if s.Error != "" {
			return fmt.Errorf("%s, run \"reposcribe login\"", s.Error)
		}
		return fmt.Errorf("not signed in, run \"reposcribe login\"")
	}
	return nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return login(ctx, a, cmd.OutOrStdout())
}

// login serves the callback routes on the configured port until one login
// completes, fails or the pending login expires.
func login(ctx context.Context, a *app.App, out io.Writer) error {
	listener, err := net.Listen("tcp", a.Config.GetListenAddr())
	if err != nil {
		return fmt.Errorf("failed to listen for the login callback: %w", err)
	}

	results := make(chan error, 1)
	finish := func(w http.ResponseWriter, err error) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, "Login failed. You can close this window and try again.")
		} else {
			fmt.Fprintln(w, "Login complete. You can close this window.")
		}
		select {
		case results <- err:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+server.RouteAuthCallback, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if errorParam := query.Get("error"); errorParam != "" {
			finish(w, fmt.Errorf("authorization denied: %s", errorParam))
			return
		}
		_, err := a.Sessions.CompleteLogin(r.Context(), query.Get("code"), query.Get("state"))
		if errors.Is(err, errors.ErrCodeAlreadyUsed) {
			fmt.Fprintln(w, "Login already handled. You can close this window.")
			return
		}
		finish(w, err)
	})
	mux.HandleFunc("GET "+server.RouteAuthSuccess, func(w http.ResponseWriter, r *http.Request) {
		finish(w, a.Sessions.AcceptToken(r.Context(), r.URL.Query().Get("accessToken")))
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Err(err).Msg("login callback server stopped")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	loginURL, err := a.Sessions.BeginLogin(server.RouteIndex)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Opening %s\n", loginURL)
	if err := openBrowser(loginURL); err != nil {
		fmt.Fprintln(out, "Could not open a browser, visit the address above to continue.")
	}

	timeout := time.NewTimer(a.Config.GetLoginStateTimeout())
	defer timeout.Stop()
	select {
	case err := <-results:
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
	case <-timeout.C:
		return fmt.Errorf("login timed out")
	case <-ctx.Done():
		return ctx.Err()
	}

	fmt.Fprintf(out, "Logged in as %s\n", a.Sessions.Session().User.DisplayName())
	return nil
}
