package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/edascope/internal/session"
	"github.com/KaramelBytes/edascope/internal/web"
	"github.com/spf13/cobra"
)

var (
	srvAddr string
	srvLoad loadFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive analysis page in the browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		popt, err := srvLoad.parserOptions(c)
		if err != nil {
			return err
		}
		addr := c.ListenAddr
		if srvAddr != "" {
			addr = srvAddr
		}
		sess := session.New(session.Options{Parse: popt, Analysis: analysisOptions(c)})
		srv, err := web.New(sess, web.Config{Addr: addr, MaxUploadBytes: int64(c.MaxUploadMB) << 20})
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving on http://%s (Ctrl+C to stop)\n", displayAddr(addr))
		return srv.ListenAndServe(ctx)
	},
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func init() {
	rootCmd.AddCommand(serveCmd)
	srvLoad.register(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (default from config, :8080)")
}
