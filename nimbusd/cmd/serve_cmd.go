package cmd

import (
	"fmt"
	"log"
	"net"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nimbustrace/nimbus/config"
	"github.com/nimbustrace/nimbus/daemon"
	"github.com/nimbustrace/nimbus/emitter"
)

var (
	servePort   int
	serveUDP    string
	openBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Collect traces over UDP and serve them over HTTP",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.SilenceUsage = true

		config.LoadDotEnv()

		logger, err := zap.NewProduction()
		if err != nil {
			log.Fatalf("Error creating logger: %v", err)
		}
		defer logger.Sync()

		udpAddr := serveUDP
		if udpAddr == "" {
			udpAddr = config.DaemonAddr(emitter.DefaultDaemonAddr)
		}

		d := daemon.NewDaemon().
			WithPortNumber(servePort).
			WithUDPAddr(udpAddr).
			WithLogger(logger)

		d.StartUDP()
		httpAddr := d.StartServer()

		if openBrowser {
			url := fmt.Sprintf("http://localhost:%d",
				httpAddr.(*net.TCPAddr).Port)
			if err := browser.OpenURL(url); err != nil {
				logger.Warn("open browser", zap.Error(err))
			}
		}

		select {}
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"HTTP port of the viewer (0 picks a random port)")
	serveCmd.Flags().StringVar(&serveUDP, "udp", "",
		"UDP address to collect traces on")
	serveCmd.Flags().BoolVar(&openBrowser, "open-browser", false,
		"Open the viewer in a browser once the server is up")

	rootCmd.AddCommand(serveCmd)
}
