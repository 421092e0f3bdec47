package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/coreos/go-systemd/daemon"
	"github.com/fitvision/formcheck/server"
)

func main() {
	parser := argparse.NewParser("formcheck", "Exercise form analysis service")
	configFile := parser.String("c", "config", &argparse.Options{Help: "Configuration file", Required: true})
	port := parser.Int("p", "port", &argparse.Options{Help: "HTTP listen port", Default: 8080})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	srv, err := server.NewServer(*configFile)
	if err != nil {
		fmt.Printf("Failed to start server: %v\n", err)
		os.Exit(1)
	}
	srv.ListenForKillSignals()

	// Tell systemd that we're alive
	daemon.SdNotify(false, daemon.SdNotifyReady)

	if err := srv.ListenHTTP(fmt.Sprintf(":%v", *port)); err != nil {
		srv.Log.Infof("ListenHTTP returned: %v", err)
	}
}
