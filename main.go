package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/igor04091968/tunswitch/app"
	"github.com/igor04091968/tunswitch/cmd"
)

func runApp() {
	app := app.NewApp()

	err := app.Init()
	if err != nil {
		log.Fatal(err)
	}

	err = app.Start()
	if err != nil {
		app.Stop()
		log.Fatal(err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	app.Stop()
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "up" {
		runApp()
		return
	}
	cmd.ParseCmd()
}
