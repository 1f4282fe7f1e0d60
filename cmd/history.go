package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/igor04091968/tunswitch/config"
	"github.com/igor04091968/tunswitch/database"
	"github.com/igor04091968/tunswitch/database/model"
	"github.com/igor04091968/tunswitch/service"
)

func openJournal() (*service.TransitionService, error) {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		return nil, err
	}
	return service.NewTransitionService(nil, database.GetDB()), nil
}

func showHistory(limit int) {
	transitionService, err := openJournal()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	records, err := transitionService.GetHistory(limit)
	if err != nil {
		fmt.Println("get journal failed, error info:", err)
		return
	}
	if len(records) == 0 {
		fmt.Println("journal is empty")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tPLATFORM\tDEVICE\tGATEWAY\tSTATUS\tBYPASS\tERROR")
	for _, r := range records {
		printRecord(w, r)
	}
	w.Flush()
}

func printRecord(w *tabwriter.Writer, r model.Transition) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		r.CreatedAt.Format(time.DateTime), r.Platform, r.Device, r.Gateway, r.Status, r.Bypass, r.Error)
}
