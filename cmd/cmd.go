package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/igor04091968/tunswitch/config"
)

func ParseCmd() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "show version")

	historyCmd := flag.NewFlagSet("history", flag.ExitOnError)
	var limit int
	historyCmd.IntVar(&limit, "n", 20, "number of journal entries to show")

	statusCmd := flag.NewFlagSet("status", flag.ExitOnError)

	oldUsage := flag.Usage
	flag.Usage = func() {
		oldUsage()
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("    up          bring the tunnel path up until SIGINT or SIGTERM (default)")
		fmt.Println("    history     show the transition journal")
		fmt.Println("    status      show options, tunnel device and last transition")
		fmt.Println("    version     show version")
		fmt.Println()
		fmt.Println("Environment:")
		fmt.Println("    TUNSWITCH_CONFIG       options file (YAML)")
		fmt.Println("    TUNSWITCH_DB_FOLDER    journal folder")
		fmt.Println("    TUNSWITCH_LOG_LEVEL    debug|info|warn|error")
	}

	flag.Parse()
	if showVersion {
		fmt.Println(config.GetName(), config.GetVersion())
		return
	}

	switch os.Args[1] {
	case "history":
		err := historyCmd.Parse(os.Args[2:])
		if err != nil {
			fmt.Println(err)
			return
		}
		showHistory(limit)
	case "status":
		err := statusCmd.Parse(os.Args[2:])
		if err != nil {
			fmt.Println(err)
			return
		}
		showStatus()
	case "version":
		fmt.Println(config.GetName(), config.GetVersion())
	default:
		fmt.Println("Invalid subcommands")
		fmt.Println()
		flag.Usage()
		historyCmd.Usage()
		statusCmd.Usage()
	}
}
