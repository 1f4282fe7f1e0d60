package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/igor04091968/tunswitch/config"
	"github.com/igor04091968/tunswitch/database"
	"github.com/igor04091968/tunswitch/service"

	"gopkg.in/yaml.v3"
)

func showStatus() {
	opts, err := config.LoadOptions(config.GetOptionsPath())
	if err != nil {
		fmt.Println("load options failed:", err)
		return
	}
	out, err := yaml.Marshal(opts)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Options:")
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		fmt.Println("\t" + line)
	}

	info, err := service.NewInterfaceService().GetInterface(opts.Device)
	switch {
	case err != nil:
		fmt.Println("Device:\t", opts.Device, "unknown:", err)
	case info == nil:
		fmt.Println("Device:\t", opts.Device, "not present")
	default:
		state := "down"
		if info.Up {
			state = "up"
		}
		fmt.Println("Device:\t", info.Name, state, "mtu", info.MTU, strings.Join(info.Addrs, " "))
	}

	if opts.Journal {
		transitionService, err := openJournal()
		if err != nil {
			fmt.Println(err)
		} else {
			records, err := transitionService.GetHistory(1)
			database.CloseDB()
			switch {
			case err != nil:
				fmt.Println("get journal failed, error info:", err)
			case len(records) == 0:
				fmt.Println("Last transition:\t none")
			default:
				fmt.Println("Last transition:")
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				printRecord(w, records[0])
				w.Flush()
			}
		}
	}
}
