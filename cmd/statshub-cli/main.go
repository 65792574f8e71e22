package main

import (
	"statshub-collector/cmd/statshub-cli/commands"
	"statshub-collector/lib/serviceutil"
)

func main() {
	commands.Execute(serviceutil.SignalContext())
}
