package main

import (
	"asnatlas/cmd/asnatlas/commands"
	"asnatlas/lib/serviceutil"
)

func main() {
	commands.Execute(serviceutil.SignalContext())
}
