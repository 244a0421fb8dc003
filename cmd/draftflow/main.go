package main

import (
	"draftflow/cmd/draftflow/commands"
	"draftflow/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
