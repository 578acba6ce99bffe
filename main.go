package main

import (
	"github.com/alecthomas/kong"

	"droscher.com/Portafilter/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("portafilter"), kong.Description("Portafilter is an espresso shot log for dialing in beans."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug, EnvFile: cmd.CLI.EnvFile})
	ctx.FatalIfErrorf(err)
}
