package main

var (
	rootFlags struct {
		env     string
		network string
	}

	rootCommand = NewCommand("admin", "operate the deeper archive indexer", nil)
)

func init() {
	rootCommand.Command.SilenceUsage = true
	rootCommand.StringVar(&rootFlags.env, "env", "local", false)
	rootCommand.StringVar(&rootFlags.network, "network", "", true)
}
