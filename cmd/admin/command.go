package main

import (
	"github.com/spf13/cobra"
)

type (
	Command struct {
		*cobra.Command
	}

	runFn func() error
)

func NewCommand(use string, short string, fn runFn) *Command {
	command := &cobra.Command{
		Use:   use,
		Short: short,
	}
	if fn != nil {
		command.RunE = func(cmd *cobra.Command, args []string) error {
			return fn()
		}
	}

	return &Command{
		Command: command,
	}
}

func (c *Command) AddCommand(subCommands ...*Command) {
	for _, subCommand := range subCommands {
		c.Command.AddCommand(subCommand.Command)
	}
}

func (c *Command) StringVar(p *string, name string, value string, required bool) {
	c.PersistentFlags().StringVar(p, name, value, "")
	if required {
		if err := c.MarkPersistentFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

func (c *Command) BoolVar(p *bool, name string, value bool, required bool) {
	c.PersistentFlags().BoolVar(p, name, value, "")
	if required {
		if err := c.MarkPersistentFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

func (c *Command) Uint64Var(p *uint64, name string, value uint64, required bool) {
	c.PersistentFlags().Uint64Var(p, name, value, "")
	if required {
		if err := c.MarkPersistentFlagRequired(name); err != nil {
			panic(err)
		}
	}
}
