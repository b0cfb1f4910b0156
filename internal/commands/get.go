package commands

import (
	"errors"
	"fmt"

	"mistralchat/internal/settings"
)

// GetCommand shows the effective settings
type GetCommand struct{}

func (c *GetCommand) Name() string  { return "/get" }
func (c *GetCommand) Usage() string { return "/get [key] - show settings (" + keyList() + ")" }

func (c *GetCommand) Execute(ctx Context) {
	s, err := ctx.GetProvider().Resolve()
	if err != nil && !errors.Is(err, settings.ErrNotConfigured) {
		ctx.Reply(err.Error())
		return
	}

	args := ctx.GetArgs()
	if len(args) < 2 {
		for _, key := range getSettingsKeys() {
			ctx.Reply(fmt.Sprintf("%s: %s", key, settingsFields[key].getter(s)))
		}
		return
	}

	param := args[1]
	field, ok := settingsFields[param]
	if !ok {
		ctx.Reply(fmt.Sprintf("Unknown key %s. Available keys: %s", param, keyList()))
		return
	}
	ctx.Reply(fmt.Sprintf("%s: %s", param, field.getter(s)))
}
