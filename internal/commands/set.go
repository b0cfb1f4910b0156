package commands

import (
	"errors"
	"fmt"
	"strings"

	"mistralchat/internal/settings"
)

// SetCommand writes one field to the settings file
type SetCommand struct{}

func (c *SetCommand) Name() string  { return "/set" }
func (c *SetCommand) Usage() string { return "/set <key> <value> - store a setting (" + keyList() + ")" }

func (c *SetCommand) Execute(ctx Context) {
	args := ctx.GetArgs()
	if len(args) < 3 {
		ctx.Reply(fmt.Sprintf("Usage: /set <key> <value>. Available keys: %s", keyList()))
		return
	}

	param, value := args[1], strings.Join(args[2:], " ")
	field, ok := settingsFields[param]
	if !ok {
		ctx.Reply(fmt.Sprintf("Unknown key. Available keys: %s", keyList()))
		return
	}

	file := ctx.GetSettingsFile()
	current, err := file.Load()
	if errors.Is(err, settings.ErrNotConfigured) {
		current, err = settings.Default(), nil
	}
	if err != nil {
		ctx.GetLogger().Errorw("settings_load_failed", "path", file.Path, "error", err)
		ctx.Reply(err.Error())
		return
	}

	if err := field.setter(&current, value); err != nil {
		ctx.Reply(err.Error())
		return
	}
	if err := file.Save(current); err != nil {
		ctx.GetLogger().Errorw("settings_save_failed", "path", file.Path, "error", err)
		ctx.Reply(fmt.Sprintf("Failed: %v", err))
		return
	}

	ctx.GetLogger().Infow("settings_changed", "key", param, "path", file.Path)
	ctx.Reply(fmt.Sprintf("%s set to: %s", param, field.getter(current)))
	if ov, ok := overridden(ctx, field); ok {
		ctx.Reply(fmt.Sprintf("Note: a flag or environment override is active, %s stays %s", param, field.getter(ov)))
	}
}
