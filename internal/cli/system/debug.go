package system

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/garden"
	"github.com/julianstephens/steplog/internal/storage"
)

type DebugCmd struct {
	DBPath     DebugDBPathCmd     `cmd:"" name:"db-path" help:"Show the store location."`
	Keys       DebugKeysCmd       `cmd:"" help:"List stored keys."`
	DumpKey    DebugDumpKeyCmd    `cmd:"" help:"Dump the raw value of a key."`
	DumpDay    DebugDumpDayCmd    `cmd:"" help:"Dump a day record as JSON."`
	DumpGarden DebugDumpGardenCmd `cmd:"" help:"Dump the garden state as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return writeJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugKeysCmd struct {
	Prefix string `arg:"" optional:"" help:"Only list keys with this prefix."`
}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	keys, err := ctx.Store.Keys(ctx.Ctx(), cmd.Prefix)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintln(ctx.Stdout(), k)
	}
	return nil
}

type DebugDumpKeyCmd struct {
	Key string `arg:"" help:"Key to dump."`
}

func (cmd *DebugDumpKeyCmd) Run(ctx *cli.Context) error {
	value, err := ctx.Store.Get(ctx.Ctx(), cmd.Key)
	if stderrors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no value stored for %s", cmd.Key)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.Key, err)
	}
	fmt.Fprintln(ctx.Stdout(), value)
	return nil
}

type DebugDumpDayCmd struct {
	Date string `arg:"" help:"Day to dump (YYYY-MM-DD or 'today')." default:"today"`
}

func (cmd *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	date := cmd.Date
	if date == "today" {
		date = ctx.Today()
	}
	record, ok, err := ctx.Days.GetDayData(ctx.Ctx(), date)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no record for %s", date)
	}
	return writeJSON(ctx, record)
}

type DebugDumpGardenCmd struct{}

func (cmd *DebugDumpGardenCmd) Run(ctx *cli.Context) error {
	streak, err := ctx.Garden.GetStreakData(ctx.Ctx())
	if err != nil && !garden.IsIncomplete(err) {
		return err
	}
	plants, err := ctx.Garden.GetBloomedPlants(ctx.Ctx())
	if err != nil {
		return err
	}
	return writeJSON(ctx, map[string]interface{}{
		"streak":  streak,
		"bloomed": plants,
	})
}

func writeJSON(ctx *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(ctx.Stdout(), string(data))
	return nil
}
