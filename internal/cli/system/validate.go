package system

import (
	"fmt"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	w := ctx.Stdout()

	fmt.Fprintln(w, "Validating day records...")
	days, err := ctx.Days.AllDays(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to load day records: %w", err)
	}
	result := validation.ValidateDays(days, ctx.Today())

	fmt.Fprintln(w, "Validating bloomed collection...")
	plants, err := ctx.Garden.GetBloomedPlants(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to load bloomed collection: %w", err)
	}
	result.Merge(validation.ValidateBloomed(plants))

	fmt.Fprintln(w)
	fmt.Fprint(w, result.FormatReport())
	if !result.HasConflicts() {
		fmt.Fprintln(w)
		return nil
	}
	return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
}
