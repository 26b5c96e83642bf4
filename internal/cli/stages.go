package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hknu/puzzle/apps/go-server/internal/puzzle"
	"github.com/hknu/puzzle/apps/go-server/internal/stage"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Inspect the stage catalogue",
}

var stagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stages",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadStages()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, st := range cat.All() {
			b := st.Board()
			fmt.Fprintf(out, "%3d  %-24s %-6s %dx%d  words=%d cells=%d\n",
				st.ID, st.Title, st.Difficulty, st.GridSize.Rows, st.GridSize.Cols, len(st.Words), b.Total)
		}
		return nil
	},
}

var errDefectiveStages = errors.New("stage catalogue has defects")

var stagesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Build every stage strictly and report defects",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadStages()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		bad := 0
		for _, st := range cat.All() {
			if err := st.Validate(); err != nil {
				bad++
				fmt.Fprintf(out, "FAIL %v\n", err)
				for _, d := range st.Board().Diagnostics {
					fmt.Fprintf(out, "     %s\n", d)
				}
				continue
			}
			fmt.Fprintf(out, "ok   stage %d\n", st.ID)
		}
		if bad > 0 {
			return fmt.Errorf("%w: %d of %d stages", errDefectiveStages, bad, cat.Count())
		}
		return nil
	},
}

var showAnswers bool

var stagesShowCmd = &cobra.Command{
	Use:   "show <n>",
	Short: "Print the grid and hints of a stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := lookupStage(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Stage %d: %s (%s)\n\n", st.ID, st.Title, st.Difficulty)
		b := st.Board()
		renderGrid(out, b.Grid, showAnswers)
		fmt.Fprintln(out)
		renderHints(out, "Across", b.Hints.Across)
		renderHints(out, "Down", b.Hints.Down)
		return nil
	},
}

// renderGrid draws blocked cells as ■ and open cells as □ (or their answer).
func renderGrid(w io.Writer, g *puzzle.Grid, answers bool) {
	for _, row := range g.Cells {
		cells := make([]string, len(row))
		for c, cell := range row {
			switch {
			case cell.Blocked:
				cells[c] = "■"
			case answers:
				cells[c] = cell.Answer
			default:
				cells[c] = "□"
			}
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
}

func renderHints(w io.Writer, title string, entries []puzzle.HintEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, e := range entries {
		fmt.Fprintf(w, "  %d. %s (%d)\n", e.Number, e.Text, e.Length)
	}
}

func init() {
	stagesShowCmd.Flags().BoolVar(&showAnswers, "answers", false, "reveal the answer syllables")

	stagesCmd.AddCommand(stagesListCmd)
	stagesCmd.AddCommand(stagesValidateCmd)
	stagesCmd.AddCommand(stagesShowCmd)
}

// lookupStage is used by commands taking a stage argument.
func lookupStage(arg string) (*stage.Stage, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("stage number: %w", err)
	}
	cat, err := loadStages()
	if err != nil {
		return nil, err
	}
	st := cat.Lookup(n)
	if st == nil {
		return nil, fmt.Errorf("stage %d not found", n)
	}
	return st, nil
}
