package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gogpu/layers"
	"github.com/gogpu/layers/raster"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var showModes bool

	cmd := &cobra.Command{
		Use:   "inspect <recipe.toml>",
		Short: "List the layers a recipe builds",
		Long: `Build the layer stack described by a recipe and print it from top to bottom.

Hidden layers are dimmed. --modes also lists the blend modes the raster
backend supports.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := buildRecipe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("Built stack", "recipe", args[0], "layers", st.Len())

			out := cmd.OutOrStdout()
			printStack(out, args[0], st)
			if showModes {
				fmt.Fprintln(out)
				printKeyValue(out, "modes", strings.Join(raster.BlendModes(), ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showModes, "modes", false, "list supported blend modes")

	return cmd
}

// printStack writes the stack top layer first, as layer panels show it.
func printStack(w io.Writer, title string, st *layers.Store[*raster.Canvas]) {
	width, height := st.Size()
	fmt.Fprintln(w, StyleTitle.Render(title))
	printKeyValue(w, "size", fmt.Sprintf("%dx%d", width, height))
	printKeyValue(w, "layers", StyleNumber.Render(fmt.Sprint(st.Len())))
	fmt.Fprintln(w)

	all := st.All()
	for i := len(all) - 1; i >= 0; i-- {
		fmt.Fprintln(w, layerLine(i, all[i]))
	}
}

func layerLine(pos int, l *layers.Layer[*raster.Canvas]) string {
	index := lipgloss.NewStyle().Width(4).Render(fmt.Sprintf("%d", pos))
	name := lipgloss.NewStyle().Width(20).Render(l.Name())
	mode := lipgloss.NewStyle().Width(18).Render(l.BlendMode)
	size := fmt.Sprintf("%dx%d", l.Width(), l.Height())

	line := index + name + mode + size
	if l.Hidden {
		return StyleDim.Render(line + "  " + iconHidden)
	}
	return StyleValue.Render(line)
}
