package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spriteflow/pkg/format"
	"github.com/matzehuels/spriteflow/pkg/pack"
	"github.com/matzehuels/spriteflow/pkg/style"
)

var engineDescriptions = map[string]string{
	format.EngineImage:  "raster spritesheets (png, jpeg)",
	format.EngineVector: "svg spritesheets (not implemented)",
}

// enginesCommand lists the registered engines and supported formats.
func (c *CLI) enginesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List packing engines and supported formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := format.DefaultTables()

			fmt.Println(StyleTitle.Render("Engines"))
			for _, name := range c.newRegistry().Names() {
				desc := engineDescriptions[name]
				if desc == "" {
					desc = "custom engine"
				}
				printKeyValue(name, desc)
				if exts := tables.Engines.ExtensionsFor(name); len(exts) > 0 {
					printDetail("extensions: %s", strings.Join(exts, ", "))
				}
			}

			fmt.Println()
			fmt.Println(StyleTitle.Render("Formats"))
			printKeyValue("stylesheet", strings.Join(style.NewTemplates().Formats(), ", "))
			printKeyValue("layout", strings.Join(pack.Algorithms, ", "))
			return nil
		},
	}
}
