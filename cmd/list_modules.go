package cmd

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kintrospect/kintrospect/internal/registry"
)

var listModulesCmd = &cobra.Command{
	Use:   "list-modules",
	Short: "Display available modules in a tree structure",
	Run: func(cmd *cobra.Command, args []string) {
		displayModuleTree()
	},
}

func displayModuleTree() {
	bold := color.New(color.Bold)
	if noColorFlag {
		color.NoColor = true
	}

	hierarchy := registry.GetHierarchy()

	platforms := make([]string, 0, len(hierarchy))
	for platform := range hierarchy {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	for _, platform := range platforms {
		fmt.Printf("\n%s\n", bold.Sprint(platform))

		categories := make([]string, 0, len(hierarchy[platform]))
		for category := range hierarchy[platform] {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		for _, category := range categories {
			fmt.Printf("├─ %s\n", category)
			for _, name := range hierarchy[platform][category] {
				entry, ok := registry.GetEntry(name)
				if !ok {
					continue
				}
				fmt.Printf("  ├─ %s - %s\n", name, entry.Module.Metadata().Description)
			}
		}
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(listModulesCmd)
}
