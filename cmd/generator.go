package cmd

import (
	"fmt"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kintrospect/kintrospect/internal/message"
	"github.com/kintrospect/kintrospect/internal/registry"
)

// generateCommands builds the platform -> category -> module command tree
// from the registry.
func generateCommands(root *cobra.Command) {
	for platform, categories := range registry.GetHierarchy() {
		platformCmd := &cobra.Command{
			Use:   platform,
			Short: fmt.Sprintf("%s platform commands", platform),
		}

		for category, modules := range categories {
			categoryCmd := &cobra.Command{
				Use:   category,
				Short: fmt.Sprintf("%s commands for %s", category, platform),
			}
			for _, module := range modules {
				generateModuleCommand(module, categoryCmd)
			}
			platformCmd.AddCommand(categoryCmd)
		}

		root.AddCommand(platformCmd)
	}
}

func generateModuleCommand(moduleName string, parent *cobra.Command) {
	entry, ok := registry.GetEntry(moduleName)
	if !ok {
		return
	}

	cmd := &cobra.Command{
		Use:   moduleName,
		Short: entry.Module.Metadata().Description,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModule(cmd, entry.Module)
		},
	}

	// Modules can declare the same parameter through several links; each
	// becomes one flag.
	seen := make(map[string]bool)
	for _, param := range entry.Module.Params() {
		if seen[param.Name()] {
			continue
		}
		seen[param.Name()] = true
		addFlag(cmd, param)
	}

	parent.AddCommand(cmd)
}

// isShorthandAvailable checks whether a shorthand letter is still free on cmd.
func isShorthandAvailable(flags *pflag.FlagSet, shorthand string) bool {
	if shorthand == "" {
		return false
	}
	found := false
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Shorthand == shorthand {
			found = true
		}
	})
	return !found
}

func addFlag(cmd *cobra.Command, param cfg.Param) {
	name := param.Name()

	shorthand := ""
	if sc := param.Shortcode(); len(sc) > 0 {
		if candidate := string(sc[0]); isShorthandAvailable(cmd.Flags(), candidate) {
			shorthand = candidate
		}
	}

	description := param.Description()
	if param.Required() {
		description += " (required)"
	}

	switch param.Type() {
	case "string":
		defaultVal := ""
		if param.HasDefault() {
			defaultVal, _ = cfg.As[string](param.Value())
		}
		cmd.Flags().StringP(name, shorthand, defaultVal, description)
	case "int":
		defaultVal := 0
		if param.HasDefault() {
			defaultVal, _ = cfg.As[int](param.Value())
		}
		cmd.Flags().IntP(name, shorthand, defaultVal, description)
	case "bool":
		defaultVal := false
		if param.HasDefault() {
			defaultVal, _ = cfg.As[bool](param.Value())
		}
		cmd.Flags().BoolP(name, shorthand, defaultVal, description)
	case "[]string":
		defaultVal := []string{}
		if param.HasDefault() {
			defaultVal, _ = cfg.As[[]string](param.Value())
		}
		cmd.Flags().StringSliceP(name, shorthand, defaultVal, description)
	}

	if param.Required() {
		cmd.MarkFlagRequired(name)
	}
}

func runModule(cmd *cobra.Command, module chain.Module) error {
	var configs []cfg.Config
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		name := flag.Name
		// Config file values back unset flags; explicit flags win.
		if !flag.Changed && !viper.IsSet(name) {
			return
		}

		switch flag.Value.Type() {
		case "bool":
			value, _ := cmd.Flags().GetBool(name)
			if !flag.Changed {
				value = viper.GetBool(name)
			}
			configs = append(configs, cfg.WithArg(name, value))
		case "int":
			value, _ := cmd.Flags().GetInt(name)
			if !flag.Changed {
				value = viper.GetInt(name)
			}
			configs = append(configs, cfg.WithArg(name, value))
		case "stringSlice":
			value, _ := cmd.Flags().GetStringSlice(name)
			if !flag.Changed {
				value = viper.GetStringSlice(name)
			}
			configs = append(configs, cfg.WithArg(name, value))
		case "string":
			value, _ := cmd.Flags().GetString(name)
			if !flag.Changed {
				value = viper.GetString(name)
			}
			configs = append(configs, cfg.WithArg(name, value))
		default:
			configs = append(configs, cfg.WithArg(name, flag.Value.String()))
		}
	})

	message.Banner()
	message.Section("Running module %s", module.Metadata().Name)
	module.Run(configs...)
	return module.Error()
}
