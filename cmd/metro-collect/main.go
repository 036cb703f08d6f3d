package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/connectdotz/metro/internal/logger"
	"github.com/connectdotz/metro/pkg/api"
)

type flags struct {
	asyncRequireModulePath string
	dynamicRequires        string
	keepRequireNames       bool
	dependencyMapName      string
	jsonOutput             bool
	output                 string
	verbose                bool
}

func main() {
	f := flags{}

	rootCmd := &cobra.Command{
		Use:   "metro-collect [flags] file.js",
		Short: "Collect and rewrite the static dependencies of a JavaScript module",
		Long: "metro-collect parses a JavaScript module, discovers every static\n" +
			"dependency it declares (require, import(), __jsResource, __prefetchImport,\n" +
			"and import/export declarations), rewrites the call sites to resolve\n" +
			"through a numeric dependency map, and reports the dependencies found.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f, args[0])
		},
	}

	rootCmd.Flags().StringVar(&f.asyncRequireModulePath, "async-require-module-path", "asyncRequire",
		"module specifier of the runtime async require implementation")
	rootCmd.Flags().StringVar(&f.dynamicRequires, "dynamic-requires", "reject",
		"how to treat unresolvable require calls: reject or throwAtRuntime")
	rootCmd.Flags().BoolVar(&f.keepRequireNames, "keep-require-names", true,
		"keep the resolved specifier as a string hint in rewritten calls")
	rootCmd.Flags().StringVar(&f.dependencyMapName, "dependency-map-name", "",
		"use this dependency map identifier instead of generating one")
	rootCmd.Flags().BoolVar(&f.jsonOutput, "json", false,
		"print the dependency summary as JSON instead of the transformed code")
	rootCmd.Flags().StringVarP(&f.output, "output", "o", "",
		"write the transformed code to this file instead of stdout")
	rootCmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false,
		"enable trace logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags, file string) error {
	contents, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	var dynamicRequires api.DynamicRequires
	switch f.dynamicRequires {
	case "reject":
		dynamicRequires = api.DynamicRequiresReject
	case "throwAtRuntime":
		dynamicRequires = api.DynamicRequiresThrowAtRuntime
	default:
		return fmt.Errorf("invalid value %q for --dynamic-requires (want reject or throwAtRuntime)", f.dynamicRequires)
	}

	var log *zap.Logger
	if f.verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer log.Sync()
	}

	result := api.Collect(api.CollectOptions{
		File:                   file,
		Contents:               string(contents),
		AsyncRequireModulePath: f.asyncRequireModulePath,
		DynamicRequires:        dynamicRequires,
		KeepRequireNames:       f.keepRequireNames,
		DependencyMapName:      f.dependencyMapName,
		Logger:                 log,
	})

	if len(result.Errors) > 0 {
		printErrors(result.Errors)
		os.Exit(1)
	}

	if f.jsonOutput {
		summary := struct {
			Dependencies      []api.Dependency `json:"dependencies"`
			DependencyMapName string           `json:"dependencyMapName"`
		}{
			Dependencies:      result.Dependencies,
			DependencyMapName: result.DependencyMapName,
		}
		encoded, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	}

	if f.output != "" {
		return os.WriteFile(f.output, []byte(result.Code), 0644)
	}

	fmt.Print(result.Code)
	return nil
}

func printErrors(errors []api.Message) {
	terminalInfo := logger.GetTerminalInfo(os.Stderr)
	for _, msg := range errors {
		location := ""
		if msg.File != "" {
			location = fmt.Sprintf("%s:%d:%d: ", msg.File, msg.Line, msg.Column)
		}
		if terminalInfo.UseColorEscapes {
			fmt.Fprintf(os.Stderr, "\033[1m%s\033[31merror:\033[0;1m %s\033[0m\n", location, msg.Text)
		} else {
			fmt.Fprintf(os.Stderr, "%serror: %s\n", location, msg.Text)
		}
		if msg.LineText != "" {
			fmt.Fprintf(os.Stderr, "%s\n", msg.LineText)
		}
	}
}
