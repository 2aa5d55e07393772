/*
 * This file is part of the Go Cesium Point Cloud Tiler distribution (https://github.com/mfbonfigli/gocesiumtiler).
 * Copyright (c) 2019 Massimo Federico Bonfigli - m.federico.bonfigli@gmail.com
 *
 * This program is free software; you can redistribute it and/or modify it
 * under the terms of the GNU Lesser General Public License Version 3 as
 * published by the Free Software Foundation;
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program. If not, see <http://www.gnu.org/licenses/>.
 *
 * This software also uses third party components. You can find information
 * on their credits and licensing in the file LICENSE-3RD-PARTIES.md that
 * you should have received togheter with the source code.
 */

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ecopia-map/vector_tiler/internal/tiler"
	"github.com/ecopia-map/vector_tiler/internal/tree"
	"github.com/ecopia-map/vector_tiler/pkg"
	"github.com/ecopia-map/vector_tiler/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/vector_tiler/tools"
	"github.com/golang/glog"
	"github.com/google/uuid"
)

const VERSION = "0.4.0"

const logo = `
                 _                 _   _ _
 __   _____  ___| |_ ___  _ __    | |_(_) | ___ _ __
 \ \ / / _ \/ __| __/ _ \| '__|   | __| | |/ _ \ '__|
  \ V /  __/ (__| || (_) | |      | |_| | |  __/ |
   \_/ \___|\___|\__\___/|_|       \__|_|_|\___|_|
  Hierarchical vector regions from sampled images
  Copyright YYYY
`

func main() {
	flagsGlobal := tools.ParseFlagsGlobal()
	defer glog.Flush()

	if *flagsGlobal.Help {
		showHelp()
		return
	}
	if *flagsGlobal.Version {
		printVersion()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		glog.Fatal("Please specify a subcommand [svg|mesh|verify].")
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case tools.CommandSvg:
		mainCommandSvg(args)
	case tools.CommandMesh:
		mainCommandMesh(args)
	case tools.CommandVerify:
		mainCommandVerify(args)
	default:
		glog.Fatalf("Unrecognized command [%q]. Command must be one of [svg|mesh|verify]", cmd)
	}
}

func mainCommandSvg(args []string) {
	flags := tools.ParseFlagsForCommandSvg(args)
	if handleCommonFlags(&flags.TilerFlags) {
		return
	}

	opts := buildTilerOptions(&flags.TilerFlags)
	opts.Command = tools.CommandSvg
	opts.TilerSvgOptions = &tiler.TilerSvgOptions{
		Output: *flags.Output,
	}
	applyAppearanceFlags(opts, &flags)

	run(pkg.NewTilerSvg(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)), opts)
}

func mainCommandMesh(args []string) {
	flags := tools.ParseFlagsForCommandMesh(args)
	if handleCommonFlags(&flags.TilerFlags) {
		return
	}

	opts := buildTilerOptions(&flags.TilerFlags)
	opts.Command = tools.CommandMesh
	opts.TilerMeshOptions = &tiler.TilerMeshOptions{
		Output:  *flags.Output,
		ZOffset: *flags.ZOffset,
		Extrude: *flags.Extrude,
	}

	run(pkg.NewTilerMesh(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)), opts)
}

func mainCommandVerify(args []string) {
	flags := tools.ParseFlagsForCommandVerify(args)
	if handleCommonFlags(&flags.TilerFlags) {
		return
	}

	opts := buildTilerOptions(&flags.TilerFlags)
	opts.Command = tools.CommandVerify
	opts.TilerVerifyOptions = &tiler.TilerVerifyOptions{
		Tolerance: *flags.Tolerance,
	}

	run(pkg.NewTilerVerify(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)), opts)
}

// Handles help, version and logging flags. Returns true when the command should stop.
func handleCommonFlags(flags *tools.TilerFlags) bool {
	if *flags.Help {
		showHelp()
		return true
	}
	if *flags.Version {
		printVersion()
		return true
	}

	// set logging and timestamp logging
	if *flags.Silent {
		tools.DisableLogger()
	} else {
		tools.EnableLogger()
		printLogo()
	}
	if *flags.LogTimestamp {
		tools.EnableLoggerTimestamp()
	} else {
		tools.DisableLoggerTimestamp()
	}
	return false
}

// Puts the flags, and the config file if given, inside a TilerOptions struct. Flags given on the
// command line win over the config file.
func buildTilerOptions(flags *tools.TilerFlags) *tiler.TilerOptions {
	opts := &tiler.TilerOptions{
		Input:            *flags.Input,
		FolderProcessing: *flags.FolderProcessing,
		Recursive:        *flags.RecursiveFolderProcessing,
		BorderWidth:      *flags.BorderWidth,
		MetricsFile:      *flags.MetricsFile,
		Appearance:       tiler.NewDefaultAppearanceOptions(),
	}

	if *flags.Config != "" {
		cfg, err := tiler.LoadConfigFile(*flags.Config)
		if err != nil {
			glog.Fatal("Error parsing config file: ", err)
		}
		cfg.ApplyTo(opts)
		if flags.Set["border"] {
			opts.BorderWidth = *flags.BorderWidth
		}
	}

	if len(opts.Layers) == 0 {
		opts.Layers = []*tiler.LayerOptions{tiler.NewDefaultLayerOptions()}
		applyLayerFlags(opts.Layers[0], flags, func(string) bool { return true })
	} else {
		for _, l := range opts.Layers {
			applyLayerFlags(l, flags, func(name string) bool { return flags.Set[name] })
		}
	}

	if flags.Set["seed"] || opts.Seed == "" {
		opts.Seed = *flags.Seed
	}
	if opts.Seed == "" {
		opts.Seed = uuid.New().String()
		glog.Infoln("Using generated seed", opts.Seed)
	}

	// Validate TilerOptions
	if msg, res := validateOptions(opts); !res {
		glog.Fatal("Error parsing input parameters: " + msg)
	}
	return opts
}

func applyLayerFlags(l *tiler.LayerOptions, flags *tools.TilerFlags, isSet func(name string) bool) {
	if isSet("structure") {
		l.Structure = tiler.Structure(*flags.Structure)
	}
	if isSet("criteria") {
		l.Criteria = tiler.Criteria(*flags.Criteria)
	}
	if isSet("from") {
		l.From = *flags.From
	}
	if isSet("to") {
		l.To = *flags.To
	}
	if isSet("max-level") {
		l.MaxLevel = *flags.MaxLevel
	}
	if isSet("min-area") {
		l.MinArea = *flags.MinArea
	}
	if isSet("color-mode") {
		l.ColorMode = tree.ColorMode(*flags.ColorMode)
	}
}

func applyAppearanceFlags(opts *tiler.TilerOptions, flags *tools.FlagsForCommandSvg) {
	a := opts.Appearance
	set := flags.Set
	useFlag := func(name string) bool {
		return set[name] || *flags.Config == ""
	}
	if useFlag("border-mode") {
		a.BorderMode = tiler.BorderMode(*flags.BorderMode)
	}
	if useFlag("color-scheme") {
		a.ColorScheme = tiler.ColorScheme(*flags.ColorScheme)
	}
	if useFlag("border0") {
		a.Border0 = *flags.Border0
	}
	if useFlag("border1") {
		a.Border1 = *flags.Border1
	}
	if useFlag("color0") {
		a.Color0 = *flags.Color0
	}
	if useFlag("color1") {
		a.Color1 = *flags.Color1
	}
	if useFlag("precision") {
		a.Precision = *flags.Precision
	}
	if err := a.Validate(); err != nil {
		glog.Fatal("Error parsing input parameters: ", err)
	}
}

// Validates the input options provided to the command line tool checking that the input exists
func validateOptions(opts *tiler.TilerOptions) (string, bool) {
	if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
		return "Input file/folder not found", false
	}
	if err := opts.Validate(); err != nil {
		return err.Error(), false
	}
	return "", true
}

// Starts the tiler
func run(t pkg.ITiler, opts *tiler.TilerOptions) {
	defer tools.TimeTrack(time.Now(), opts.Command)

	if err := t.RunTiler(opts); err != nil {
		glog.Fatal("Error while tiling: ", err)
	}
	tools.LogOutput("Conversion Completed")
}

func printLogo() {
	fmt.Println(strings.ReplaceAll(logo, "YYYY", strconv.Itoa(time.Now().Year())))
}

func showHelp() {
	printLogo()
	fmt.Println("***")
	fmt.Println("vector_tiler carves sampled image points into nested colored regions and exports them as SVG or as a triangle mesh")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Usage: vector_tiler [global flags] svg|mesh|verify [command flags]")
	fmt.Println("Global flags: ")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
	fmt.Println("Run a command with -help to list its flags.")
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
