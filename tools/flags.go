package tools

import (
	"flag"

	"github.com/ecopia-map/vector_tiler/internal/tiler"
	"github.com/golang/glog"
)

const (
	CommandSvg    = "svg"
	CommandMesh   = "mesh"
	CommandVerify = "verify"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

// Flags shared by every command: input lookup, layer definition and logging
type TilerFlags struct {
	Input                     *string `json:"input"`
	Config                    *string `json:"config"`
	Seed                      *string `json:"seed"`
	Structure                 *string `json:"structure"`
	Criteria                  *string `json:"criteria"`
	From                      *float64
	To                        *float64
	MaxLevel                  *int     `json:"max_level"`
	MinArea                   *float64 `json:"min_area"`
	ColorMode                 *string  `json:"color_mode"`
	BorderWidth               *float64 `json:"border_width"`
	FolderProcessing          *bool
	RecursiveFolderProcessing *bool
	MetricsFile               *string `json:"metrics_file"`
	Silent                    *bool
	LogTimestamp              *bool
	Help                      *bool
	Version                   *bool

	// names of the flags given on the command line, shorthands resolved
	Set map[string]bool `json:"-"`
}

type FlagsForCommandSvg struct {
	TilerFlags
	Output      *string
	BorderMode  *string
	ColorScheme *string
	Border0     *float64
	Border1     *float64
	Color0      *string
	Color1      *string
	Precision   *int
}

type FlagsForCommandMesh struct {
	TilerFlags
	Output  *string
	ZOffset *float64
	Extrude *bool
}

type FlagsForCommandVerify struct {
	TilerFlags
	Tolerance *float64
}

// long name of every shorthand flag
var aliases = map[string]string{}

func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	// -v belongs to glog
	version := defineBoolFlag("version", "", false, "Displays the version of vector_tiler.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func defineTilerFlags(flagCommand *flag.FlagSet) TilerFlags {
	defaults := tiler.NewDefaultLayerOptions()
	return TilerFlags{
		Input:                     defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the input point file/folder."),
		Config:                    defineStringFlagCommand(flagCommand, "config", "c", "", "YAML file with the layers and appearance settings. Explicitly given flags override it."),
		Seed:                      defineStringFlagCommand(flagCommand, "seed", "", "", "Seed of the tree random generators. A random one is generated and logged when empty."),
		Structure:                 defineStringFlagCommand(flagCommand, "structure", "a", string(defaults.Structure), "Spatial structure carving the canvas, can be 'VP', 'QUAD' or 'KD'."),
		Criteria:                  defineStringFlagCommand(flagCommand, "criteria", "", string(defaults.Criteria), "Point channel selecting the layer points, can be 'LOD', 'DEPTH', 'MATTING', 'SALIENCY_A' or 'SALIENCY_O'."),
		From:                      defineFloat64FlagCommand(flagCommand, "from", "", defaults.From, "Lowest criteria value of the layer points."),
		To:                        defineFloat64FlagCommand(flagCommand, "to", "", defaults.To, "Highest criteria value of the layer points."),
		MaxLevel:                  defineIntFlagCommand(flagCommand, "max-level", "l", defaults.MaxLevel, "Maximum carving depth. 0 emits the root region only."),
		MinArea:                   defineFloat64FlagCommand(flagCommand, "min-area", "m", defaults.MinArea, "Regions smaller than this area, in square pixels, are merged into their parent."),
		ColorMode:                 defineStringFlagCommand(flagCommand, "color-mode", "", string(defaults.ColorMode), "Region color aggregation, can be 'MEDIAN', 'AVG' or 'POINT'."),
		BorderWidth:               defineFloat64FlagCommand(flagCommand, "border", "b", 0, "Amount the canvas clip is grown by on every side."),
		FolderProcessing:          defineBoolFlagCommand(flagCommand, "folder", "f", false, "Enables processing of all point files from input folder. Input must be a folder if specified"),
		RecursiveFolderProcessing: defineBoolFlagCommand(flagCommand, "recursive", "r", false, "Enables recursive lookup for all .json files inside the subfolders"),
		MetricsFile:               defineStringFlagCommand(flagCommand, "metrics", "", "", "Writes the collected metrics to this file in the prometheus text format."),
		Silent:                    defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages."),
		LogTimestamp:              defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages."),
		Help:                      defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help."),
		Version:                   defineBoolFlagCommand(flagCommand, "version", "v", false, "Displays the version of vector_tiler."),
	}
}

func parse(flagCommand *flag.FlagSet, args []string, tilerFlags *TilerFlags) {
	if err := flagCommand.Parse(args); err != nil {
		glog.Fatal(err)
	}
	tilerFlags.Set = make(map[string]bool)
	flagCommand.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := aliases[name]; ok {
			name = long
		}
		tilerFlags.Set[name] = true
	})
}

func ParseFlagsForCommandSvg(args []string) FlagsForCommandSvg {
	glog.Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-svg", flag.ExitOnError)
	defaults := tiler.NewDefaultAppearanceOptions()

	flags := FlagsForCommandSvg{
		TilerFlags:  defineTilerFlags(flagCommand),
		Output:      defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output SVG file, or folder when processing folders."),
		BorderMode:  defineStringFlagCommand(flagCommand, "border-mode", "", string(defaults.BorderMode), "Region outline, can be 'FILL', 'BORDER', 'FILL_AND_BORDER' or 'WIREFRAME'."),
		ColorScheme: defineStringFlagCommand(flagCommand, "color-scheme", "", string(defaults.ColorScheme), "Region fill, can be 'ORIGINAL', 'GRAY_SCALE' or 'WHITE'."),
		Border0:     defineFloat64FlagCommand(flagCommand, "border0", "", defaults.Border0, "Stroke width of the regions at the lowest used level."),
		Border1:     defineFloat64FlagCommand(flagCommand, "border1", "", defaults.Border1, "Stroke width of the regions at the highest used level."),
		Color0:      defineStringFlagCommand(flagCommand, "color0", "", defaults.Color0, "Stroke color of the regions at the lowest used level."),
		Color1:      defineStringFlagCommand(flagCommand, "color1", "", defaults.Color1, "Stroke color of the regions at the highest used level."),
		Precision:   defineIntFlagCommand(flagCommand, "precision", "p", defaults.Precision, "Number of decimals of the path coordinates."),
	}
	parse(flagCommand, args, &flags.TilerFlags)

	return flags
}

func ParseFlagsForCommandMesh(args []string) FlagsForCommandMesh {
	glog.Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-mesh", flag.ExitOnError)

	flags := FlagsForCommandMesh{
		TilerFlags: defineTilerFlags(flagCommand),
		Output:     defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output PLY file, or folder when processing folders."),
		ZOffset:    defineFloat64FlagCommand(flagCommand, "zoffset", "z", 0, "Vertical offset added to the normalized region depth."),
		Extrude:    defineBoolFlagCommand(flagCommand, "extrude", "e", false, "Adds walls from every region down to depth zero."),
	}
	parse(flagCommand, args, &flags.TilerFlags)

	return flags
}

func ParseFlagsForCommandVerify(args []string) FlagsForCommandVerify {
	glog.Infoln(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-verify", flag.ExitOnError)

	flags := FlagsForCommandVerify{
		TilerFlags: defineTilerFlags(flagCommand),
		Tolerance:  defineFloat64FlagCommand(flagCommand, "tolerance", "", 1e-6, "Allowed relative mismatch between the region areas and the covered area."),
	}
	parse(flagCommand, args, &flags.TilerFlags)

	return flags
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		aliases[shortHand] = name
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		aliases[shortHand] = name
	}

	return &output
}

func defineFloat64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue float64, usage string) *float64 {
	var output float64
	flagCommand.Float64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Float64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		aliases[shortHand] = name
	}
	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
		aliases[shortHand] = name
	}
	return &output
}
