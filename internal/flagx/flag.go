// Package flagx lets several packages parse their own subset of the process
// arguments without tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs returns the arguments that belong to allowedFlags, keeping the
// order they appeared in. Both "-x value" and "-x=value" forms are recognised;
// a leading "--" is treated the same as "-".
//
// A token following an allowed flag is taken as its value unless it starts
// with "-".
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[normalize(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, ok := strings.Cut(arg, "="); ok {
			if _, keep := allowed[normalize(name)]; keep {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, keep := allowed[normalize(arg)]; !keep {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

func normalize(name string) string {
	return "-" + strings.TrimLeft(name, "-")
}

// ConfigFile extracts the JSON config path given with -c or -config.
// It returns "" when neither flag is present.
func ConfigFile(args []string) string {
	var config string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&config, "config", "", "path to config file")
	fs.StringVar(&config, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return config
}
