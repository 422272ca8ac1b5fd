package options

import "strings"

const targetArchPrefix = "--target_arch"

// BuildOptions describes a single invocation. It is built once by Parse
// and treated as read-only afterwards.
type BuildOptions struct {
	// Target architecture (runtime naming, e.g. x64, ia32)
	Arch string

	// Target platform (runtime naming, e.g. linux, win32)
	Platform string

	// Skip the existing binary check and always build
	Force bool

	// Build the Debug configuration instead of Release
	Debug bool

	// Tokens forwarded to the toolchain, in original order
	Args []string
}

// Parse applies the command line tokens on top of the host defaults.
//
// -f/--force is consumed. --target_arch=<v> and -d/--debug are
// recognised and still forwarded. Everything else is forwarded verbatim.
func Parse(tokens []string, platform, arch string, force bool) BuildOptions {
	opts := BuildOptions{
		Arch:     arch,
		Platform: platform,
		Force:    force,
		Args:     make([]string, 0, len(tokens)),
	}

	for _, tok := range tokens {
		switch {
		case tok == "-f" || tok == "--force":
			opts.Force = true
			continue
		case strings.HasPrefix(tok, targetArchPrefix):
			// value starts after the separator, whatever it is
			if len(tok) > len(targetArchPrefix)+1 {
				opts.Arch = tok[len(targetArchPrefix)+1:]
			}
		case tok == "-d" || tok == "--debug":
			opts.Debug = true
		}

		opts.Args = append(opts.Args, tok)
	}

	return opts
}

// Configuration returns the toolchain output directory name
func (o BuildOptions) Configuration() string {
	if o.Debug {
		return "Debug"
	}

	return "Release"
}
