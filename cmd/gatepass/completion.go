package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // for enum flags
	FileGlob string   // for file flags, comma separated
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
	Args  []string // fixed positional values
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"format":    {Values: []string{"pdf", "odt", "rtf", "html", "txt"}},
	"log-level": {Values: []string{"debug", "info", "warn", "error"}},

	"config":   {FileGlob: "*.yaml,*.yml"},
	"template": {FileGlob: "*.docx"},
	"log-file": {FileGlob: "*.log"},

	"static-dir": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet
// and enriches them with flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the FlagSets the commands parse with.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:  "serve",
			Desc:  "Run the gate pass web form and viewer",
			Flags: extractFlagsFromFlagSet(buildServeFlagSet(&serveFlags{}, io.Discard)),
		},
		{
			Name:  "generate",
			Desc:  "Generate one gate pass from flags",
			Flags: extractFlagsFromFlagSet(buildGenerateFlagSet(&generateFlags{}, io.Discard)),
		},
		{
			Name:  "doctor",
			Desc:  "Check LibreOffice, template and storage",
			Flags: extractFlagsFromFlagSet(buildDoctorFlagSet(&doctorFlags{}, io.Discard)),
		},
		{
			Name:  "init",
			Desc:  "Write a starter DOCX template",
			Flags: extractFlagsFromFlagSet(buildInitFlagSet(&initFlags{}, io.Discard)),
		},
		{
			Name:  "config",
			Desc:  "Print the effective configuration",
			Flags: extractFlagsFromFlagSet(buildConfigFlagSet(&configFlags{}, io.Discard)),
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)},
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
			Args: commands,
		},
	}
}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gatepass completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(gatepass completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(gatepass completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    gatepass completion fish > ~/.config/fish/completions/gatepass.fish")
}

// flagWords returns the --long and -short spellings of every flag.
func flagWords(flags []flagDef) []string {
	words := make([]string, 0, len(flags)*2)
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// globs splits a comma separated glob list.
func globs(pattern string) []string {
	return strings.Split(pattern, ",")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer) error {
	var b strings.Builder
	cmds := getCommands()

	b.WriteString("# bash completion for gatepass\n\n")
	b.WriteString("_gatepass_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")

	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(names, " "))
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"${cmd}\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		if len(c.Flags) > 0 {
			b.WriteString("            case \"${prev}\" in\n")
			for _, f := range c.Flags {
				pattern := "--" + f.Long
				if f.Short != "" {
					pattern += "|-" + f.Short
				}
				switch f.Type {
				case flagEnum:
					fmt.Fprintf(&b, "                %s)\n", pattern)
					fmt.Fprintf(&b, "                    COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(f.Values, " "))
					b.WriteString("                    return 0 ;;\n")
				case flagFile:
					fmt.Fprintf(&b, "                %s)\n", pattern)
					exts := make([]string, 0)
					for _, g := range globs(f.FileGlob) {
						exts = append(exts, strings.TrimPrefix(g, "*."))
					}
					fmt.Fprintf(&b, "                    _filedir '@(%s)'\n", strings.Join(exts, "|"))
					b.WriteString("                    return 0 ;;\n")
				case flagDir:
					fmt.Fprintf(&b, "                %s)\n", pattern)
					b.WriteString("                    _filedir -d\n")
					b.WriteString("                    return 0 ;;\n")
				case flagString, flagInt:
					fmt.Fprintf(&b, "                %s)\n", pattern)
					b.WriteString("                    return 0 ;;\n")
				}
			}
			b.WriteString("            esac\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(flagWords(c.Flags), " "))
		} else if len(c.Args) > 0 {
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(c.Args, " "))
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("    return 0\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _gatepass_completions gatepass\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

// zshEscape escapes characters that break _arguments specs.
func zshEscape(s string) string {
	r := strings.NewReplacer("[", "\\[", "]", "\\]", ":", "\\:", "'", "'\\''")
	return r.Replace(s)
}

// zshAction returns the _arguments action for a flag value.
func zshAction(f flagDef) string {
	switch f.Type {
	case flagEnum:
		return fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		return fmt.Sprintf(":file:_files -g '%s'", strings.Join(globs(f.FileGlob), " "))
	case flagDir:
		return ":directory:_files -/"
	case flagString, flagInt:
		return fmt.Sprintf(":%s: ", f.Long)
	default:
		return ""
	}
}

func generateZsh(w io.Writer) error {
	var b strings.Builder
	cmds := getCommands()

	b.WriteString("#compdef gatepass\n\n")
	b.WriteString("_gatepass() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")

	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"${words[2]}\" in\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		switch {
		case len(c.Flags) > 0:
			b.WriteString("            _arguments \\\n")
			for _, f := range c.Flags {
				spec := "--" + f.Long
				if f.Short != "" {
					spec = fmt.Sprintf("{-%s,--%s}", f.Short, f.Long)
					fmt.Fprintf(&b, "                %s'[%s]%s' \\\n", spec, zshEscape(f.Desc), zshAction(f))
					continue
				}
				fmt.Fprintf(&b, "                '%s[%s]%s' \\\n", spec, zshEscape(f.Desc), zshAction(f))
			}
			b.WriteString("                && return\n")
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "            _values '%s' %s\n", c.Name, strings.Join(c.Args, " "))
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _gatepass gatepass\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

// fishEscape quotes s for a single-quoted fish string.
func fishEscape(s string) string {
	return strings.NewReplacer("\\", "\\\\", "'", "\\'").Replace(s)
}

func generateFish(w io.Writer) error {
	var b strings.Builder
	cmds := getCommands()

	b.WriteString("# fish completion for gatepass\n\n")
	b.WriteString("function __fish_gatepass_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_gatepass_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $argv[1] = $cmd[2]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c gatepass -f\n\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c gatepass -n __fish_gatepass_needs_command -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	b.WriteString("\n")

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_gatepass_using_command %s'", c.Name)
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c gatepass -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c gatepass -n %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -r -a '(__fish_complete_directories)'"
			case flagString, flagInt:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'", fishEscape(f.Desc))
			b.WriteString(line + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
