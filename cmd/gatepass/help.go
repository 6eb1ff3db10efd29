package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gatepass <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve       Run the gate pass web form and viewer")
	fmt.Fprintln(w, "  generate    Generate one gate pass from flags")
	fmt.Fprintln(w, "  doctor      Check LibreOffice, template and storage")
	fmt.Fprintln(w, "  init        Write a starter DOCX template")
	fmt.Fprintln(w, "  config      Print the effective configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'gatepass help <command>' for details on a specific command.")
}

// printRuntimeUsage prints the flags shared by serve, generate, doctor and config.
func printRuntimeUsage(w io.Writer) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --base-url <url>      Public URL encoded in QR codes")
	fmt.Fprintln(w, "      --static-dir <dir>    Directory where passes are stored")
	fmt.Fprintln(w, "  -t, --template <path>     DOCX template (default: template.docx)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Conversion:")
	fmt.Fprintln(w, "      --soffice <path>      LibreOffice executable (name or path)")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: pdf, odt, rtf, html, txt")
	fmt.Fprintln(w, "                            A filter may follow a colon: pdf:writer_pdf_Export")
	fmt.Fprintln(w, "      --timeout <d>         Conversion timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent conversions (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logging:")
	fmt.Fprintln(w, "      --log-file <path>     Append-only log file (default: app.log)")
	fmt.Fprintln(w, "      --log-level <s>       Log level: debug, info, warn, error")
	fmt.Fprintln(w, "  -q, --quiet               Only show warnings and errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gatepass serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the gate pass form on / and generated passes on /view/{date}/{file}.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default: :5000)")
	fmt.Fprintln(w)
	printRuntimeUsage(w)
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gatepass generate --name <s> --roll-no <s> ... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate one gate pass and print where it was published.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Submission (required):")
	fmt.Fprintln(w, "      --name <s>            Student name")
	fmt.Fprintln(w, "      --roll-no <s>         Roll number")
	fmt.Fprintln(w, "      --from <s>            Leave start date")
	fmt.Fprintln(w, "      --to <s>              Leave end date")
	fmt.Fprintln(w, "      --arrival-date <s>    Arrival date")
	fmt.Fprintln(w, "      --arrival-time <s>    Arrival time")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Submission (optional):")
	fmt.Fprintln(w, "      --home-address <s>    Home address")
	fmt.Fprintln(w, "      --student-contact <s> Student contact number")
	fmt.Fprintln(w, "      --parent-name <s>     Parent name")
	fmt.Fprintln(w, "      --parent-contact <s>  Parent contact number")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --json                Print the artifact as JSON")
	fmt.Fprintln(w)
	printRuntimeUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gatepass doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check LibreOffice, the template, the static directory and the system.")
	fmt.Fprintln(w, "Exits 1 when a check fails, 0 otherwise (warnings included).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --json                Output as JSON")
	fmt.Fprintln(w)
	printRuntimeUsage(w)
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gatepass init [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write a starter DOCX template using every placeholder and {qr_code}.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -t, --template <path>     Where to write it (default: template.docx)")
	fmt.Fprintln(w, "      --force               Overwrite an existing file")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gatepass config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after merging defaults, the config file,")
	fmt.Fprintln(w, "GATEPASS_* environment variables and flags.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address")
	fmt.Fprintln(w)
	printRuntimeUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "generate":
		printGenerateUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "init":
		printInitUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: gatepass version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: gatepass help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
