package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdlatex [command] [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Serve the Markdown + LaTeX editor (default)")
	fmt.Fprintln(w, "  export     Export a Markdown file or the stored document to PDF")
	fmt.Fprintln(w, "  print      Write the print page of a Markdown file or the stored document")
	fmt.Fprintln(w, "  doctor     Check Chrome and environment setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdlatex help <command>' for details on a specific command.")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdlatex serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the split-pane editor. The document is saved on every edit.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --addr <host:port>    Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Storage:")
	fmt.Fprintln(w, "      --store-dir <path>    Directory holding the document")
	fmt.Fprintln(w, "      --ephemeral           Keep the document in memory only")
	fmt.Fprintln(w, "      --watch               Reload when the stored document changes on disk")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config:")
	fmt.Fprintln(w, "      --print-config        Print the effective configuration and exit")
	printSharedUsage(w, true)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdlatex export [file.md] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export to PDF with headless Chrome. Without a file, the stored document is used.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: input name or document.pdf)")
	fmt.Fprintln(w, "      --store-dir <path>    Directory holding the document")
	printSharedUsage(w, true)
}

// printPrintUsage prints usage for the print command.
func printPrintUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdlatex print [file.md] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write a standalone HTML page that opens the print dialog when loaded.")
	fmt.Fprintln(w, "Without a file, the stored document is used.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: input name or document.html)")
	fmt.Fprintln(w, "      --store-dir <path>    Directory holding the document")
	printSharedUsage(w, false)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdlatex doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, container settings, and writable directories.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "      --store-dir <path>    Document directory to check")
}

// printSharedUsage prints the flag groups common to serve, export and print.
func printSharedUsage(w io.Writer, withBrowser bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in millimeters (0-75)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Style:")
	fmt.Fprintln(w, "      --highlight <name>    Chroma style for code (default github)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with custom styles/ and templates/")
	if withBrowser {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Browser:")
		fmt.Fprintln(w, "  -t, --timeout <d>         PDF export timeout (default 30s)")
		fmt.Fprintln(w, "  -w, --workers <n>         Pooled browsers (0 = auto)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "export":
		printExportUsage(env.Stdout)
	case "print":
		printPrintUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdlatex version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdlatex help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
	return nil
}
