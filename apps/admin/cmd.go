package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/pgg/classroom/core/class"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	apiURL string
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  [-addr URL] list [-search S] [-ordering O] - list classes, e.g. -ordering=-id,name")
	fmt.Fprintln(cli.out, "  [-addr URL] load                            - load the default classes")
	fmt.Fprintln(cli.out, "  [-addr URL] active                          - show the active class")
	fmt.Fprintln(cli.out, "  [-addr URL] select -id N                    - make class N the active class")
	fmt.Fprintln(cli.out, "  [-addr URL] add -name NAME -id N            - add a class")
}

func (cli *commandLine) run(args []string) error {
	global := flag.NewFlagSet("admin", flag.ContinueOnError)
	global.SetOutput(cli.out)
	addr := global.String("addr", cli.apiURL, "The API base URL.")
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	if err := global.Parse(args[1:]); err != nil {
		cli.printUsage()
		return errHelp
	}
	rest := global.Args()
	if len(rest) == 0 {
		cli.printUsage()
		return errHelp
	}

	client := newClassClient(*addr)
	ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
	defer cancel()

	listCmd := flag.NewFlagSet("list", flag.ContinueOnError)
	listSearch := listCmd.String("search", "", "Only list classes whose name matches.")
	listOrdering := listCmd.String("ordering", "", "Comma separated fields to order by (name, id); prefix with - for descending order.")

	selectCmd := flag.NewFlagSet("select", flag.ContinueOnError)
	selectID := selectCmd.Int("id", 0, "The class ID.")

	addCmd := flag.NewFlagSet("add", flag.ContinueOnError)
	addName := addCmd.String("name", "", "The class name.")
	addID := addCmd.Int("id", 0, "The class ID.")

	for _, fs := range []*flag.FlagSet{listCmd, selectCmd, addCmd} {
		fs.SetOutput(cli.out)
	}

	switch rest[0] {
	case "list":
		if err := listCmd.Parse(rest[1:]); err != nil {
			return errHelp
		}
		classes, err := client.list(ctx, *listSearch, *listOrdering)
		if err != nil {
			return err
		}
		return cli.printClasses(classes)
	case "load":
		classes, err := client.load(ctx)
		if err != nil {
			return err
		}
		return cli.printClasses(classes)
	case "active":
		cls, err := client.active(ctx)
		if err != nil {
			return err
		}
		if cls == nil {
			return cli.printClasses(nil)
		}
		return cli.printClasses([]class.ClassInfo{*cls})
	case "select":
		if err := selectCmd.Parse(rest[1:]); err != nil {
			return errHelp
		}
		if *selectID == 0 {
			selectCmd.Usage()
			return errHelp
		}
		cls, err := client.selectClass(ctx, *selectID)
		if err != nil {
			return err
		}
		return cli.printClasses([]class.ClassInfo{cls})
	case "add":
		if err := addCmd.Parse(rest[1:]); err != nil {
			return errHelp
		}
		if *addName == "" || *addID == 0 {
			addCmd.Usage()
			return errHelp
		}
		cls, err := client.add(ctx, *addName, *addID)
		if err != nil {
			return err
		}
		return cli.printClasses([]class.ClassInfo{cls})
	default:
		cli.printUsage()
		return errHelp
	}
}

// printClasses renders an aligned table on a terminal and JSON otherwise.
func (cli *commandLine) printClasses(classes []class.ClassInfo) error {
	if classes == nil {
		classes = []class.ClassInfo{}
	}
	if !isTerminalFunc(int(os.Stdout.Fd())) {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(classes), "encoding classes")
	}

	if len(classes) == 0 {
		_, err := fmt.Fprintln(cli.out, "no classes")
		return err
	}
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, cls := range classes {
		fmt.Fprintf(w, "%d\t%s\n", cls.ID, cls.Name)
	}
	return w.Flush()
}
