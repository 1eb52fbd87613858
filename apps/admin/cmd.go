package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/schoolinsights/core"
	"github.com/trezcool/schoolinsights/core/analytics"
	"github.com/trezcool/schoolinsights/core/records"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf       *core.Config
	out        io.Writer
	loadTables func(ctx context.Context) (records.Tables, error)
	migrateDB  func(ctx context.Context, command string, args ...string) error
	engine     *analytics.Engine
	mailSvc    core.EmailService
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  hashpassword - print the bcrypt hash of a password, for static users and credential tables")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status...) on the postgres record tables")
	_, _ = fmt.Fprintln(cli.out, "  check - load the records and print what was read")
	_, _ = fmt.Fprintln(cli.out, "  report -username USERNAME -role ROLE [-view VIEW] - log in and print a dashboard view as JSON")
	_, _ = fmt.Fprintln(cli.out, "  riskdigest -to EMAIL[,EMAIL...] - email the high attrition risk worklist")
}

// readPassword prompts for a password. An empty password prints the usage of `fs`.
func (cli *commandLine) readPassword(fs *flag.FlagSet, prompt string) (string, error) {
	_, _ = fmt.Fprint(cli.out, prompt)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	hashPasswordCmd := flag.NewFlagSet("hashpassword", flag.ContinueOnError)
	hashPasswordCmd.SetOutput(cli.out)

	checkCmd := flag.NewFlagSet("check", flag.ContinueOnError)
	checkCmd.SetOutput(cli.out)

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportCmd.SetOutput(cli.out)
	reportUname := reportCmd.String("username", "", "The username. The password will be prompted next.")
	reportRole := reportCmd.String("role", "", "The claimed role: Admin, Principal or Teacher.")
	reportView := reportCmd.String("view", viewOverview, "The view to print: "+joinViews()+".")
	reportSearch := reportCmd.String("search", "", "teachers view: name or ID to search.")
	reportStatus := reportCmd.String("status", "", "teachers view: status filter.")
	reportSubject := reportCmd.String("subject", "", "teachers view: subject filter.")

	riskDigestCmd := flag.NewFlagSet("riskdigest", flag.ContinueOnError)
	riskDigestCmd.SetOutput(cli.out)
	riskDigestTo := riskDigestCmd.String("to", "", "Comma separated recipients.")

	switch args[1] {
	case "hashpassword":
		if err := hashPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		pwd, err := cli.readPassword(hashPasswordCmd, "Enter password:")
		if err != nil {
			return err
		}
		return cli.hashPassword(pwd)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrateDB(context.Background(), args[2], args[3:]...)

	case "check":
		if err := checkCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.check()

	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *reportUname == "" || *reportRole == "" {
			reportCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword(reportCmd, "Enter password:")
		if err != nil {
			return err
		}
		filter := analytics.DirectoryFilter{Search: *reportSearch, Status: *reportStatus, Subject: *reportSubject}
		return cli.report(*reportUname, pwd, *reportRole, *reportView, filter)

	case "riskdigest":
		if err := riskDigestCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *riskDigestTo == "" {
			riskDigestCmd.Usage()
			return errHelp
		}
		return cli.riskDigest(*riskDigestTo)

	default:
		cli.printUsage()
		return errHelp
	}
}
