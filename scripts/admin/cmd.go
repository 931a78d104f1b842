package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"class_tracker/internal/repository"
	"class_tracker/internal/service"

	"golang.org/x/term"
	"gorm.io/gorm"
)

var (
	readPasswordFunc = term.ReadPassword // 测试中替换

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db    *gorm.DB
	users *service.UserService
	seed  *service.SeedService
	out   io.Writer
}

func newCommandLine(db *gorm.DB) *commandLine {
	return &commandLine{
		db:    db,
		users: service.NewUserService(repository.NewUserRepository(db)),
		seed:  service.NewSeedService(db),
		out:   os.Stdout,
	}
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	fmt.Fprintf(cli.out, format, args...)
}

func (cli *commandLine) printUsage() {
	cli.printf("Usage:\n")
	cli.printf("  createadmin -username USERNAME -name FULLNAME   - create or update an admin (password prompted)\n")
	cli.printf("  resetpassword -username USERNAME                - reset a user's password (password prompted)\n")
	cli.printf("  cleanupusers -keep a,b,c                        - delete every account not in the list\n")
	cli.printf("  seeddemo                                        - recreate the demo account and sample data\n")
	cli.printf("  migrate                                         - create or update the database schema\n")
}

// promptPassword 读取密码，空密码视为取消
func (cli *commandLine) promptPassword(fs *flag.FlagSet) (string, error) {
	cli.printf("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	cli.printf("\n")
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

	createAdminCmd := flag.NewFlagSet("createadmin", flag.ContinueOnError)
	createAdminUname := createAdminCmd.String("username", "", "The admin's username. The password will be prompted next.")
	createAdminName := createAdminCmd.String("name", "", "The admin's full name.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username. The password will be prompted next.")

	cleanupCmd := flag.NewFlagSet("cleanupusers", flag.ContinueOnError)
	cleanupKeep := cleanupCmd.String("keep", "", "Comma separated usernames to keep.")

	for _, fs := range []*flag.FlagSet{createAdminCmd, resetPasswordCmd, cleanupCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "createadmin":
		if err := createAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createAdminUname == "" || *createAdminName == "" {
			createAdminCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(createAdminCmd)
		if err != nil {
			return err
		}
		return cli.createAdmin(*createAdminUname, *createAdminName, pwd)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordUname, pwd)

	case "cleanupusers":
		if err := cleanupCmd.Parse(args[2:]); err != nil {
			return err
		}
		keep := splitList(*cleanupKeep)
		if len(keep) == 0 {
			cleanupCmd.Usage()
			return errHelp
		}
		return cli.cleanupUsers(keep)

	case "seeddemo":
		return cli.seedDemo()

	case "migrate":
		return cli.migrate()

	default:
		cli.printUsage()
		return errHelp
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
