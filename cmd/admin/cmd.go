package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"lms/internal/model"
	"lms/internal/repository"
	"lms/internal/service"
	"lms/internal/session"

	"golang.org/x/term"
	"gorm.io/gorm"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")

	// operator is the identity commands act as.
	operator = session.Session{Role: model.RoleAdmin}
)

type commandLine struct {
	db         *gorm.DB
	users      service.UserService
	userRepo   repository.UserRepository
	categories repository.CategoryRepository
	out        io.Writer
}

func newCommandLine(db *gorm.DB, users service.UserService, out io.Writer) *commandLine {
	return &commandLine{
		db:         db,
		users:      users,
		userRepo:   repository.NewUserRepo(db),
		categories: repository.NewCategoryRepo(db),
		out:        out,
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate - create or update the database schema")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL -name NAME [-role ADMIN|TEACHER|STUDENT] [-agent AGENT_ID] - create a user")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset a user's password")
	fmt.Fprintln(cli.out, "  addcategory -name NAME - create a course category")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The user's display name.")
	addUserRole := addUserCmd.String("role", model.RoleAdmin, "ADMIN, TEACHER or STUDENT.")
	addUserAgent := addUserCmd.String("agent", "", "Optional agent id carried in the session.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordCmd.SetOutput(cli.out)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	addCategoryCmd := flag.NewFlagSet("addcategory", flag.ContinueOnError)
	addCategoryCmd.SetOutput(cli.out)
	addCategoryName := addCategoryCmd.String("name", "", "The category name.")

	switch args[1] {
	case "migrate":
		if err := repository.AutoMigrate(cli.db); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "schema migrated")
		return nil

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserEmail == "" || *addUserName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		nu := service.NewUser{Email: *addUserEmail, Name: *addUserName, Password: pwd, Role: *addUserRole}
		if *addUserAgent != "" {
			nu.AgentID = addUserAgent
		}
		u, err := cli.users.CreateUser(ctx, operator, nu)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "user %s created with id %s\n", u.Email, u.ID)
		return nil

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(ctx, *resetPasswordEmail, pwd)

	case "addcategory":
		if err := addCategoryCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addCategoryName == "" {
			addCategoryCmd.Usage()
			return errHelp
		}
		c := &model.Category{Name: *addCategoryName}
		if err := cli.categories.CreateCategory(ctx, c); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "category %s created with id %s\n", c.Name, c.ID)
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) resetPassword(ctx context.Context, email, pwd string) error {
	u, err := cli.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return service.ErrUserNotFound
	}
	if _, err := cli.users.UpdateUser(ctx, operator, u.ID, service.UserUpdate{Password: &pwd}); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "password of %s updated\n", u.Email)
	return nil
}
