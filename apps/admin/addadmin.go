package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/user"
)

// addAdmin updates or creates an active admin account.
func (cli *commandLine) addAdmin(uname, email, pwd string) error {
	ctx := context.Background()

	usr, err := cli.usrSvc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}

		data := user.NewUser{Username: uname, Email: email, Password: pwd, Role: user.RoleAdmin}
		if err := data.Validate(cli.validate, cli.translator); err != nil {
			return err
		}
		if usr, err = cli.usrSvc.Create(ctx, data); err != nil {
			return err
		}
		logger.Printf("admin %q created\n", usr.Username)
		return nil
	}

	active := true
	data := user.UpdateUser{Email: email, Password: pwd, Role: user.RoleAdmin, IsActive: &active}
	if err := data.Validate(cli.validate, cli.translator); err != nil {
		return err
	}
	if usr, err = cli.usrSvc.Update(ctx, usr.ID, data); err != nil {
		return err
	}
	logger.Printf("admin %q updated\n", usr.Username)
	return nil
}
