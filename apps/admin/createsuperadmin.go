package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/user"
)

func (cli *commandLine) createSuperAdmin(name, email, pwd string) error {
	ctx := context.Background()

	email = core.CleanString(email, true /* lower */)
	if _, err := cli.usrRepo.GetUserByEmail(ctx, email); err == nil {
		return user.ErrEmailExists
	} else if errors.Cause(err) != core.ErrNotFound {
		return err
	}

	now := time.Now().UTC()
	usr := user.User{
		Name:      core.CleanString(name),
		Email:     email,
		Role:      user.RoleSuperAdmin,
		Status:    user.StatusApproved,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	_, err := cli.usrRepo.CreateUser(ctx, usr)
	return err
}
