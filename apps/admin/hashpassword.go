package main

import (
	"fmt"

	"github.com/trezcool/schoolinsights/core/auth"
)

func (cli *commandLine) hashPassword(pwd string) error {
	hash, err := auth.HashPassword(pwd)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cli.out, hash)
	return err
}
