package main

func (cli *commandLine) resetPassword(uname, pwd string) error {
	if err := cli.users.ResetPasswordByUsername(uname, pwd); err != nil {
		return err
	}
	cli.printf("Password for %q updated\n", uname)
	return nil
}
