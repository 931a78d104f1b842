package main

// createAdmin 用户已存在时重置密码并补齐管理员权限
func (cli *commandLine) createAdmin(uname, fullName, pwd string) error {
	created, err := cli.users.EnsureAdmin(uname, pwd, fullName)
	if err != nil {
		return err
	}
	if created {
		cli.printf("Admin %q created\n", uname)
	} else {
		cli.printf("Admin %q updated\n", uname)
	}
	return nil
}
