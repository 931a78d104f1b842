package main

func (cli *commandLine) cleanupUsers(keep []string) error {
	n, err := cli.users.CleanupUsers(keep)
	if err != nil {
		return err
	}
	cli.printf("Deleted %d user(s)\n", n)
	return nil
}
