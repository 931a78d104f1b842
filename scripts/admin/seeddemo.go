package main

func (cli *commandLine) seedDemo() error {
	summary, err := cli.seed.SeedDemo()
	if err != nil {
		return err
	}
	cli.printf("Demo data seeded: %d classes, %d students (login %s)\n", summary.Classes, summary.Students, summary.Username)
	return nil
}
