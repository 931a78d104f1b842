package main

import "class_tracker/pkg/database"

var migrateFunc = database.Migrate // 测试中替换

func (cli *commandLine) migrate() error {
	if err := migrateFunc(cli.db); err != nil {
		return err
	}
	cli.printf("Database schema is up to date\n")
	return nil
}
