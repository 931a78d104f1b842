package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/testutil"
	"class_tracker/internal/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckReadOnlyQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
		ok    bool
	}{
		{"select", "SELECT * FROM students", "SELECT * FROM students", true},
		{"lower case with semicolon", "  select id from classes;  ", "select id from classes", true},
		{"cte", "WITH x AS (SELECT 1) SELECT * FROM x", "WITH x AS (SELECT 1) SELECT * FROM x", true},
		{"select paren", "SELECT(1)", "SELECT(1)", true},
		{"empty", "  ;", "", false},
		{"delete", "DELETE FROM students", "", false},
		{"pragma", "PRAGMA table_info(users)", "", false},
		{"stacked", "SELECT 1; DROP TABLE users", "", false},
		{"update", "update users set role='admin'", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckReadOnlyQuery(tt.query)
			if !tt.ok {
				assert.ErrorIs(t, err, util.ErrQueryNotAllowed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdminService(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAdminService(repository.NewAdminRepository(db))
	admin := testutil.CreateUser(t, db, "admin", "pass", model.Admin, model.PermAdminPanel)
	teacher := testutil.CreateUser(t, db, "teacher", "pass", model.Teacher)
	_, students := testutil.CreateClass(t, db, teacher, "5A", "Alice", "Bob")
	require.NoError(t, db.Create(&model.Comment{StudentID: students[0].ID, Category: model.CategoryEnglish, Comment: "Good"}).Error)
	require.NoError(t, db.Create(&model.Todo{Task: "Prepare quiz", Status: model.TodoPending, TeacherID: teacher.ID}).Error)

	t.Run("overview", func(t *testing.T) {
		overview, err := svc.Overview()
		require.NoError(t, err)
		assert.EqualValues(t, 1, overview.Counts["teachers"])
		assert.EqualValues(t, 1, overview.Counts["classes"])
		assert.EqualValues(t, 2, overview.Counts["students"])
		assert.EqualValues(t, 1, overview.Counts["comments"])

		require.Len(t, overview.Teachers, 2)
		assert.Equal(t, "admin", overview.Teachers[0].Username)
		assert.Equal(t, "teacher", overview.Teachers[1].Username)
		assert.EqualValues(t, 2, overview.Teachers[1].Students)
		assert.EqualValues(t, 1, overview.Teachers[1].Comments)
	})

	t.Run("export", func(t *testing.T) {
		table, err := svc.Export(context.Background(), "students")
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "name", "class_name", "teacher", "created_at"}, table.Columns)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "Alice", table.Rows[0][1])

		_, err = svc.Export(context.Background(), "passwords")
		assert.ErrorIs(t, err, util.ErrValidation)
	})

	t.Run("browse", func(t *testing.T) {
		assert.Contains(t, svc.Tables(), "students")
		assert.NotContains(t, svc.Tables(), "sessions")

		page, err := svc.BrowseTable("users", 1, 1)
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Total)
		assert.Equal(t, 1, page.PageSize)
		require.Len(t, page.Data.Rows, 1)
		assert.NotContains(t, page.Data.Columns, "password_hash")
		assert.Contains(t, page.Data.Columns, "username")

		page, err = svc.BrowseTable("students", 0, 10000)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, maxBrowsePageSize, page.PageSize)

		_, err = svc.BrowseTable("sessions", 1, 10)
		assert.ErrorIs(t, err, util.ErrUnknownTable)
		_, err = svc.BrowseTable("users; DROP TABLE users", 1, 10)
		assert.ErrorIs(t, err, util.ErrUnknownTable)
	})

	t.Run("query", func(t *testing.T) {
		result, err := svc.Query(context.Background(), admin.Username, "SELECT name FROM students ORDER BY name;")
		require.NoError(t, err)
		assert.Equal(t, []string{"name"}, result.Columns)
		assert.Equal(t, [][]interface{}{{"Alice"}, {"Bob"}}, result.Rows)
		assert.False(t, result.Truncated)

		_, err = svc.Query(context.Background(), admin.Username, "DELETE FROM students")
		assert.ErrorIs(t, err, util.ErrQueryNotAllowed)

		_, err = svc.Query(context.Background(), admin.Username, "SELECT * FROM missing_table")
		assert.ErrorIs(t, err, util.ErrValidation)

		// 查询失败后连接恢复可写
		require.NoError(t, db.Create(&model.Todo{Task: "Still writable", Status: model.TodoPending, TeacherID: teacher.ID}).Error)
	})

	t.Run("purge", func(t *testing.T) {
		_, err := svc.Purge(admin.Username, "delete all data")
		assert.ErrorIs(t, err, util.ErrValidation)

		deleted, err := svc.Purge(admin.Username, util.PurgeConfirmation)
		require.NoError(t, err)
		assert.EqualValues(t, 2, deleted["students"])
		assert.EqualValues(t, 1, deleted["classes"])
		assert.EqualValues(t, 1, deleted["comments"])

		var users, todos int64
		require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
		require.NoError(t, db.Model(&model.Todo{}).Count(&todos).Error)
		assert.EqualValues(t, 2, users)
		assert.EqualValues(t, 2, todos)
	})
}
