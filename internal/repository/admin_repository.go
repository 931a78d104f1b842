package repository

import (
	"class_tracker/internal/model"
	"class_tracker/internal/util"
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

type TeacherActivity struct {
	UserID          uint   `json:"userId"`
	Username        string `json:"username"`
	FullName        string `json:"fullName"`
	Classes         int64  `json:"classes"`
	Students        int64  `json:"students"`
	Essays          int64  `json:"essays"`
	DictationScores int64  `json:"dictationScores"`
	Comments        int64  `json:"comments"`
}

type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// browsableTables 表浏览器允许访问的表及需要隐藏的列
var browsableTables = map[string][]string{
	"users":            {"password_hash"},
	"permissions":      nil,
	"classes":          nil,
	"students":         nil,
	"homework":         nil,
	"comments":         nil,
	"dictation_tasks":  nil,
	"dictation_scores": nil,
	"spelling_tests":   nil,
	"grammar_errors":   nil,
	"essay_marks":      nil,
	"todos":            nil,
}

func BrowsableTable(name string) bool {
	_, ok := browsableTables[name]
	return ok
}

func BrowsableTables() []string {
	names := make([]string, 0, len(browsableTables))
	for _, m := range model.All() {
		if t, ok := m.(interface{ TableName() string }); ok && BrowsableTable(t.TableName()) {
			names = append(names, t.TableName())
		}
	}
	return names
}

// exportQueries 管理员可导出的数据集
var exportQueries = map[string]string{
	"students": `SELECT s.id, s.name, s.class_name, u.username AS teacher, s.created_at
		FROM students s JOIN users u ON u.id = s.teacher_id ORDER BY u.username, s.class_name, s.name`,
	"essays": `SELECT e.id, s.name AS student, s.class_name, e.essay_title, e.essay_type, e.score, e.created_at
		FROM essay_marks e JOIN students s ON s.id = e.student_id ORDER BY e.created_at DESC`,
	"dictation": `SELECT d.id, s.name AS student, s.class_name, t.name AS task, d.score, d.auto_score, d.score_source, d.created_at
		FROM dictation_scores d JOIN students s ON s.id = d.student_id JOIN dictation_tasks t ON t.id = d.task_id
		ORDER BY d.created_at DESC`,
	"comments": `SELECT c.id, s.name AS student, s.class_name, c.category, c.comment, c.evidence, c.created_at
		FROM comments c JOIN students s ON s.id = c.student_id ORDER BY c.created_at DESC`,
}

func ExportDataset(name string) bool {
	_, ok := exportQueries[name]
	return ok
}

// purgeOrder 子表在前
var purgeOrder = []interface{}{
	&model.HomeworkRecord{},
	&model.Comment{},
	&model.DictationScore{},
	&model.SpellingTest{},
	&model.GrammarError{},
	&model.EssayMark{},
	&model.DictationTask{},
	&model.Student{},
	&model.Class{},
}

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) Counts() (map[string]int64, error) {
	counts := make(map[string]int64)

	var teachers int64
	if err := r.DB.Model(&model.User{}).Where("role = ? AND is_active = ?", model.Teacher, true).Count(&teachers).Error; err != nil {
		return nil, err
	}
	counts["teachers"] = teachers

	for _, m := range []interface{}{
		&model.Class{}, &model.Student{}, &model.EssayMark{}, &model.DictationScore{},
		&model.Comment{}, &model.HomeworkRecord{}, &model.SpellingTest{}, &model.GrammarError{},
		&model.Todo{},
	} {
		var n int64
		if err := r.DB.Model(m).Count(&n).Error; err != nil {
			return nil, err
		}
		counts[m.(interface{ TableName() string }).TableName()] = n
	}
	return counts, nil
}

func (r *AdminRepository) TeacherActivity() ([]TeacherActivity, error) {
	var rows []TeacherActivity
	err := r.DB.Raw(`SELECT u.id AS user_id, u.username, u.full_name,
			(SELECT COUNT(*) FROM classes c WHERE c.teacher_id = u.id) AS classes,
			(SELECT COUNT(*) FROM students s WHERE s.teacher_id = u.id) AS students,
			(SELECT COUNT(*) FROM essay_marks e JOIN students s ON s.id = e.student_id WHERE s.teacher_id = u.id) AS essays,
			(SELECT COUNT(*) FROM dictation_scores d JOIN students s ON s.id = d.student_id WHERE s.teacher_id = u.id) AS dictation_scores,
			(SELECT COUNT(*) FROM comments m JOIN students s ON s.id = m.student_id WHERE s.teacher_id = u.id) AS comments
		FROM users u WHERE u.is_active = ? ORDER BY u.username`, true).Scan(&rows).Error
	return rows, err
}

func (r *AdminRepository) Export(ctx context.Context, dataset string) (*util.Table, error) {
	query, ok := exportQueries[dataset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", util.ErrUnknownTable, dataset)
	}
	rows, err := r.DB.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	table, _, err := scanTable(rows, 0)
	return table, err
}

func (r *AdminRepository) Columns(table string) ([]ColumnInfo, error) {
	if !BrowsableTable(table) {
		return nil, fmt.Errorf("%w: %s", util.ErrUnknownTable, table)
	}
	types, err := r.DB.Migrator().ColumnTypes(table)
	if err != nil {
		return nil, err
	}

	hidden := browsableTables[table]
	cols := make([]ColumnInfo, 0, len(types))
	for _, ct := range types {
		if contains(hidden, ct.Name()) {
			continue
		}
		nullable, _ := ct.Nullable()
		cols = append(cols, ColumnInfo{Name: ct.Name(), Type: ct.DatabaseTypeName(), Nullable: nullable})
	}
	return cols, nil
}

func (r *AdminRepository) CountRows(table string) (int64, error) {
	if !BrowsableTable(table) {
		return 0, fmt.Errorf("%w: %s", util.ErrUnknownTable, table)
	}
	var n int64
	err := r.DB.Table(table).Count(&n).Error
	return n, err
}

// PageRows 表名先经过白名单校验，之后才拼入 SQL
func (r *AdminRepository) PageRows(table string, columns []ColumnInfo, limit, offset int) (*util.Table, error) {
	if !BrowsableTable(table) {
		return nil, fmt.Errorf("%w: %s", util.ErrUnknownTable, table)
	}
	names := make([]string, 0, len(columns))
	for _, c := range columns {
		names = append(names, c.Name)
	}

	rows, err := r.DB.Table(table).Select(names).Order("id").Limit(limit).Offset(offset).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	page, _, err := scanTable(rows, 0)
	return page, err
}

// ReadOnlyQuery 在独占连接上以只读模式执行查询，最多返回 maxRows 行
func (r *AdminRepository) ReadOnlyQuery(ctx context.Context, query string, maxRows int) (*util.Table, bool, error) {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return nil, false, err
	}

	if r.DB.Dialector.Name() == "sqlite" {
		conn, err := sqlDB.Conn(ctx)
		if err != nil {
			return nil, false, err
		}
		defer conn.Close()

		if _, err := conn.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
			return nil, false, err
		}
		defer conn.ExecContext(context.Background(), "PRAGMA query_only = OFF")

		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			return nil, false, err
		}
		defer rows.Close()
		return scanTable(rows, maxRows)
	}

	tx, err := sqlDB.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	return scanTable(rows, maxRows)
}

// Purge 在一个事务内清空所有班级、学生及评估数据，返回各表删除行数
func (r *AdminRepository) Purge() (map[string]int64, error) {
	deleted := make(map[string]int64)
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range purgeOrder {
			result := all.Delete(m)
			if result.Error != nil {
				return result.Error
			}
			deleted[m.(interface{ TableName() string }).TableName()] = result.RowsAffected
		}
		return nil
	})
	return deleted, err
}

// scanTable maxRows 为 0 表示不限制；第二个返回值表示结果是否被截断
func scanTable(rows *sql.Rows, maxRows int) (*util.Table, bool, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, false, err
	}

	table := &util.Table{Columns: columns, Rows: [][]interface{}{}}
	truncated := false
	for rows.Next() {
		if maxRows > 0 && len(table.Rows) >= maxRows {
			truncated = true
			break
		}
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, false, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		table.Rows = append(table.Rows, values)
	}
	return table, truncated, rows.Err()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
