package service

import (
	"class_tracker/internal/repository"
	"class_tracker/internal/util"
	"class_tracker/pkg/logger"
	"context"
	"strings"

	"go.uber.org/zap"
)

const (
	// 查询控制台返回的最大行数
	MaxQueryRows      = 1000
	defaultBrowsePage = 50
	maxBrowsePageSize = 500
)

type Overview struct {
	Counts   map[string]int64             `json:"counts"`
	Teachers []repository.TeacherActivity `json:"teachers"`
}

type TablePage struct {
	Table    string                  `json:"table"`
	Columns  []repository.ColumnInfo `json:"columns"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"pageSize"`
	Data     *util.Table             `json:"data"`
}

type QueryResult struct {
	*util.Table
	Truncated bool `json:"truncated"`
}

type AdminService struct {
	AdminRepo *repository.AdminRepository
}

func NewAdminService(adminRepo *repository.AdminRepository) *AdminService {
	return &AdminService{AdminRepo: adminRepo}
}

func (s *AdminService) Overview() (*Overview, error) {
	counts, err := s.AdminRepo.Counts()
	if err != nil {
		return nil, err
	}
	teachers, err := s.AdminRepo.TeacherActivity()
	if err != nil {
		return nil, err
	}
	return &Overview{Counts: counts, Teachers: teachers}, nil
}

func (s *AdminService) Export(ctx context.Context, dataset string) (*util.Table, error) {
	if !repository.ExportDataset(dataset) {
		return nil, util.ValidationError("unknown dataset %q", dataset)
	}
	return s.AdminRepo.Export(ctx, dataset)
}

func (s *AdminService) Tables() []string {
	return repository.BrowsableTables()
}

func (s *AdminService) BrowseTable(table string, page, pageSize int) (*TablePage, error) {
	if !repository.BrowsableTable(table) {
		return nil, util.ErrUnknownTable
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultBrowsePage
	}
	if pageSize > maxBrowsePageSize {
		pageSize = maxBrowsePageSize
	}

	columns, err := s.AdminRepo.Columns(table)
	if err != nil {
		return nil, err
	}
	total, err := s.AdminRepo.CountRows(table)
	if err != nil {
		return nil, err
	}
	data, err := s.AdminRepo.PageRows(table, columns, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return &TablePage{Table: table, Columns: columns, Total: total, Page: page, PageSize: pageSize, Data: data}, nil
}

// CheckReadOnlyQuery 只接受单条以 SELECT 或 WITH 开头的语句，末尾分号可省略
func CheckReadOnlyQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	q = strings.TrimSpace(strings.TrimRight(q, "; \t\r\n"))
	if q == "" {
		return "", util.ErrQueryNotAllowed
	}
	if strings.Contains(q, ";") {
		return "", util.ErrQueryNotAllowed
	}

	fields := strings.Fields(q)
	first := strings.ToUpper(fields[0])
	if first != "SELECT" && first != "WITH" && !strings.HasPrefix(first, "SELECT(") {
		return "", util.ErrQueryNotAllowed
	}
	return q, nil
}

func (s *AdminService) Query(ctx context.Context, actor string, query string) (*QueryResult, error) {
	q, err := CheckReadOnlyQuery(query)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Admin query executed", zap.String("user", actor), zap.String("query", q))
	table, truncated, err := s.AdminRepo.ReadOnlyQuery(ctx, q, MaxQueryRows)
	if err != nil {
		return nil, util.ValidationError("query failed: %v", err)
	}
	return &QueryResult{Table: table, Truncated: truncated}, nil
}

// Purge 确认语必须完全一致
func (s *AdminService) Purge(actor, confirmation string) (map[string]int64, error) {
	if confirmation != util.PurgeConfirmation {
		return nil, util.ValidationError("type %q to confirm", util.PurgeConfirmation)
	}
	deleted, err := s.AdminRepo.Purge()
	if err != nil {
		return nil, err
	}
	logger.Log.Warn("All class data purged", zap.String("user", actor), zap.Any("deleted", deleted))
	return deleted, nil
}
