package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

// 默认历史区间：最近 7 天
const homeworkHistoryDays = 7

type SaveHomeworkRequest struct {
	ClassID  uint                          `json:"classId" binding:"required"`
	Date     string                        `json:"date" binding:"required"`
	Statuses map[uint]model.HomeworkStatus `json:"statuses" binding:"required"`
}

type HomeworkGridRow struct {
	StudentID   uint                 `json:"studentId"`
	StudentName string               `json:"studentName"`
	Status      model.HomeworkStatus `json:"status"`
	Recorded    bool                 `json:"recorded"`
}

type HomeworkHistory struct {
	From    string                   `json:"from"`
	To      string                   `json:"to"`
	Records []repository.HomeworkRow `json:"records"`
	Counts  map[string]int64         `json:"counts"`
}

type HomeworkService struct {
	HomeworkRepo *repository.HomeworkRepository
	StudentRepo  *repository.StudentRepository
}

func NewHomeworkService(homeworkRepo *repository.HomeworkRepository, studentRepo *repository.StudentRepository) *HomeworkService {
	return &HomeworkService{HomeworkRepo: homeworkRepo, StudentRepo: studentRepo}
}

// Grid 某天全班的作业状态，未记录的学生默认 on_time
func (s *HomeworkService) Grid(teacherID, classID uint, date string) ([]HomeworkGridRow, error) {
	day, err := util.ParseDate(date)
	if err != nil {
		return nil, err
	}
	students, err := s.StudentRepo.ListByClass(classID, teacherID)
	if err != nil {
		return nil, err
	}
	records, err := s.HomeworkRepo.History(classID, teacherID, day, day)
	if err != nil {
		return nil, err
	}

	recorded := make(map[uint]model.HomeworkStatus, len(records))
	for _, r := range records {
		recorded[r.StudentID] = r.Status
	}

	grid := make([]HomeworkGridRow, 0, len(students))
	for _, st := range students {
		row := HomeworkGridRow{StudentID: st.ID, StudentName: st.Name, Status: model.HomeworkOnTime}
		if status, ok := recorded[st.ID]; ok {
			row.Status = status
			row.Recorded = true
		}
		grid = append(grid, row)
	}
	return grid, nil
}

// Save 整张表在一个事务内按 (student, date) upsert
func (s *HomeworkService) Save(teacherID uint, req SaveHomeworkRequest) error {
	day, err := util.ParseDate(req.Date)
	if err != nil {
		return err
	}
	if len(req.Statuses) == 0 {
		return util.ValidationError("no homework statuses provided")
	}

	ids := make([]uint, 0, len(req.Statuses))
	records := make([]model.HomeworkRecord, 0, len(req.Statuses))
	for studentID, status := range req.Statuses {
		if !status.Valid() {
			return util.ValidationError("invalid homework status %q", status)
		}
		ids = append(ids, studentID)
		records = append(records, model.HomeworkRecord{StudentID: studentID, Date: day, Status: status})
	}

	return s.HomeworkRepo.DB.Transaction(func(tx *gorm.DB) error {
		if err := ownedStudents(repository.NewStudentRepository(tx), teacherID, req.ClassID, ids); err != nil {
			return err
		}
		return repository.NewHomeworkRepository(tx).Upsert(records)
	})
}

func (s *HomeworkService) History(teacherID, classID uint, from, to string) (*HomeworkHistory, error) {
	if to == "" {
		to = util.Today()
	}
	end, err := util.ParseDate(to)
	if err != nil {
		return nil, err
	}
	if from == "" {
		t, _ := time.Parse(util.DateFormat, end)
		from = t.AddDate(0, 0, -homeworkHistoryDays).Format(util.DateFormat)
	}
	start, err := util.ParseDate(from)
	if err != nil {
		return nil, err
	}
	if start > end {
		return nil, util.ValidationError("from date must not be after to date")
	}

	records, err := s.HomeworkRepo.History(classID, teacherID, start, end)
	if err != nil {
		return nil, err
	}
	counts, err := s.HomeworkRepo.StatusCounts(classID, teacherID, start, end)
	if err != nil {
		return nil, err
	}

	history := &HomeworkHistory{
		From:    start,
		To:      end,
		Records: records,
		Counts: map[string]int64{
			string(model.HomeworkOnTime): 0,
			string(model.HomeworkLate):   0,
			string(model.HomeworkAbsent): 0,
		},
	}
	for _, c := range counts {
		history.Counts[c.Status] = c.Count
	}
	return history, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
