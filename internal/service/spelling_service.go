package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/util"

	"gorm.io/gorm"
)

const spellingPassMark = 80

type SaveSpellingRequest struct {
	ClassID  uint         `json:"classId" binding:"required"`
	WeekDate string       `json:"weekDate" binding:"required"`
	MaxScore int          `json:"maxScore"`
	Scores   map[uint]int `json:"scores" binding:"required"`
}

type SaveSpellingResult struct {
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
}

type LatestWeekStats struct {
	WeekDate  string  `json:"weekDate"`
	Average   float64 `json:"average"`
	Highest   float64 `json:"highest"`
	Lowest    float64 `json:"lowest"`
	AtOrAbove int     `json:"atOrAbove80"`
	Students  int     `json:"students"`
}

type SpellingAnalytics struct {
	ClassAverage    float64                     `json:"classAverage"`
	WeeklyAverages  []repository.WeeklyAverage  `json:"weeklyAverages"`
	StudentAverages []repository.StudentAverage `json:"studentAverages"`
	LatestWeek      *LatestWeekStats            `json:"latestWeek,omitempty"`
}

type SpellingService struct {
	SpellingRepo *repository.SpellingRepository
	StudentRepo  *repository.StudentRepository
}

func NewSpellingService(spellingRepo *repository.SpellingRepository, studentRepo *repository.StudentRepository) *SpellingService {
	return &SpellingService{SpellingRepo: spellingRepo, StudentRepo: studentRepo}
}

func SpellingPercentage(score, maxScore int) float64 {
	return float64(score) / float64(maxScore) * 100
}

// Save 分数为 0 的学生视为未参加，跳过
func (s *SpellingService) Save(teacherID uint, req SaveSpellingRequest) (*SaveSpellingResult, error) {
	week, err := util.ParseDate(req.WeekDate)
	if err != nil {
		return nil, err
	}
	if req.MaxScore == 0 {
		req.MaxScore = model.DefaultSpellingMaxScore
	}
	if req.MaxScore < 1 {
		return nil, util.ValidationError("max score must be positive")
	}

	result := &SaveSpellingResult{}
	ids := make([]uint, 0, len(req.Scores))
	tests := make([]model.SpellingTest, 0, len(req.Scores))
	for studentID, score := range req.Scores {
		if score < 0 || score > req.MaxScore {
			return nil, util.ValidationError("score %d is out of range 0-%d", score, req.MaxScore)
		}
		if score == 0 {
			result.Skipped++
			continue
		}
		ids = append(ids, studentID)
		tests = append(tests, model.SpellingTest{
			StudentID:  studentID,
			Score:      score,
			MaxScore:   req.MaxScore,
			WeekDate:   week,
			Percentage: SpellingPercentage(score, req.MaxScore),
		})
	}

	err = s.SpellingRepo.DB.Transaction(func(tx *gorm.DB) error {
		if err := ownedStudents(repository.NewStudentRepository(tx), teacherID, req.ClassID, ids); err != nil {
			return err
		}
		return repository.NewSpellingRepository(tx).Upsert(tests)
	})
	if err != nil {
		return nil, err
	}
	result.Saved = len(tests)
	return result, nil
}

func (s *SpellingService) Week(teacherID, classID uint, week string) ([]repository.SpellingRow, error) {
	day, err := util.ParseDate(week)
	if err != nil {
		return nil, err
	}
	return s.SpellingRepo.ListByWeek(classID, teacherID, day)
}

func (s *SpellingService) Analytics(teacherID, classID uint) (*SpellingAnalytics, error) {
	weekly, err := s.SpellingRepo.WeeklyAverages(classID, teacherID)
	if err != nil {
		return nil, err
	}
	students, err := s.SpellingRepo.StudentAverages(classID, teacherID)
	if err != nil {
		return nil, err
	}

	analytics := &SpellingAnalytics{WeeklyAverages: weekly, StudentAverages: students}

	var sum float64
	var n int64
	for _, w := range weekly {
		sum += w.Average * float64(w.Count)
		n += w.Count
	}
	if n > 0 {
		analytics.ClassAverage = util.Round(sum/float64(n), 1)
	}

	latest, err := s.SpellingRepo.LatestWeek(classID, teacherID)
	if err != nil {
		return nil, err
	}
	if latest == "" {
		return analytics, nil
	}

	rows, err := s.SpellingRepo.ListByWeek(classID, teacherID, latest)
	if err != nil {
		return nil, err
	}
	analytics.LatestWeek = latestWeekStats(latest, rows)
	return analytics, nil
}

func latestWeekStats(week string, rows []repository.SpellingRow) *LatestWeekStats {
	stats := &LatestWeekStats{WeekDate: week, Students: len(rows)}
	if len(rows) == 0 {
		return stats
	}
	stats.Highest = rows[0].Percentage
	stats.Lowest = rows[0].Percentage
	var sum float64
	for _, r := range rows {
		sum += r.Percentage
		if r.Percentage > stats.Highest {
			stats.Highest = r.Percentage
		}
		if r.Percentage < stats.Lowest {
			stats.Lowest = r.Percentage
		}
		if r.Percentage >= spellingPassMark {
			stats.AtOrAbove++
		}
	}
	stats.Average = util.Round(sum/float64(len(rows)), 1)
	return stats
}
