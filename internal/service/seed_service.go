package service

import (
	"class_tracker/internal/model"
	"class_tracker/internal/repository"
	"class_tracker/internal/util"
	"class_tracker/pkg/logger"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//go:embed seed/demo.yaml
var demoFixture []byte

type SeedFixture struct {
	Teacher struct {
		Username string `yaml:"username" validate:"required,min=3,max=50"`
		Password string `yaml:"password" validate:"required"`
		FullName string `yaml:"full_name" validate:"required"`
	} `yaml:"teacher"`
	Classes []struct {
		Name     string   `yaml:"name" validate:"required,max=100"`
		Students []string `yaml:"students" validate:"dive,required,max=100"`
	} `yaml:"classes" validate:"dive"`
	Todos []struct {
		Task   string           `yaml:"task" validate:"required"`
		Status model.TodoStatus `yaml:"status" validate:"enum"`
	} `yaml:"todos" validate:"dive"`
	Homework []struct {
		Student string               `yaml:"student" validate:"required"`
		Date    string               `yaml:"date" validate:"datetime=2006-01-02"`
		Status  model.HomeworkStatus `yaml:"status" validate:"enum"`
	} `yaml:"homework" validate:"dive"`
	Comments []struct {
		Student  string                `yaml:"student" validate:"required"`
		Category model.CommentCategory `yaml:"category" validate:"enum"`
		Comment  string                `yaml:"comment" validate:"required"`
		Evidence string                `yaml:"evidence"`
	} `yaml:"comments" validate:"dive"`
	Dictation struct {
		Task struct {
			Name       string `yaml:"name"`
			Transcript string `yaml:"transcript" validate:"required_with=Name"`
		} `yaml:"task"`
		Scores []struct {
			Student string `yaml:"student" validate:"required"`
			Text    string `yaml:"text"`
		} `yaml:"scores" validate:"dive"`
	} `yaml:"dictation"`
	Spelling []struct {
		Student  string `yaml:"student" validate:"required"`
		WeekDate string `yaml:"week_date" validate:"datetime=2006-01-02"`
		Score    int    `yaml:"score" validate:"min=0,ltefield=MaxScore"`
		MaxScore int    `yaml:"max_score" validate:"min=1"`
	} `yaml:"spelling" validate:"dive"`
	Grammar []struct {
		Student   string                 `yaml:"student" validate:"required"`
		ErrorType model.GrammarErrorType `yaml:"error_type" validate:"enum"`
		Example   string                 `yaml:"example" validate:"required"`
	} `yaml:"grammar" validate:"dive"`
	Essays []struct {
		Student    string                   `yaml:"student" validate:"required"`
		Title      string                   `yaml:"title" validate:"required"`
		Type       model.EssayType          `yaml:"type" validate:"enum"`
		Text       string                   `yaml:"text" validate:"required"`
		FeedbackEN string                   `yaml:"feedback_en"`
		FeedbackZH string                   `yaml:"feedback_zh"`
		Breakdown  *model.CriteriaBreakdown `yaml:"breakdown"`
	} `yaml:"essays" validate:"dive"`
}

type SeedSummary struct {
	Username string `json:"username"`
	Classes  int    `json:"classes"`
	Students int    `json:"students"`
	Rows     int    `json:"rows"`
}

func LoadDemoFixture() (*SeedFixture, error) {
	return ParseSeedFixture(demoFixture)
}

// ParseSeedFixture 解析并校验 YAML 样例数据
func ParseSeedFixture(data []byte) (*SeedFixture, error) {
	var f SeedFixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid demo fixture: %w", err)
	}
	if err := util.ValidateStruct(&f); err != nil {
		return nil, fmt.Errorf("invalid demo fixture: %w", err)
	}
	return &f, nil
}

type SeedService struct {
	DB *gorm.DB
}

func NewSeedService(db *gorm.DB) *SeedService {
	return &SeedService{DB: db}
}

// SeedDemo 重复执行安全：先删除旧的演示账号（数据随外键级联删除）再重建
func (s *SeedService) SeedDemo() (*SeedSummary, error) {
	f, err := LoadDemoFixture()
	if err != nil {
		return nil, err
	}
	return s.Seed(f)
}

func (s *SeedService) Seed(f *SeedFixture) (*SeedSummary, error) {
	hash, err := HashPassword(f.Teacher.Password)
	if err != nil {
		return nil, err
	}

	summary := &SeedSummary{Username: f.Teacher.Username}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		if old, err := users.FindByUsername(f.Teacher.Username); err == nil {
			if err := users.Delete(old.ID); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		teacher := &model.User{
			Username:     f.Teacher.Username,
			PasswordHash: hash,
			FullName:     f.Teacher.FullName,
			Role:         model.Teacher,
			IsActive:     true,
		}
		if err := users.Create(teacher); err != nil {
			return err
		}

		students := make(map[string]uint)
		for _, c := range f.Classes {
			class := &model.Class{Name: c.Name, TeacherID: teacher.ID}
			if err := tx.Create(class).Error; err != nil {
				return err
			}
			summary.Classes++
			for _, name := range c.Students {
				st := &model.Student{Name: name, ClassName: c.Name, ClassID: class.ID, TeacherID: teacher.ID}
				if err := tx.Create(st).Error; err != nil {
					return err
				}
				students[name] = st.ID
				summary.Students++
			}
		}

		studentID := func(name string) (uint, error) {
			id, ok := students[name]
			if !ok {
				return 0, fmt.Errorf("demo fixture references unknown student %q", name)
			}
			return id, nil
		}

		var rows []interface{}
		for _, t := range f.Todos {
			rows = append(rows, &model.Todo{Task: t.Task, Status: t.Status, TeacherID: teacher.ID})
		}
		for _, h := range f.Homework {
			id, err := studentID(h.Student)
			if err != nil {
				return err
			}
			rows = append(rows, &model.HomeworkRecord{StudentID: id, Date: h.Date, Status: h.Status})
		}
		for _, c := range f.Comments {
			id, err := studentID(c.Student)
			if err != nil {
				return err
			}
			rows = append(rows, &model.Comment{StudentID: id, Category: c.Category, Comment: c.Comment, Evidence: c.Evidence})
		}
		for _, sp := range f.Spelling {
			id, err := studentID(sp.Student)
			if err != nil {
				return err
			}
			rows = append(rows, &model.SpellingTest{
				StudentID:  id,
				Score:      sp.Score,
				MaxScore:   sp.MaxScore,
				WeekDate:   sp.WeekDate,
				Percentage: SpellingPercentage(sp.Score, sp.MaxScore),
			})
		}
		for _, g := range f.Grammar {
			id, err := studentID(g.Student)
			if err != nil {
				return err
			}
			rows = append(rows, &model.GrammarError{StudentID: id, ErrorType: g.ErrorType, Example: g.Example})
		}
		for _, e := range f.Essays {
			id, err := studentID(e.Student)
			if err != nil {
				return err
			}
			mark := &model.EssayMark{
				StudentID:  id,
				EssayTitle: e.Title,
				EssayType:  e.Type,
				EssayText:  e.Text,
				FeedbackEN: e.FeedbackEN,
				FeedbackZH: e.FeedbackZH,
			}
			if e.Breakdown != nil {
				data, err := json.Marshal(e.Breakdown)
				if err != nil {
					return err
				}
				mark.Score = e.Breakdown.Total()
				mark.CriteriaBreakdown = datatypes.JSON(data)
			}
			rows = append(rows, mark)
		}

		if f.Dictation.Task.Name != "" {
			task := &model.DictationTask{Name: f.Dictation.Task.Name, Transcript: f.Dictation.Task.Transcript, TeacherID: teacher.ID}
			if err := tx.Create(task).Error; err != nil {
				return err
			}
			summary.Rows++
			for _, sc := range f.Dictation.Scores {
				id, err := studentID(sc.Student)
				if err != nil {
					return err
				}
				result := BasicDictationScore(task.Transcript, sc.Text)
				rows = append(rows, &model.DictationScore{
					StudentID:   id,
					TaskID:      task.ID,
					StudentText: sc.Text,
					Score:       result.Score,
					AutoScore:   result.Score,
					ScoreSource: result.Source,
					FeedbackEN:  result.FeedbackEN,
					FeedbackZH:  result.FeedbackZH,
				})
			}
		}

		for _, row := range rows {
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		summary.Rows += len(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Demo data seeded", zap.String("username", summary.Username), zap.Int("students", summary.Students))
	return summary, nil
}
