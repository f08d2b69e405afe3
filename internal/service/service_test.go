package service

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq int

// newTestDB 每个测试用独立的内存库，互不串数据
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()

	testDBSeq++
	dsn := fmt.Sprintf("file:svc_test_%d_%d?mode=memory&cache=shared", testDBSeq, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Material{},
		&model.Enrollment{},
		&model.Question{},
		&model.ExamSetting{},
		&model.ExamHistory{},
		&model.ExamHistoryEntry{},
		&model.Certificate{},
	))
	return db
}

type testEnv struct {
	db          *gorm.DB
	enrollments *repository.EnrollmentRepository
	materials   *repository.MaterialRepository
	courses     *repository.CourseRepository
	questions   *repository.QuestionRepository
	histories   *repository.ExamHistoryRepository
	certs       *repository.CertificateRepository
	users       *repository.UserRepository

	settings    *SettingsService
	eligibility *EligibilityService
	progress    *ProgressService
	exam        *ExamService
	enrollment  *EnrollmentService
	certificate *CertificateService
	question    *QuestionService
	content     *ContentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	env := &testEnv{
		db:          db,
		enrollments: repository.NewEnrollmentRepository(db),
		materials:   repository.NewMaterialRepository(db),
		courses:     repository.NewCourseRepository(db),
		questions:   repository.NewQuestionRepository(db),
		histories:   repository.NewExamHistoryRepository(db),
		certs:       repository.NewCertificateRepository(db),
		users:       repository.NewUserRepository(db),
	}
	env.settings = NewSettingsService(repository.NewExamSettingRepository(db))
	env.eligibility = NewEligibilityService(env.enrollments, env.materials, env.courses, env.settings, nil)
	env.progress = NewProgressService(env.enrollments, env.eligibility)
	env.exam = NewExamService(env.questions, env.histories, env.settings, env.eligibility)
	env.enrollment = NewEnrollmentService(env.enrollments, env.courses)
	env.certificate = NewCertificateService(env.certs, env.enrollments, env.users, nil)
	env.question = NewQuestionService(env.questions)
	env.content = NewContentService(env.courses, env.materials)
	return env
}

func (env *testEnv) createCourse(t *testing.T, title string, materials ...model.Material) *model.Course {
	t.Helper()
	course := &model.Course{Title: title, Status: model.CourseActive}
	require.NoError(t, env.db.Create(course).Error)
	for i := range materials {
		materials[i].CourseID = course.ID
		require.NoError(t, env.db.Create(&materials[i]).Error)
	}
	return course
}

var testUserSeq int

func (env *testEnv) createUser(t *testing.T, name string) *model.User {
	t.Helper()
	testUserSeq++
	user := &model.User{
		Name:   name,
		Email:  fmt.Sprintf("%s-%d@example.com", name, testUserSeq),
		Gender: "female",
		Role:   model.Student,
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env *testEnv) enroll(t *testing.T, userID, courseID uint) *model.Enrollment {
	t.Helper()
	enrollment, _, err := env.enrollment.Enroll(userID, courseID)
	require.NoError(t, err)
	return enrollment
}

// completeCourse 把某条选课记录的视频账本全部推到 100
func (env *testEnv) completeCourse(t *testing.T, userID, enrollmentID, courseID uint) {
	t.Helper()
	materials, err := env.materials.ListByCourse(courseID)
	require.NoError(t, err)
	for _, m := range materials {
		_, err := env.progress.RecordProgress(userID, enrollmentID, m.Title, m.Type, 100)
		require.NoError(t, err)
	}
}

func videoLedger(t *testing.T, enrollment *model.Enrollment) []model.ProgressEntry {
	t.Helper()
	if len(enrollment.PercentLedger) == 0 {
		return nil
	}
	var entries []model.ProgressEntry
	require.NoError(t, json.Unmarshal(enrollment.PercentLedger, &entries))
	return entries
}
