package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordProgressValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	course := env.createCourse(t, "安全培训",
		model.Material{Title: "入门视频", Type: model.MaterialVideo, Order: 1},
	)
	enrollment := env.enroll(t, user.ID, course.ID)

	_, err := env.progress.RecordProgress(user.ID, enrollment.ID, "入门视频", model.MaterialVideo, -1)
	assert.ErrorIs(t, err, util.ErrInvalidProgress)

	_, err = env.progress.RecordProgress(user.ID, enrollment.ID, "入门视频", model.MaterialVideo, 101)
	assert.ErrorIs(t, err, util.ErrInvalidProgress)

	_, err = env.progress.RecordProgress(user.ID, enrollment.ID, "入门视频", "audio", 50)
	assert.ErrorIs(t, err, util.ErrUnknownMaterialType)

	_, err = env.progress.RecordProgress(user.ID, 9999, "入门视频", model.MaterialVideo, 50)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)

	// 他人的选课记录不可写
	other := env.createUser(t, "bob")
	_, err = env.progress.RecordProgress(other.ID, enrollment.ID, "入门视频", model.MaterialVideo, 50)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestRecordProgressInactiveEnrollment(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	course := env.createCourse(t, "安全培训",
		model.Material{Title: "入门视频", Type: model.MaterialVideo, Order: 1},
	)
	enrollment := env.enroll(t, user.ID, course.ID)

	require.NoError(t, env.db.Model(&model.Enrollment{}).
		Where("id = ?", enrollment.ID).Update("status", model.EnrollmentSuspended).Error)

	_, err := env.progress.RecordProgress(user.ID, enrollment.ID, "入门视频", model.MaterialVideo, 50)
	assert.ErrorIs(t, err, util.ErrEnrollmentInactive)
}

func TestCompletionRateIsRoundedVideoAverage(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	course := env.createCourse(t, "安全培训",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
		model.Material{Title: "视频B", Type: model.MaterialVideo, Order: 2},
		model.Material{Title: "视频C", Type: model.MaterialVideo, Order: 3},
	)
	enrollment := env.enroll(t, user.ID, course.ID)

	_, err := env.progress.RecordProgress(user.ID, enrollment.ID, "视频A", model.MaterialVideo, 50)
	require.NoError(t, err)
	_, err = env.progress.RecordProgress(user.ID, enrollment.ID, "视频B", model.MaterialVideo, 25)
	require.NoError(t, err)
	result, err := env.progress.RecordProgress(user.ID, enrollment.ID, "视频C", model.MaterialVideo, 26)
	require.NoError(t, err)

	// (50+25+26)/3 = 33.67 -> 34
	assert.Equal(t, 34, result.CompletionRate)
	assert.Equal(t, model.EnrollmentActive, result.Status)
}

func TestDocumentDoesNotAffectCompletionRate(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	course := env.createCourse(t, "安全培训",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
		model.Material{Title: "手册", Type: model.MaterialDocument, Order: 2},
	)
	enrollment := env.enroll(t, user.ID, course.ID)

	_, err := env.progress.RecordProgress(user.ID, enrollment.ID, "视频A", model.MaterialVideo, 40)
	require.NoError(t, err)
	result, err := env.progress.RecordProgress(user.ID, enrollment.ID, "手册", model.MaterialDocument, 0)
	require.NoError(t, err)

	// 完成率只看视频账本
	assert.Equal(t, 40, result.CompletionRate)

	// 文档重复上报是幂等空操作
	result, err = env.progress.RecordProgress(user.ID, enrollment.ID, "手册", model.MaterialDocument, 0)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
}

func TestVideoSkipGuardAtFullProgress(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	course := env.createCourse(t, "安全培训",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
	)
	enrollment := env.enroll(t, user.ID, course.ID)

	_, err := env.progress.RecordProgress(user.ID, enrollment.ID, "视频A", model.MaterialVideo, 100)
	require.NoError(t, err)

	// 已达 100 后不可回退
	result, err := env.progress.RecordProgress(user.ID, enrollment.ID, "视频A", model.MaterialVideo, 30)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, 100, result.CompletionRate)

	stored, err := env.enrollments.FindByID(enrollment.ID)
	require.NoError(t, err)
	entries := videoLedger(t, stored)
	require.Len(t, entries, 1)
	assert.Equal(t, 100, entries[0].Progress)
}

func TestVideoProgressCanMoveBackwardBelowFull(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	course := env.createCourse(t, "安全培训",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
	)
	enrollment := env.enroll(t, user.ID, course.ID)

	_, err := env.progress.RecordProgress(user.ID, enrollment.ID, "视频A", model.MaterialVideo, 80)
	require.NoError(t, err)
	result, err := env.progress.RecordProgress(user.ID, enrollment.ID, "视频A", model.MaterialVideo, 20)
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.Equal(t, 20, result.CompletionRate)
}

func TestCompletionTransitionAtFullRate(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	course := env.createCourse(t, "安全培训",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
		model.Material{Title: "视频B", Type: model.MaterialVideo, Order: 2},
	)
	enrollment := env.enroll(t, user.ID, course.ID)

	_, err := env.progress.RecordProgress(user.ID, enrollment.ID, "视频A", model.MaterialVideo, 100)
	require.NoError(t, err)
	result, err := env.progress.RecordProgress(user.ID, enrollment.ID, "视频B", model.MaterialVideo, 100)
	require.NoError(t, err)

	assert.Equal(t, 100, result.CompletionRate)
	assert.Equal(t, model.EnrollmentCompleted, result.Status)

	stored, err := env.enrollments.FindByID(enrollment.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompletedAt)
}

func TestLegacyLedgerMirrorsVideoLedger(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	course := env.createCourse(t, "安全培训",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
		model.Material{Title: "手册", Type: model.MaterialDocument, Order: 2},
	)
	enrollment := env.enroll(t, user.ID, course.ID)

	_, err := env.progress.RecordProgress(user.ID, enrollment.ID, "视频A", model.MaterialVideo, 60)
	require.NoError(t, err)
	_, err = env.progress.RecordProgress(user.ID, enrollment.ID, "手册", model.MaterialDocument, 0)
	require.NoError(t, err)

	stored, err := env.enrollments.FindByID(enrollment.ID)
	require.NoError(t, err)

	// 旧版账本与视频账本保持一致，文档写入不触碰它
	assert.JSONEq(t, string(stored.PercentLedger), string(stored.LegacyLedger))
}

func TestEmptyLedgerMeansZeroRate(t *testing.T) {
	assert.Equal(t, 0, completionRate(nil))
	assert.Equal(t, 0, completionRate([]model.ProgressEntry{}))
}
