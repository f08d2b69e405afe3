package service

import (
	"testing"

	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsAutoCreatedWithDefaults(t *testing.T) {
	env := newTestEnv(t)

	setting, err := env.settings.Get()
	require.NoError(t, err)

	assert.Equal(t, util.DefaultExamTimeLimit, setting.TimeLimit)
	assert.Equal(t, util.DefaultExamQuestionCount, setting.NumberOfQuestions)
	assert.Equal(t, util.DefaultExamPassingScore, setting.PassingScore)
	assert.Equal(t, util.DefaultReverifyInterval, setting.ReverifyInterval)

	// 再次读取返回同一条记录
	again, err := env.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, setting.ID, again.ID)
}

func TestSettingsPartialUpdate(t *testing.T) {
	env := newTestEnv(t)

	updated, err := env.settings.Update(ExamSettingRequest{PassingScore: intPtr(80)})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.PassingScore)
	// 未提供的字段保持默认值
	assert.Equal(t, util.DefaultExamTimeLimit, updated.TimeLimit)
	assert.Equal(t, util.DefaultExamQuestionCount, updated.NumberOfQuestions)
}

func TestSettingsRejectInvalidValues(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.settings.Update(ExamSettingRequest{TimeLimit: intPtr(0)})
	assert.Error(t, err)

	_, err = env.settings.Update(ExamSettingRequest{NumberOfQuestions: intPtr(-1)})
	assert.Error(t, err)

	_, err = env.settings.Update(ExamSettingRequest{PassingScore: intPtr(101)})
	assert.Error(t, err)

	_, err = env.settings.Update(ExamSettingRequest{ReverifyInterval: intPtr(0)})
	assert.Error(t, err)
}
