package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionValidationPerType(t *testing.T) {
	env := newTestEnv(t)

	// 判断题必须带标准答案
	_, err := env.question.Create(QuestionRequest{
		Type:    model.QuestionTrueFalse,
		Content: "没有答案的判断题",
	})
	assert.Error(t, err)

	// 单选题必须恰好一个正确选项
	_, err = env.question.Create(QuestionRequest{
		Type:    model.QuestionSingleChoice,
		Content: "两个正确选项的单选题",
		Options: []model.QuestionOption{
			{ID: "a", Text: "甲", IsCorrect: true},
			{ID: "b", Text: "乙", IsCorrect: true},
		},
	})
	assert.Error(t, err)

	// 多选题至少一个正确选项
	_, err = env.question.Create(QuestionRequest{
		Type:    model.QuestionMultipleChoice,
		Content: "没有正确选项的多选题",
		Options: []model.QuestionOption{
			{ID: "a", Text: "甲", IsCorrect: false},
			{ID: "b", Text: "乙", IsCorrect: false},
		},
	})
	assert.Error(t, err)

	// 题型集合封闭
	_, err = env.question.Create(QuestionRequest{Type: "essay", Content: "作文题"})
	assert.ErrorIs(t, err, util.ErrUnknownQuestionType)
}

func TestQuestionLifecycle(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.question.Create(QuestionRequest{
		Type:        model.QuestionTrueFalse,
		Content:     "天空是蓝色的。",
		CorrectBool: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	inactive := false
	updated, err := env.question.Update(created.ID, QuestionRequest{
		Type:        model.QuestionTrueFalse,
		Content:     "天空是蓝色的。",
		CorrectBool: boolPtr(true),
		IsActive:    &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	// 停用的题不参与组卷
	active, err := env.questions.ListActive()
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, env.question.Delete(created.ID))
	_, err = env.question.Get(created.ID)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}
