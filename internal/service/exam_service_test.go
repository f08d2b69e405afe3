package service

import (
	"encoding/json"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool       { return &b }
func strPtr(s string) *string    { return &s }
func intPtr(n int) *int          { return &n }
func mustJSON(v interface{}) json.RawMessage {
	raw, _ := json.Marshal(v)
	return raw
}

// makeEligible 造一个完成全部课程、具备考试资格的学员
func (env *testEnv) makeEligible(t *testing.T) *model.User {
	t.Helper()
	user := env.createUser(t, "candidate")
	course := env.createCourse(t, "必修课",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
	)
	enrollment := env.enroll(t, user.ID, course.ID)
	env.completeCourse(t, user.ID, enrollment.ID, course.ID)
	return user
}

func (env *testEnv) seedQuestionBank(t *testing.T) []model.Question {
	t.Helper()
	questions := []model.Question{
		{
			Content:     "判断题：天空是蓝色的。",
			Type:        model.QuestionTrueFalse,
			CorrectBool: boolPtr(true),
			IsActive:    true,
			Order:       1,
		},
		{
			Content: "单选题：正确选项是？",
			Type:    model.QuestionSingleChoice,
			Options: mustJSON([]model.QuestionOption{
				{ID: "a", Text: "甲", IsCorrect: false},
				{ID: "b", Text: "乙", IsCorrect: true},
			}),
			IsActive: true,
			Order:    2,
		},
		{
			Content: "多选题：正确选项是？",
			Type:    model.QuestionMultipleChoice,
			Options: mustJSON([]model.QuestionOption{
				{ID: "a", Text: "甲", IsCorrect: true},
				{ID: "b", Text: "乙", IsCorrect: true},
				{ID: "c", Text: "丙", IsCorrect: false},
			}),
			IsActive: true,
			Order:    3,
		},
		{
			Content:     "停用题，不应出现在试卷上。",
			Type:        model.QuestionTrueFalse,
			CorrectBool: boolPtr(false),
			IsActive:    false,
			Order:       0,
		},
	}
	require.NoError(t, env.db.Create(&questions).Error)
	return questions
}

func TestAssembleExamRequiresEligibility(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "slacker")
	env.createCourse(t, "必修课",
		model.Material{Title: "视频A", Type: model.MaterialVideo, Order: 1},
	)

	_, err := env.exam.AssembleExam(user.ID)
	assert.ErrorIs(t, err, util.ErrNotEligible)
}

func TestAssembleExamTakesFirstActiveQuestionsInOrder(t *testing.T) {
	env := newTestEnv(t)
	user := env.makeEligible(t)
	env.seedQuestionBank(t)

	_, err := env.settings.Update(ExamSettingRequest{NumberOfQuestions: intPtr(2)})
	require.NoError(t, err)

	paper, err := env.exam.AssembleExam(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, paper.TotalQuestions)
	require.Len(t, paper.Questions, 2)
	assert.Equal(t, model.QuestionTrueFalse, paper.Questions[0].Type)
	assert.Equal(t, model.QuestionSingleChoice, paper.Questions[1].Type)
}

func TestAssembleExamStripsAnswers(t *testing.T) {
	env := newTestEnv(t)
	user := env.makeEligible(t)
	env.seedQuestionBank(t)

	paper, err := env.exam.AssembleExam(user.ID)
	require.NoError(t, err)

	raw, err := json.Marshal(paper)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "isCorrect")
	assert.NotContains(t, string(raw), "correctBool")
}

func TestGradeSubmissionFullMarks(t *testing.T) {
	env := newTestEnv(t)
	user := env.makeEligible(t)
	questions := env.seedQuestionBank(t)

	_, err := env.settings.Update(ExamSettingRequest{NumberOfQuestions: intPtr(3), PassingScore: intPtr(70)})
	require.NoError(t, err)
	setting, err := env.settings.Get()
	require.NoError(t, err)

	answers := []SubmittedAnswer{
		{QuestionID: questions[0].ID, BoolAnswer: boolPtr(true)},
		{QuestionID: questions[1].ID, OptionID: strPtr("b")},
		{QuestionID: questions[2].ID, OptionIDs: []string{"b", "a"}}, // 顺序无关
	}

	history, err := env.exam.GradeSubmission(user.ID, setting.ID, answers, 120)
	require.NoError(t, err)

	assert.Equal(t, 3, history.Score)
	assert.Equal(t, 3, history.TotalQuestions)
	assert.Equal(t, 100, history.Percentage)
	assert.True(t, history.Passed)
}

func TestGradeSubmissionMultipleChoiceSetEquality(t *testing.T) {
	env := newTestEnv(t)
	user := env.makeEligible(t)
	questions := env.seedQuestionBank(t)

	_, err := env.settings.Update(ExamSettingRequest{NumberOfQuestions: intPtr(3)})
	require.NoError(t, err)
	setting, err := env.settings.Get()
	require.NoError(t, err)

	cases := []struct {
		name     string
		optionID []string
		score    int
	}{
		{"漏选不得分", []string{"a"}, 0},
		{"多选不得分", []string{"a", "b", "c"}, 0},
		{"选错不得分", []string{"a", "c"}, 0},
		{"重复提交同一项不影响集合比较", []string{"a", "b", "b"}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answers := []SubmittedAnswer{
				{QuestionID: questions[2].ID, OptionIDs: tc.optionID},
			}
			history, err := env.exam.GradeSubmission(user.ID, setting.ID, answers, 60)
			require.NoError(t, err)
			assert.Equal(t, tc.score, history.Score)
		})
	}
}

func TestGradeSubmissionUnansweredScoresZero(t *testing.T) {
	env := newTestEnv(t)
	user := env.makeEligible(t)
	env.seedQuestionBank(t)

	_, err := env.settings.Update(ExamSettingRequest{NumberOfQuestions: intPtr(3)})
	require.NoError(t, err)
	setting, err := env.settings.Get()
	require.NoError(t, err)

	history, err := env.exam.GradeSubmission(user.ID, setting.ID, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, history.Score)
	assert.Equal(t, 0, history.Percentage)
	assert.False(t, history.Passed)

	_, entries, err := env.exam.GetHistoryDetail(user.ID, history.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.False(t, e.Answered)
		assert.Nil(t, e.UserAnswer)
		assert.False(t, e.IsCorrect)
	}
}

func TestGradeSubmissionPercentageUsesConfiguredCount(t *testing.T) {
	env := newTestEnv(t)
	user := env.makeEligible(t)
	questions := env.seedQuestionBank(t)

	// 题库只有 3 道启用题，但配置题数为 4：分母仍是 4
	_, err := env.settings.Update(ExamSettingRequest{NumberOfQuestions: intPtr(4)})
	require.NoError(t, err)
	setting, err := env.settings.Get()
	require.NoError(t, err)

	answers := []SubmittedAnswer{
		{QuestionID: questions[0].ID, BoolAnswer: boolPtr(true)},
		{QuestionID: questions[1].ID, OptionID: strPtr("b")},
		{QuestionID: questions[2].ID, OptionIDs: []string{"a", "b"}},
	}
	history, err := env.exam.GradeSubmission(user.ID, setting.ID, answers, 60)
	require.NoError(t, err)

	assert.Equal(t, 3, history.Score)
	assert.Equal(t, 4, history.TotalQuestions)
	assert.Equal(t, 75, history.Percentage)
}

func TestGradeSubmissionRejectsUnknownExamID(t *testing.T) {
	env := newTestEnv(t)
	user := env.makeEligible(t)
	env.seedQuestionBank(t)

	_, err := env.exam.GradeSubmission(user.ID, 9999, nil, 10)
	assert.ErrorIs(t, err, util.ErrHistoryNotFound)
}

func TestHistoryDetailHiddenFromOtherUsers(t *testing.T) {
	env := newTestEnv(t)
	user := env.makeEligible(t)
	env.seedQuestionBank(t)

	setting, err := env.settings.Get()
	require.NoError(t, err)
	history, err := env.exam.GradeSubmission(user.ID, setting.ID, nil, 10)
	require.NoError(t, err)

	other := env.createUser(t, "snooper")
	_, _, err = env.exam.GetHistoryDetail(other.ID, history.ID)
	assert.ErrorIs(t, err, util.ErrHistoryNotFound)
}

func TestGradeQuestionRejectsUnknownType(t *testing.T) {
	q := &model.Question{Type: "essay", Content: "写一篇作文"}
	q.ID = 1
	_, err := gradeQuestion(q, SubmittedAnswer{}, false)
	assert.ErrorIs(t, err, util.ErrUnknownQuestionType)
}
