package service

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/monitoring"
)

// ExamService 组卷与判分。
// 组卷取题库前 N 道启用题（目录顺序，不随机、不自适应），去掉答案字段后下发；
// 判分为精确匹配，无部分给分，每题 1 分
type ExamService struct {
	Questions   *repository.QuestionRepository
	Histories   *repository.ExamHistoryRepository
	Settings    *SettingsService
	Eligibility *EligibilityService
}

func NewExamService(
	questions *repository.QuestionRepository,
	histories *repository.ExamHistoryRepository,
	settings *SettingsService,
	eligibility *EligibilityService,
) *ExamService {
	return &ExamService{
		Questions:   questions,
		Histories:   histories,
		Settings:    settings,
		Eligibility: eligibility,
	}
}

// ExamOptionView 下发给考生的选项，正确性标记已剥离
type ExamOptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type ExamQuestionView struct {
	ID      uint             `json:"id"`
	Type    string           `json:"type"`
	Content string           `json:"content"`
	Options []ExamOptionView `json:"options,omitempty"`
}

type ExamPaper struct {
	ExamID         uint               `json:"examId"`
	TimeLimit      int                `json:"timeLimit"` // 分钟
	TotalQuestions int                `json:"totalQuestions"`
	Questions      []ExamQuestionView `json:"questions"`
}

// AssembleExam 组卷。未通过资格判定的学员拿不到试卷，
// 这是预期结果而非系统错误
func (s *ExamService) AssembleExam(userID uint) (*ExamPaper, error) {
	eligible, err := s.Eligibility.Eligible(userID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, util.ErrNotEligible
	}

	setting, err := s.Settings.Get()
	if err != nil {
		return nil, err
	}

	questions, err := s.assembledSet(setting.NumberOfQuestions)
	if err != nil {
		return nil, err
	}

	views := make([]ExamQuestionView, 0, len(questions))
	for _, q := range questions {
		view := ExamQuestionView{
			ID:      q.ID,
			Type:    q.Type,
			Content: q.Content,
		}
		for _, opt := range decodeOptions(q.Options) {
			view.Options = append(view.Options, ExamOptionView{ID: opt.ID, Text: opt.Text})
		}
		views = append(views, view)
	}

	return &ExamPaper{
		ExamID:         setting.ID,
		TimeLimit:      setting.TimeLimit,
		TotalQuestions: setting.NumberOfQuestions,
		Questions:      views,
	}, nil
}

// SubmittedAnswer 考生对单题的作答。判断题填 boolAnswer，
// 单选填 optionId，多选填 optionIds；全部缺省视为未作答
type SubmittedAnswer struct {
	QuestionID uint     `json:"questionId"`
	BoolAnswer *bool    `json:"boolAnswer,omitempty"`
	OptionID   *string  `json:"optionId,omitempty"`
	OptionIDs  []string `json:"optionIds,omitempty"`
}

// GradeSubmission 判分并生成一条不可变的考试记录。
// 本层不限制考试次数，重复提交只会追加记录。
// 百分比以配置题数为分母，而非实际作答数
func (s *ExamService) GradeSubmission(userID, examID uint, answers []SubmittedAnswer, timeSpent int) (*model.ExamHistory, error) {
	setting, err := s.Settings.Get()
	if err != nil {
		return nil, err
	}
	if examID != setting.ID {
		return nil, util.ErrHistoryNotFound
	}

	questions, err := s.assembledSet(setting.NumberOfQuestions)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[uint]SubmittedAnswer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	score := 0
	entries := make([]model.ExamHistoryEntry, 0, len(questions))
	for _, q := range questions {
		answer, submitted := byQuestion[q.ID]
		graded, err := gradeQuestion(&q, answer, submitted)
		if err != nil {
			return nil, err
		}
		score += graded.Score
		entries = append(entries, *graded)
	}

	now := time.Now()
	total := setting.NumberOfQuestions
	percentage := int(math.Round(float64(score) / float64(total) * 100))
	history := &model.ExamHistory{
		UserID:         userID,
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage,
		Passed:         percentage >= setting.PassingScore,
		TimeAllotted:   setting.TimeLimit,
		TimeSpent:      timeSpent,
		SubmittedAt:    now,
		GradedAt:       now,
	}

	if err := s.Histories.CreateWithEntries(history, entries); err != nil {
		return nil, err
	}

	monitoring.RecordExamSubmission(history.Passed)
	return history, nil
}

func (s *ExamService) ListHistory(userID uint, page, limit int) ([]model.ExamHistory, int64, error) {
	return s.Histories.ListByUser(userID, page, limit)
}

func (s *ExamService) GetHistoryDetail(userID uint, historyID string) (*model.ExamHistory, []model.ExamHistoryEntry, error) {
	history, entries, err := s.Histories.FindByID(historyID)
	if err != nil {
		return nil, nil, err
	}
	if history.UserID != userID {
		return nil, nil, util.ErrHistoryNotFound
	}
	return history, entries, nil
}

// assembledSet 组卷结果只由题库顺序和配置题数决定，
// 判分时重新推导出与下发试卷相同的题集
func (s *ExamService) assembledSet(n int) ([]model.Question, error) {
	questions, err := s.Questions.ListActive()
	if err != nil {
		return nil, err
	}
	if len(questions) > n {
		questions = questions[:n]
	}
	return questions, nil
}

// gradeQuestion 按题型分派判分，题型集合封闭：
// true_false、single_choice、multiple_choice 之外一律拒绝
func gradeQuestion(q *model.Question, answer SubmittedAnswer, submitted bool) (*model.ExamHistoryEntry, error) {
	entry := &model.ExamHistoryEntry{
		QuestionID:      q.ID,
		QuestionType:    q.Type,
		QuestionContent: q.Content,
		QuestionOptions: q.Options,
	}

	switch q.Type {
	case model.QuestionTrueFalse:
		correct := q.CorrectBool != nil && *q.CorrectBool
		entry.CorrectAnswer = formatBool(correct)
		if submitted && answer.BoolAnswer != nil {
			entry.Answered = true
			ua := formatBool(*answer.BoolAnswer)
			entry.UserAnswer = &ua
			entry.IsCorrect = *answer.BoolAnswer == correct
		}

	case model.QuestionSingleChoice:
		correctID := ""
		for _, opt := range decodeOptions(q.Options) {
			if opt.IsCorrect {
				correctID = opt.ID
				break
			}
		}
		entry.CorrectAnswer = correctID
		if submitted && answer.OptionID != nil && *answer.OptionID != "" {
			entry.Answered = true
			entry.UserAnswer = answer.OptionID
			entry.IsCorrect = *answer.OptionID == correctID
		}

	case model.QuestionMultipleChoice:
		correctSet := make(map[string]bool)
		for _, opt := range decodeOptions(q.Options) {
			if opt.IsCorrect {
				correctSet[opt.ID] = true
			}
		}
		correctRaw, _ := json.Marshal(sortedKeys(correctSet))
		entry.CorrectAnswer = string(correctRaw)
		if submitted && len(answer.OptionIDs) > 0 {
			entry.Answered = true
			raw, _ := json.Marshal(answer.OptionIDs)
			ua := string(raw)
			entry.UserAnswer = &ua
			// 集合相等：多选、漏选均不得分，顺序无关
			entry.IsCorrect = sameOptionSet(answer.OptionIDs, correctSet)
		}

	default:
		return nil, util.ErrUnknownQuestionType
	}

	if entry.IsCorrect {
		entry.Score = 1
	}
	return entry, nil
}

func sameOptionSet(submitted []string, correct map[string]bool) bool {
	seen := make(map[string]bool, len(submitted))
	for _, id := range submitted {
		if !correct[id] {
			return false
		}
		seen[id] = true
	}
	return len(seen) == len(correct)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	// 快照中的标准答案按固定顺序存储，便于比对与展示
	sort.Strings(keys)
	return keys
}

func decodeOptions(raw json.RawMessage) []model.QuestionOption {
	if len(raw) == 0 {
		return nil
	}
	var opts []model.QuestionOption
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil
	}
	return opts
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
