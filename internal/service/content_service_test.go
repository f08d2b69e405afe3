package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseLifecycle(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.content.CreateCourse(CourseRequest{})
	assert.Error(t, err)

	course, err := env.content.CreateCourse(CourseRequest{
		Title:       strPtr("安全培训"),
		Description: strPtr("岗前必修"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CourseActive, course.Status)

	updated, err := env.content.UpdateCourse(course.ID, CourseRequest{Status: strPtr(model.CourseArchived)})
	require.NoError(t, err)
	assert.Equal(t, model.CourseArchived, updated.Status)
	// 未提供的字段保持不变
	assert.Equal(t, "安全培训", updated.Title)

	require.NoError(t, env.content.DeleteCourse(course.ID))
	_, _, err = env.content.GetCourse(course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestMaterialLifecycle(t *testing.T) {
	env := newTestEnv(t)
	course, err := env.content.CreateCourse(CourseRequest{Title: strPtr("安全培训")})
	require.NoError(t, err)

	_, err = env.content.CreateMaterial(9999, MaterialRequest{
		Title: strPtr("视频A"), Type: strPtr(model.MaterialVideo),
	})
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	_, err = env.content.CreateMaterial(course.ID, MaterialRequest{
		Title: strPtr("音频A"), Type: strPtr("audio"),
	})
	assert.ErrorIs(t, err, util.ErrUnknownMaterialType)

	material, err := env.content.CreateMaterial(course.ID, MaterialRequest{
		Title: strPtr("视频A"), Type: strPtr(model.MaterialVideo), Order: intPtr(1),
	})
	require.NoError(t, err)

	_, materials, err := env.content.GetCourse(course.ID)
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.Equal(t, material.ID, materials[0].ID)

	require.NoError(t, env.content.DeleteMaterial(material.ID))
	err = env.content.DeleteMaterial(material.ID)
	assert.ErrorIs(t, err, util.ErrMaterialNotFound)
}

func TestMaterialCatalogDrivesEligibilityScope(t *testing.T) {
	env := newTestEnv(t)

	// 没有资料的课程不进入资格评估范围
	_, err := env.content.CreateCourse(CourseRequest{Title: strPtr("空课程")})
	require.NoError(t, err)

	ids, err := env.materials.DistinctCourseIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}
